package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/dto"
	"github.com/jhoicas/smartwms/internal/application/session"
)

// SessionHandler sesión del operador: token guardado y preferencias de menú.
type SessionHandler struct {
	ctx *session.Context
}

// NewSessionHandler construye el handler.
func NewSessionHandler(ctx *session.Context) *SessionHandler {
	return &SessionHandler{ctx: ctx}
}

// SignIn godoc
// @Summary      Guardar el token del request como sesión de la estación
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionDTO
// @Router       /api/session [post]
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	token, _ := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err := h.ctx.SignIn(token, GetUsername(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.view())
}

// Get godoc
// @Summary      Sesión actual y preferencias
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionDTO
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.view())
}

// SignOut godoc
// @Summary      Cerrar la sesión guardada
// @Tags         session
// @Security     Bearer
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	if err := h.ctx.Clear(); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetSidebar godoc
// @Summary      Guardar los elementos visibles del menú lateral
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SidebarRequest  true  "Elementos"
// @Success      200  {object}  dto.SessionDTO
// @Router       /api/session/sidebar [put]
func (h *SessionHandler) SetSidebar(c *fiber.Ctx) error {
	var in dto.SidebarRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.ctx.SetSidebarItems(in.Items); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.view())
}

func (h *SessionHandler) view() dto.SessionDTO {
	return dto.SessionDTO{
		Username:      h.ctx.Username(),
		Authenticated: h.ctx.Token() != "",
		SidebarItems:  h.ctx.SidebarItems(),
	}
}
