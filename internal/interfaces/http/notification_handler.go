package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/notify"
)

// NotificationHandler avisos transitorios pendientes de mostrar.
type NotificationHandler struct {
	center *notify.Center
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// List godoc
// @Summary      Avisos activos (expiran solos)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  notify.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.center.Active())
}

// Dismiss godoc
// @Summary      Descartar un aviso
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "ID del aviso"
// @Success      204
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	h.center.Dismiss(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
