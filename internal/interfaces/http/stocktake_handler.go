package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/dto"
	"github.com/jhoicas/smartwms/internal/application/stocktake"
)

// StocktakeHandler sesiones de inventario físico.
type StocktakeHandler struct {
	uc *stocktake.StocktakeUseCase
}

// NewStocktakeHandler construye el handler.
func NewStocktakeHandler(uc *stocktake.StocktakeUseCase) *StocktakeHandler {
	return &StocktakeHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar inventario (modo normal o ciego)
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartStocktakeRequest  false  "Modo"
// @Success      201   {object}  dto.StocktakeDraftDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stocktakes [post]
func (h *StocktakeHandler) Start(c *fiber.Ctx) error {
	var in dto.StartStocktakeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Start(c.UserContext(), in.Mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Vista de trabajo de un inventario en curso
// @Tags         stocktakes
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la sesión"
// @Param        q         query  string  false  "Texto en nombre o SKU"
// @Param        category  query  string  false  "Categoría (all = todas)"
// @Success      200  {object}  dto.StocktakeDraftDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id} [get]
func (h *StocktakeHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"), c.Query("q"), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Abandon godoc
// @Summary      Descartar un inventario en curso
// @Tags         stocktakes
// @Security     Bearer
// @Param        id  path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id} [delete]
func (h *StocktakeHandler) Abandon(c *fiber.Ctx) error {
	if err := h.uc.Abandon(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustItem godoc
// @Summary      Fijar cantidad contada y/o nota de un producto
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                  true  "ID de la sesión"
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.AdjustItemRequest   true  "Cantidad/nota"
// @Success      200  {object}  dto.StocktakeItemDTO
// @Success      204  "producto no presente en la sesión: sin cambios"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id}/items/{productId} [put]
func (h *StocktakeHandler) AdjustItem(c *fiber.Ctx) error {
	var in dto.AdjustItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ActualQuantity == nil && in.Notes == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "actual_quantity o notes es requerido"})
	}
	out, err := h.uc.AdjustQuantity(c.Params("id"), c.Params("productId"), in.ActualQuantity, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

// SetNotes godoc
// @Summary      Notas generales del inventario
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                   true  "ID de la sesión"
// @Param        body  body  dto.SessionNotesRequest  true  "Notas"
// @Success      204
// @Router       /api/stocktakes/{id}/notes [put]
func (h *StocktakeHandler) SetNotes(c *fiber.Ctx) error {
	var in dto.SessionNotesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SetNotes(c.Params("id"), in.Notes); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenScanner godoc
// @Summary      Activar el escáner de cámara para la sesión
// @Tags         stocktakes
// @Security     Bearer
// @Param        id  path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/stocktakes/{id}/scanner [post]
func (h *StocktakeHandler) OpenScanner(c *fiber.Ctx) error {
	if err := h.uc.OpenScanner(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CloseScanner godoc
// @Summary      Liberar el escáner de cámara
// @Tags         stocktakes
// @Security     Bearer
// @Param        id  path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/stocktakes/{id}/scanner [delete]
func (h *StocktakeHandler) CloseScanner(c *fiber.Ctx) error {
	if err := h.uc.CloseScanner(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Scan godoc
// @Summary      Procesar un código decodificado por la cámara
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la sesión"
// @Param        body  body  dto.ScanRequest  true  "Código o error de decodificación"
// @Success      200  {object}  dto.ScanResultDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id}/scans [post]
func (h *StocktakeHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Scan(c.Params("id"), in.Code, in.Error)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Finalizar y guardar el inventario
// @Tags         stocktakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la sesión"
// @Param        body  body  dto.FinalizeStocktakeRequest  false "Notas y confirmación"
// @Success      200  {object}  dto.StocktakeSessionDTO
// @Failure      409  {object}  dto.ConfirmationRequiredResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/{id}/finalize [post]
func (h *StocktakeHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeStocktakeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Finalize(c.UserContext(), c.Params("id"), in.Notes, in.Confirm)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de inventarios finalizados
// @Tags         stocktakes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.StocktakeListResponse
// @Router       /api/stocktakes [get]
func (h *StocktakeHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	items, total, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StocktakeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// ExportCSV godoc
// @Summary      Exportar un inventario finalizado a CSV
// @Tags         stocktakes
// @Security     Bearer
// @Produce      text/csv
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/history/{id}/export.csv [get]
func (h *StocktakeHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	name, err := h.uc.ExportCSV(c.UserContext(), c.Params("id"), &buf)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(buf.Bytes())
}

// ReportPDF godoc
// @Summary      Informe PDF de un inventario finalizado
// @Tags         stocktakes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktakes/history/{id}/report.pdf [get]
func (h *StocktakeHandler) ReportPDF(c *fiber.Ctx) error {
	b, name, err := h.uc.ExportPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, name))
	return c.Send(b)
}

// Drafts godoc
// @Summary      IDs de los inventarios en curso
// @Tags         stocktakes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/stocktakes/drafts [get]
func (h *StocktakeHandler) Drafts(c *fiber.Ctx) error {
	return c.JSON(h.uc.Drafts())
}
