package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/dto"
	"github.com/jhoicas/smartwms/internal/application/optimization"
)

// OptimizationHandler análisis de zonas y traslados.
type OptimizationHandler struct {
	uc *optimization.StorageOptimizationUseCase
}

// NewOptimizationHandler construye el handler.
func NewOptimizationHandler(uc *optimization.StorageOptimizationUseCase) *OptimizationHandler {
	return &OptimizationHandler{uc: uc}
}

// Current godoc
// @Summary      Último análisis de zonas (se calcula si no hay ninguno)
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OptimizationAnalysisDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/optimization/analysis [get]
func (h *OptimizationHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Analyze godoc
// @Summary      Recalcular el análisis de zonas
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OptimizationAnalysisDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/optimization/analysis [post]
func (h *OptimizationHandler) Analyze(c *fiber.Ctx) error {
	out, err := h.uc.Analyze(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplyMove godoc
// @Summary      Aplicar la sugerencia de traslado de un producto
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ApplyMoveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/optimization/suggestions/{productId}/apply [post]
func (h *OptimizationHandler) ApplyMove(c *fiber.Ctx) error {
	out, err := h.uc.ApplyMove(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de traslados
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/optimization/movements [get]
func (h *OptimizationHandler) Movements(c *fiber.Ctx) error {
	page := pageFrom(c)
	items, total, err := h.uc.History(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}
