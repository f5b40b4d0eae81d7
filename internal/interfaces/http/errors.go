package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/dto"
	appst "github.com/jhoicas/smartwms/internal/application/stocktake"
	"github.com/jhoicas/smartwms/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var confirm *appst.ConfirmationError
	switch {
	case errors.As(err, &confirm):
		return c.Status(fiber.StatusConflict).JSON(dto.ConfirmationRequiredResponse{
			Code:            "CONFIRMATION_REQUIRED",
			Message:         confirm.Error(),
			TotalDifference: confirm.TotalDifference,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "la sesión fue cerrada por el backend"})
	case errors.Is(err, domain.ErrSessionCompleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_COMPLETED", Message: err.Error()})
	case errors.Is(err, domain.ErrScannerClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCANNER_CLOSED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrExternal):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "EXTERNAL", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageFrom lee limit/offset de la query con los límites del listado.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if p.Limit > 100 {
		p.Limit = 100
	}
	p.DefaultPage()
	return p
}
