package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrExternal             = errors.New("fallo del servicio externo")
	ErrConfirmationRequired = errors.New("se requiere confirmación explícita")
	ErrSessionCompleted     = errors.New("la sesión de inventario ya fue finalizada")
	ErrScannerClosed        = errors.New("el escáner no está activo")
)
