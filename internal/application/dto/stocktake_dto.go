package dto

import "time"

// StartStocktakeRequest body de POST /api/stocktakes.
type StartStocktakeRequest struct {
	Mode string `json:"mode"` // normal | blind
}

// AdjustItemRequest body de PUT /api/stocktakes/:id/items/:productId.
type AdjustItemRequest struct {
	ActualQuantity *int    `json:"actual_quantity"`
	Notes          *string `json:"notes,omitempty"`
}

// SessionNotesRequest body de PUT /api/stocktakes/:id/notes.
type SessionNotesRequest struct {
	Notes string `json:"notes"`
}

// ScanRequest evento decodificado por la cámara.
type ScanRequest struct {
	Code  string `json:"code"`
	Error string `json:"error,omitempty"` // fotograma ilegible
}

// FinalizeStocktakeRequest body de POST /api/stocktakes/:id/finalize.
type FinalizeStocktakeRequest struct {
	Notes   string `json:"notes"`
	Confirm bool   `json:"confirm"`
}

// StocktakeItemDTO línea de conteo. En modo ciego SystemQuantity y Difference se omiten.
type StocktakeItemDTO struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	SKU            string `json:"sku"`
	SystemQuantity *int   `json:"system_quantity,omitempty"`
	ActualQuantity int    `json:"actual_quantity"`
	Difference     *int   `json:"difference,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// StocktakeDraftDTO vista de trabajo de una sesión en curso.
type StocktakeDraftDTO struct {
	ID              string             `json:"id"`
	Mode            string             `json:"mode"`
	Status          string             `json:"status"`
	StartedAt       time.Time          `json:"started_at"`
	Notes           string             `json:"notes"`
	Items           []StocktakeItemDTO `json:"items"`
	TotalDifference *int               `json:"total_difference,omitempty"`
	LastScannedID   string             `json:"last_scanned_id,omitempty"`
	ScannerActive   bool               `json:"scanner_active"`
}

// ScanResultDTO resultado de un evento de escaneo.
type ScanResultDTO struct {
	Outcome       string            `json:"outcome"` // matched | unmatched | debounced | ignored
	Item          *StocktakeItemDTO `json:"item,omitempty"`
	LastScannedID string            `json:"last_scanned_id,omitempty"`
}

// StocktakeSessionDTO sesión finalizada.
type StocktakeSessionDTO struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	TotalDifference int                `json:"total_difference"`
	Items           []StocktakeItemDTO `json:"items"`
}

// ConfirmationRequiredResponse 409 cuando finalizar requiere confirmación del usuario.
type ConfirmationRequiredResponse struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	TotalDifference int    `json:"total_difference"`
}

// StocktakeListResponse página de sesiones finalizadas.
type StocktakeListResponse struct {
	Items []StocktakeSessionDTO `json:"items"`
	Page  PageResponse          `json:"page"`
}
