package dto

import "time"

// ProductRefDTO referencia mínima de producto en sugerencias.
type ProductRefDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Location string `json:"location"`
}

// MoveSuggestionDTO sugerencia de traslado.
type MoveSuggestionDTO struct {
	Product       ProductRefDTO `json:"product"`
	CurrentZone   string        `json:"current_zone"`
	IdealZone     string        `json:"ideal_zone"`
	VelocityScore int           `json:"velocity_score"` // total de salidas
	Reason        string        `json:"reason"`
}

// ZoneCountDTO conteo por zona para gráficos.
type ZoneCountDTO struct {
	Zone  string `json:"zone"`
	Count int    `json:"count"`
}

// OptimizationAnalysisDTO respuesta de GET/POST /api/optimization/analysis.
type OptimizationAnalysisDTO struct {
	Efficiency        int                 `json:"efficiency"` // %
	CorrectPlacements int                 `json:"correct_placements"`
	TotalProducts     int                 `json:"total_products"`
	Suggestions       []MoveSuggestionDTO `json:"suggestions"`
	CurrentZones      []ZoneCountDTO      `json:"current_zones"` // A, B, C, Other
	IdealZones        []ZoneCountDTO      `json:"ideal_zones"`   // A, B, C
	AnalyzedAt        time.Time           `json:"analyzed_at"`
}

// MovementLogDTO entrada del historial de traslados.
type MovementLogDTO struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SKU          string    `json:"sku"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	Date         time.Time `json:"date"`
}

// ApplyMoveResponse resultado de aplicar una sugerencia.
type ApplyMoveResponse struct {
	Movement             MovementLogDTO `json:"movement"`
	NewLocation          string         `json:"new_location"`
	Efficiency           int            `json:"efficiency"`
	EfficiencyIsEstimate bool           `json:"efficiency_is_estimate"` // +1 optimista, sin recálculo
	PendingMoves         int            `json:"pending_moves"`
}

// MovementListResponse página del historial de traslados.
type MovementListResponse struct {
	Items []MovementLogDTO `json:"items"`
	Page  PageResponse     `json:"page"`
}
