package entity

import "time"

// Estados de una sesión de inventario físico.
const (
	StocktakeStatusDraft     = "DRAFT"
	StocktakeStatusCompleted = "COMPLETED"
)

// StocktakeItem línea de conteo. Invariante: Difference == ActualQuantity - SystemQuantity.
type StocktakeItem struct {
	ProductID      string
	ProductName    string
	SKU            string
	SystemQuantity int // snapshot al iniciar la sesión
	ActualQuantity int
	Difference     int
	Notes          string
}

// StocktakeSession sesión de conteo. Una vez COMPLETED es inmutable.
type StocktakeSession struct {
	ID              string
	Date            time.Time
	Items           []StocktakeItem
	Status          string
	Notes           string
	TotalDifference int // suma de |Difference|
}

// AbsDifference devuelve |Difference|.
func (i StocktakeItem) AbsDifference() int {
	if i.Difference < 0 {
		return -i.Difference
	}
	return i.Difference
}
