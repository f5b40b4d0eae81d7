package entity

import "time"

// MovementLog registro de un traslado de ubicación aplicado desde la optimización de zonas.
// Se crea una sola vez por movimiento y no se modifica.
type MovementLog struct {
	ID           string
	ProductID    string
	ProductName  string
	SKU          string
	FromLocation string
	ToLocation   string
	Date         time.Time
}
