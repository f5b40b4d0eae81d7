package entity

import "time"

// TransactionType tipo de transacción de stock. Los valores son los del backend.
type TransactionType string

const (
	TransactionImport TransactionType = "NHAP" // entrada
	TransactionExport TransactionType = "XUAT" // salida
)

// Transaction registro inmutable de entrada o salida de un producto.
type Transaction struct {
	ID          string
	ProductID   string
	ProductName string
	Type        TransactionType
	Quantity    int
	Serials     []string
	Partner     string // proveedor o cliente
	Date        time.Time
	Notes       string
}
