package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo externo.
// Location sigue la convención "<zona>-<estante>" (ej. "A-12"); la primera letra es la zona.
type Product struct {
	ID          string
	Name        string
	SKU         string // único, se usa como clave de escaneo
	Category    string
	Brand       string
	Quantity    int
	MinStock    int
	Price       decimal.Decimal
	Location    string
	Serials     []string // IMEIs u otros seriales
	LastUpdated time.Time
}

// Clone devuelve una copia profunda; los motores nunca mutan el snapshot compartido.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Serials != nil {
		c.Serials = append([]string(nil), p.Serials...)
	}
	return &c
}

// ProductDraft variante tipada para edición parcial; se reconcilia a Product solo al enviar.
type ProductDraft struct {
	Name     *string
	SKU      *string
	Category *string
	Brand    *string
	Quantity *int
	MinStock *int
	Price    *decimal.Decimal
	Location *string
}

// ApplyTo devuelve una copia de base con los campos del borrador aplicados.
func (d ProductDraft) ApplyTo(base *Product, now time.Time) *Product {
	p := base.Clone()
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.SKU != nil {
		p.SKU = *d.SKU
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.Brand != nil {
		p.Brand = *d.Brand
	}
	if d.Quantity != nil {
		p.Quantity = *d.Quantity
	}
	if d.MinStock != nil {
		p.MinStock = *d.MinStock
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.Location != nil {
		p.Location = *d.Location
	}
	p.LastUpdated = now
	return p
}
