package optimization

import (
	"math"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// MoveSuggestion propuesta de traslado de un producto a su zona ideal.
type MoveSuggestion struct {
	Product       *entity.Product
	CurrentZone   Zone
	IdealZone     Zone
	VelocityScore int
	Reason        string
}

// Analysis resultado completo de una pasada de análisis.
type Analysis struct {
	Suggestions       []MoveSuggestion
	CorrectPlacements int
	TotalProducts     int
	Efficiency        int // porcentaje 0..100
	CurrentZones      CurrentZoneStats
	IdealZones        IdealZoneStats
}

// Reconcile compara la zona actual de cada producto clasificado con su zona ideal.
//
// Productos con zona actual inválida (vacía o distinta de A/B/C) no generan sugerencia ni
// cuentan como bien ubicados, pero sí forman parte de TotalProducts.
// Las sugerencias conservan el orden de velocidad descendente de cls.
func Reconcile(cls []Classification) Analysis {
	a := Analysis{
		Suggestions:   []MoveSuggestion{},
		TotalProducts: len(cls),
	}
	for _, c := range cls {
		current := ZoneOf(c.Product.Location)
		if current.Valid() {
			switch current {
			case ZoneA:
				a.CurrentZones.A++
			case ZoneB:
				a.CurrentZones.B++
			case ZoneC:
				a.CurrentZones.C++
			}
		} else {
			a.CurrentZones.Other++
		}
		a.IdealZones.add(c.IdealZone)

		switch {
		case current == c.IdealZone:
			a.CorrectPlacements++
		case current.Valid():
			a.Suggestions = append(a.Suggestions, MoveSuggestion{
				Product:       c.Product,
				CurrentZone:   current,
				IdealZone:     c.IdealZone,
				VelocityScore: c.Velocity,
				Reason:        c.Reason,
			})
		}
	}
	a.Efficiency = Efficiency(a.CorrectPlacements, a.TotalProducts)
	return a
}

// Efficiency round(correct/total*100), 0 si total == 0.
func Efficiency(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Analyze ejecuta Classify y Reconcile sobre un snapshot. Idempotente.
func Analyze(products []*entity.Product, txs []*entity.Transaction) Analysis {
	return Reconcile(Classify(products, txs))
}

// Without devuelve una copia de la lista de sugerencias sin la del producto indicado.
func Without(s []MoveSuggestion, productID string) []MoveSuggestion {
	out := make([]MoveSuggestion, 0, len(s))
	for _, m := range s {
		if m.Product.ID != productID {
			out = append(out, m)
		}
	}
	return out
}

// Find busca la sugerencia pendiente de un producto.
func Find(s []MoveSuggestion, productID string) (MoveSuggestion, bool) {
	for _, m := range s {
		if m.Product.ID == productID {
			return m, true
		}
	}
	return MoveSuggestion{}, false
}
