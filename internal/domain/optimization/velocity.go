package optimization

import (
	"sort"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// Umbrales de percentil para la asignación de zona.
const (
	HotPercentile  = 0.20
	WarmPercentile = 0.50
)

// Razones legibles por zona ideal.
const (
	ReasonHot  = "Alta rotación (top 20%): ubicar en la zona A, cerca del acceso"
	ReasonWarm = "Rotación media: adecuado para la zona B"
	ReasonCold = "Baja rotación: ubicar en la zona C, lejos del acceso"
)

// Classification resultado del clasificador para un producto.
type Classification struct {
	Product    *entity.Product
	Velocity   int     // total histórico de salidas (EXPORT)
	Percentile float64 // (i+1)/N sobre el orden descendente
	IdealZone  Zone
	Reason     string
}

// Velocities suma las cantidades EXPORT por producto.
func Velocities(txs []*entity.Transaction) map[string]int {
	out := make(map[string]int)
	for _, t := range txs {
		if t == nil || t.Type != entity.TransactionExport {
			continue
		}
		out[t.ProductID] += t.Quantity
	}
	return out
}

// IdealZoneFor asigna zona y razón según el percentil.
func IdealZoneFor(percentile float64) (Zone, string) {
	switch {
	case percentile <= HotPercentile:
		return ZoneA, ReasonHot
	case percentile <= WarmPercentile:
		return ZoneB, ReasonWarm
	default:
		return ZoneC, ReasonCold
	}
}

// Classify ordena los productos por velocidad descendente (orden estable ante empates) y
// asigna la zona ideal de cada uno. No modifica las entradas; con N == 0 devuelve vacío.
func Classify(products []*entity.Product, txs []*entity.Transaction) []Classification {
	if len(products) == 0 {
		return []Classification{}
	}
	velocity := Velocities(txs)

	out := make([]Classification, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		out = append(out, Classification{Product: p, Velocity: velocity[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Velocity > out[j].Velocity
	})

	n := float64(len(out))
	for i := range out {
		out[i].Percentile = float64(i+1) / n
		out[i].IdealZone, out[i].Reason = IdealZoneFor(out[i].Percentile)
	}
	return out
}
