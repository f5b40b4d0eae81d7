// Package optimization implementa el análisis ABC por velocidad de salida y la
// conciliación de ubicaciones contra la zona ideal de cada producto.
package optimization

import (
	"unicode"
	"unicode/utf8"
)

// Zone letra de zona de almacenamiento (A = caliente/cerca, B = templada, C = fría/lejos).
type Zone string

const (
	ZoneA       Zone = "A"
	ZoneB       Zone = "B"
	ZoneC       Zone = "C"
	ZoneUnknown Zone = "Unknown"
)

// Valid indica si la zona es una de A/B/C.
func (z Zone) Valid() bool {
	return z == ZoneA || z == ZoneB || z == ZoneC
}

// ZoneOf extrae la zona de una ubicación: primer carácter en mayúscula.
// Ubicación vacía → ZoneUnknown. Un primer carácter distinto de A/B/C se devuelve tal cual
// y no es Valid().
func ZoneOf(location string) Zone {
	if location == "" {
		return ZoneUnknown
	}
	r, _ := utf8.DecodeRuneInString(location)
	return Zone(string(unicode.ToUpper(r)))
}

// CurrentZoneStats distribución actual de productos por zona.
type CurrentZoneStats struct {
	A     int `json:"A"`
	B     int `json:"B"`
	C     int `json:"C"`
	Other int `json:"Other"`
}

// IdealZoneStats distribución ideal resultante de la clasificación.
type IdealZoneStats struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

func (s *IdealZoneStats) add(z Zone) {
	switch z {
	case ZoneA:
		s.A++
	case ZoneB:
		s.B++
	case ZoneC:
		s.C++
	}
}
