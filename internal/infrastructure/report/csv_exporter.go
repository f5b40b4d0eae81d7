// Package report exporta sesiones de inventario físico finalizadas.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

var csvHeader = []string{
	"ID Sesión", "Fecha", "Producto", "SKU", "Cantidad sistema", "Cantidad contada", "Diferencia", "Notas",
}

// CSVExporter implementa stocktake.CSVExporter. La salida lleva BOM UTF-8 para que las hojas
// de cálculo respeten los acentos.
type CSVExporter struct{}

// NewCSVExporter construye el exportador.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// WriteStocktake escribe una fila por línea de la sesión.
func (CSVExporter) WriteStocktake(w io.Writer, s *entity.StocktakeSession) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	date := s.Date.Format("02/01/2006")
	for _, it := range s.Items {
		rec := []string{
			s.ID,
			date,
			it.ProductName,
			it.SKU,
			strconv.Itoa(it.SystemQuantity),
			strconv.Itoa(it.ActualQuantity),
			strconv.Itoa(it.Difference),
			it.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: fila %s: %w", it.ProductID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return bw.Close()
}

// FileName stocktake_<YYYY-MM-DD>.csv según la fecha de la sesión.
func (CSVExporter) FileName(s *entity.StocktakeSession) string {
	return fmt.Sprintf("stocktake_%s.csv", s.Date.Format("2006-01-02"))
}
