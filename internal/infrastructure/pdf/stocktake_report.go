// Package pdf genera el informe PDF de una sesión de inventario físico finalizada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + almacén     │  Sesión + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas / con diferencia / diferencia total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | SKU | Sistema | Contado | Dif. | Notas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS de la sesión + QR con el ID de sesión                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StocktakeReportGenerator implementa stocktake.ReportGenerator usando Maroto v2.
type StocktakeReportGenerator struct {
	warehouse string
}

// NewStocktakeReportGenerator construye el generador; warehouse aparece en el encabezado.
func NewStocktakeReportGenerator(warehouse string) *StocktakeReportGenerator {
	return &StocktakeReportGenerator{warehouse: warehouse}
}

// GenerateStocktakePDF genera el PDF y devuelve sus bytes.
func (g *StocktakeReportGenerator) GenerateStocktakePDF(_ context.Context, s *entity.StocktakeSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: sesión nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario físico "+s.ID, true).
		WithAuthor(g.warehouse, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s, g.warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(s.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *entity.StocktakeSession, warehouse string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("INVENTARIO FÍSICO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(warehouse, "SmartWMS"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SESIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+s.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s *entity.StocktakeSession) core.Row {
	withDiff := 0
	for _, it := range s.Items {
		if it.Difference != 0 {
			withDiff++
		}
	}
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: c, Top: 6}),
		)
	}
	totalColor := colorGreen
	if s.TotalDifference > 0 {
		totalColor = colorRed
	}
	return row.New(14).Add(
		cell("PRODUCTOS CONTADOS", strconv.Itoa(len(s.Items)), colorGray),
		cell("CON DIFERENCIA", strconv.Itoa(withDiff), colorGray),
		cell("DIFERENCIA TOTAL", strconv.Itoa(s.TotalDifference), totalColor),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("SKU", 2, align.Left),
		h("Sistema", 1, align.Right),
		h("Contado", 1, align.Right),
		h("Dif.", 1, align.Right),
		h("Notas", 3, align.Left),
	)
}

func itemRows(items []entity.StocktakeItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		diffColor := colorGray
		if it.Difference != 0 {
			diffColor = colorRed
		}
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.Itoa(it.SystemQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strconv.Itoa(it.ActualQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(signed(it.Difference), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor,
			})),
			col.New(3).Add(text.New(it.Notes, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return out
}

// footerRow: notas de la sesión + QR con el ID para localizarla en el historial.
func footerRow(s *entity.StocktakeSession) core.Row {
	return row.New(40).Add(
		col.New(8).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(nonEmpty(s.Notes, "Sin notas."), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// signed formatea la diferencia con signo explícito: +3, -2, 0.
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
