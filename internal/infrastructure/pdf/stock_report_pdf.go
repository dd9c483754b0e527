// Package pdf implementa el render del reporte de existencias de la planta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la planta  │  Fecha de corte + generado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Ubicación | Tipo | Estado | Saldo  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: cuentas con saldo negativo (si las hay)           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Envasadora-api/internal/application/reports"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReportGenerator implementa reports.StockReportPDFGenerator usando
// Maroto v2.
type MarotoStockReportGenerator struct{}

// NewMarotoStockReportGenerator construye el generador.
func NewMarotoStockReportGenerator() *MarotoStockReportGenerator {
	return &MarotoStockReportGenerator{}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) GenerateStockReport(_ context.Context, report *reports.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Existencias", true).
		WithAuthor(report.PlantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report.Rows) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report))

	if len(report.Negatives) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorRed, Thickness: 0.3}))
		for _, r := range negativesRows(report.Negatives) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la planta (izq), fecha de corte y de generación (der).
func headerRow(report *reports.StockReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(report.PlantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de existencias por cuenta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Corte: "+report.AsOf.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de saldos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Ubicación", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Estado", 1, align.Center),
		h("Saldo", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableRows: una fila por cuenta con saldo.
func tableRows(rows []reports.StockReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		qtyColor := (*props.Color)(nil)
		if r.Quantity < 0 {
			qtyColor = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(r.ProductSKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(r.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.LocationName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(tipoCorto(r.LocationType), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(estadoCorto(r.State), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Quantity), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
			})),
			col.New(2).Add(text.New("$"+formatMoney(r.Value.StringFixed(0)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
			})),
		))
	}
	return result
}

// totalRow: valor total del inventario a precio de lista.
func totalRow(report *reports.StockReport) core.Row {
	return row.New(9).Add(
		col.New(8).Add(text.New("VALOR TOTAL A PRECIO DE LISTA:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New("$"+formatMoney(report.TotalValue.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// negativesRows: bloque de alertas por saldos negativos.
func negativesRows(rows []reports.StockReportRow) []core.Row {
	result := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("ALERTAS DE INTEGRIDAD: cuentas con saldo negativo", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorRed, Top: 1,
			}),
		)),
	}
	for _, r := range rows {
		result = append(result, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s en %s (%s): %d — revisar registros previos al corte",
				r.ProductName, r.LocationName, estadoCorto(r.State), r.Quantity,
			), props.Text{Size: 7.5, Color: colorRed, Top: 0.5, Left: 2}),
		)))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	neg := ""
	if len(s) > 0 && s[0] == '-' {
		neg, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return neg + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return neg + string(buf)
}

func tipoCorto(t ledger.LocationType) string {
	switch t {
	case ledger.LocationWarehouse:
		return "BOD"
	case ledger.LocationDamaged:
		return "DAÑ"
	case ledger.LocationMarket:
		return "MER"
	}
	return "?"
}

func estadoCorto(s ledger.State) string {
	switch s {
	case ledger.StateFilled:
		return "LLENO"
	case ledger.StateEmpty:
		return "VACÍO"
	}
	return string(s)
}
