// Package pdf implementa la generación del reporte financiero en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del tenant │ Período del reporte            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Indicador | Valor                                   │
//	│  (revenue, cogs, gross profit, opex, ebit, taxes,           │
//	│   net profit, márgenes, punto de equilibrio)                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/application/ports"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.FinanceReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ports.FinanceReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateSummaryPDF genera el reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateSummaryPDF(tenantName string, summary dto.FinanceSummaryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte Financiero", true).
		WithAuthor(tenantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tenantName, summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("Resultado"))
	m.AddRows(
		metricRow("Ingresos", summary.Revenue, false),
		metricRow("Costo de ventas (COGS)", summary.COGS, false),
		metricRow("Utilidad bruta", summary.GrossProfit, true),
		metricRow("Margen bruto %", summary.GrossMarginPct, false),
		metricRow("Gastos operativos", summary.Opex, false),
		metricRow("EBIT", summary.EBIT, true),
		metricRow(fmt.Sprintf("Impuestos (%s%%)", summary.TaxesPercent), summary.Taxes, false),
		metricRow("Utilidad neta", summary.NetProfit, true),
		metricRow("Margen neto %", summary.NetMarginPct, false),
	)

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionRow("Estructura de costos"))
	m.AddRows(
		metricRow("Gastos totales", summary.TotalExpenses, false),
		metricRow("Costos fijos", summary.FixedCosts, false),
		metricRow("Costos variables", summary.VariableCosts, false),
	)

	breakEven := "—"
	if summary.BreakEvenRevenue != nil {
		breakEven = *summary.BreakEvenRevenue
	}
	m.AddRows(metricRow("Punto de equilibrio", breakEven, true))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tenant (izq) y período + moneda (der).
func headerRow(tenantName string, summary dto.FinanceSummaryResponse) core.Row {
	period := ""
	if summary.PeriodStart != nil && summary.PeriodEnd != nil {
		period = *summary.PeriodStart + " — " + *summary.PeriodEnd
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(tenantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte financiero", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(period, props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(summary.Currency, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

func metricRow(label, value string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(8).Add(
			text.New(label, props.Text{Size: 9, Style: style}),
		),
		col.New(4).Add(
			text.New(value, props.Text{Size: 9, Style: style, Align: align.Right}),
		),
	)
}
