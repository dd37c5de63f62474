// Package pdf genera el reporte de ventas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Reporte de ventas + período │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Variante | Unidades | Ingresos | Ganancia            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / Ingresos / Ganancia                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/pkg/money"
)

var _ reports.SalesPDFRenderer = (*SalesReportPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

var periodTitles = map[string]string{
	reports.PeriodToday: "Hoy",
	reports.PeriodWeek:  "Esta semana",
	reports.PeriodMonth: "Este mes",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// SalesReportPDF implementa reports.SalesPDFRenderer usando Maroto v2.
type SalesReportPDF struct {
	storeName string
	money     *money.Formatter
	now       func() time.Time
}

// NewSalesReportPDF construye el generador. storeName aparece en la cabecera.
func NewSalesReportPDF(storeName string, fmtr *money.Formatter) *SalesReportPDF {
	if fmtr == nil {
		fmtr = money.New(money.DefaultLocale)
	}
	return &SalesReportPDF{storeName: storeName, money: fmtr, now: time.Now}
}

// SalesPDF genera el PDF y devuelve sus bytes.
func (g *SalesReportPDF) SalesPDF(report *dto.SalesReportResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas en el período.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for i, item := range report.Items {
		m.AddRows(g.itemRow(i, item))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generado el "+g.now().Format("02/01/2006 15:04"), props.Text{Size: 7, Color: colorGray, Align: align.Right}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de ventas: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *SalesReportPDF) headerRow(report *dto.SalesReportResponse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("REPORTE DE VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(PeriodLabel(report), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Variante", 6, align.Left),
		h("Unidades", 2, align.Right),
		h("Ingresos", 2, align.Right),
		h("Ganancia", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *SalesReportPDF) itemRow(i int, item dto.VariantSalesDTO) core.Row {
	r := row.New(7).Add(
		col.New(6).Add(text.New(item.Label, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(g.money.Int(item.Units), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(g.money.Format(item.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(g.money.Format(item.Profit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
	if i%2 == 1 {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func (g *SalesReportPDF) totalsRow(report *dto.SalesReportResponse) core.Row {
	bold := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: a, Color: colorPrimary, Top: 2, Right: 1})
	}
	return row.New(10).Add(
		col.New(6).Add(bold("TOTAL", align.Left)),
		col.New(2).Add(bold(g.money.Int(report.TotalUnits), align.Right)),
		col.New(2).Add(bold(g.money.Format(report.TotalRevenue), align.Right)),
		col.New(2).Add(bold(g.money.Format(report.TotalProfit), align.Right)),
	)
}

// PeriodLabel describe el período del reporte: "Hoy", "Esta semana", un rango o "Histórico".
func PeriodLabel(report *dto.SalesReportResponse) string {
	if title, ok := periodTitles[report.Period]; ok {
		return title
	}
	const layout = "02/01/2006"
	switch {
	case report.From != nil && report.To != nil:
		return report.From.Format(layout) + " - " + report.To.Format(layout)
	case report.From != nil:
		return "Desde " + report.From.Format(layout)
	case report.To != nil:
		return "Hasta " + report.To.Format(layout)
	default:
		return "Histórico"
	}
}
