// Package xlsx exporta reportes a hojas de cálculo con excelize.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
)

var (
	_ inventory.ReorderSheetWriter = (*Exporter)(nil)
	_ reports.SalesSheetWriter     = (*Exporter)(nil)
)

const (
	SheetReorder = "Reposición"
	SheetSales   = "Ventas"

	moneyFormat = `"$"#,##0`
)

// Exporter implementa las salidas XLSX de reposición y ventas.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

type column struct {
	title string
	width float64
}

// ReorderXLSX una fila por sugerencia, con costo estimado total al final.
func (e *Exporter) ReorderXLSX(report *dto.ReorderReportDTO) ([]byte, error) {
	cols := []column{
		{"Producto", 28}, {"Atributo", 14}, {"Proveedor", 22}, {"Stock", 9}, {"Mínimo", 9},
		{"Ideal", 9}, {"Salidas ventana", 14}, {"Velocidad diaria", 14}, {"Punto de pedido", 14},
		{"Sugerido", 10}, {"Días restantes", 13}, {"Costo estimado", 16},
	}
	f, styles, err := newBook(SheetReorder, cols)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := 2
	var totalQty int64
	for _, it := range report.Items {
		days := "-"
		if it.DaysRemaining != nil {
			days = fmt.Sprintf("%d", *it.DaysRemaining)
		}
		supplier := it.SupplierName
		if supplier == "" {
			supplier = "Sin proveedor"
		}
		values := []interface{}{
			it.ProductName, it.Attribute, supplier, it.OnHand, it.MinStock, it.IdealStock,
			it.ExitsInWindow, it.DailyVelocity.InexactFloat64(), it.ReorderPoint.InexactFloat64(),
			it.SuggestedQty, days, it.EstimatedCost.InexactFloat64(),
		}
		if err := setRow(f, SheetReorder, r, values); err != nil {
			return nil, err
		}
		totalQty += it.SuggestedQty
		r++
	}
	if err := setMoneyColumn(f, SheetReorder, styles.money, "L", r-1); err != nil {
		return nil, err
	}

	// Fila de totales.
	_ = f.SetCellValue(SheetReorder, fmt.Sprintf("A%d", r), "Total")
	_ = f.SetCellValue(SheetReorder, fmt.Sprintf("J%d", r), totalQty)
	if len(report.Items) > 0 {
		_ = f.SetCellFormula(SheetReorder, fmt.Sprintf("L%d", r), fmt.Sprintf("SUM(L2:L%d)", r-1))
	} else {
		_ = f.SetCellValue(SheetReorder, fmt.Sprintf("L%d", r), 0)
	}
	_ = f.SetCellStyle(SheetReorder, fmt.Sprintf("A%d", r), fmt.Sprintf("K%d", r), styles.total)
	_ = f.SetCellStyle(SheetReorder, fmt.Sprintf("L%d", r), fmt.Sprintf("L%d", r), styles.totalMoney)

	return write(f)
}

// SalesXLSX una fila por variante vendida más la fila de totales.
func (e *Exporter) SalesXLSX(report *dto.SalesReportResponse) ([]byte, error) {
	cols := []column{{"Variante", 34}, {"Unidades", 12}, {"Ingresos", 16}, {"Ganancia", 16}}
	f, styles, err := newBook(SheetSales, cols)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := 2
	for _, it := range report.Items {
		values := []interface{}{it.Label, it.Units, it.Revenue.InexactFloat64(), it.Profit.InexactFloat64()}
		if err := setRow(f, SheetSales, r, values); err != nil {
			return nil, err
		}
		r++
	}
	for _, c := range []string{"C", "D"} {
		if err := setMoneyColumn(f, SheetSales, styles.money, c, r-1); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(SheetSales, fmt.Sprintf("A%d", r), "Total")
	_ = f.SetCellValue(SheetSales, fmt.Sprintf("B%d", r), report.TotalUnits)
	_ = f.SetCellValue(SheetSales, fmt.Sprintf("C%d", r), report.TotalRevenue.InexactFloat64())
	_ = f.SetCellValue(SheetSales, fmt.Sprintf("D%d", r), report.TotalProfit.InexactFloat64())
	_ = f.SetCellStyle(SheetSales, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), styles.total)
	_ = f.SetCellStyle(SheetSales, fmt.Sprintf("C%d", r), fmt.Sprintf("D%d", r), styles.totalMoney)

	return write(f)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type bookStyles struct {
	money      int
	total      int
	totalMoney int
}

// newBook crea el libro con una sola hoja, cabecera en negrita y anchos de columna.
func newBook(sheet string, cols []column) (*excelize.File, bookStyles, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, bookStyles{}, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#00467F"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, bookStyles{}, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	customMoney := moneyFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customMoney})
	if err != nil {
		f.Close()
		return nil, bookStyles{}, fmt.Errorf("xlsx: estilo moneda: %w", err)
	}
	totalStyle := &excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
	}
	total, err := f.NewStyle(totalStyle)
	if err != nil {
		f.Close()
		return nil, bookStyles{}, fmt.Errorf("xlsx: estilo totales: %w", err)
	}
	totalStyle.CustomNumFmt = &customMoney
	totalMoney, err := f.NewStyle(totalStyle)
	if err != nil {
		f.Close()
		return nil, bookStyles{}, fmt.Errorf("xlsx: estilo totales: %w", err)
	}

	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cell := name + "1"
		_ = f.SetCellValue(sheet, cell, c.title)
		_ = f.SetCellStyle(sheet, cell, cell, header)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f, bookStyles{money: money, total: total, totalMoney: totalMoney}, nil
}

func setRow(f *excelize.File, sheet string, r int, values []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, r)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", r, err)
	}
	return nil
}

func setMoneyColumn(f *excelize.File, sheet string, style int, col string, lastRow int) error {
	if lastRow < 2 {
		return nil
	}
	if err := f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, lastRow), style); err != nil {
		return fmt.Errorf("xlsx: estilo columna %s: %w", col, err)
	}
	return nil
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
