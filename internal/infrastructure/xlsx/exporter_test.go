package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/xlsx"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestReorderXLSX(t *testing.T) {
	days := int64(3)
	report := &dto.ReorderReportDTO{
		WindowDays:  30,
		GeneratedAt: time.Now(),
		Items: []dto.ReorderSuggestionDTO{
			{
				ProductName: "Camiseta", Attribute: "M", SupplierName: "Textiles SA",
				OnHand: 2, MinStock: 5, IdealStock: 20, ExitsInWindow: 30,
				DailyVelocity: decimal.NewFromInt(1), ReorderPoint: decimal.NewFromInt(7),
				SuggestedQty: 18, DaysRemaining: &days, EstimatedCost: decimal.NewFromInt(360000),
			},
			{
				ProductName: "Gorra", OnHand: 0, MinStock: 2, IdealStock: 6,
				DailyVelocity: decimal.Zero, ReorderPoint: decimal.Zero,
				SuggestedQty: 6, EstimatedCost: decimal.NewFromInt(60000),
			},
		},
	}

	data, err := xlsx.NewExporter().ReorderXLSX(report)
	require.NoError(t, err)
	f := open(t, data)

	rows, err := f.GetRows(xlsx.SheetReorder)
	require.NoError(t, err)
	require.Len(t, rows, 4) // cabecera + 2 filas + total

	assert.Equal(t, "Producto", rows[0][0])
	assert.Equal(t, "Camiseta", rows[1][0])
	assert.Equal(t, "Textiles SA", rows[1][2])
	assert.Equal(t, "3", rows[1][10])
	assert.Equal(t, "Sin proveedor", rows[2][2])
	assert.Equal(t, "-", rows[2][10])

	assert.Equal(t, "Total", rows[3][0])
	total, err := f.GetCellValue(xlsx.SheetReorder, "J4")
	require.NoError(t, err)
	assert.Equal(t, "24", total)
	formula, err := f.GetCellFormula(xlsx.SheetReorder, "L4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(L2:L3)", formula)
}

func TestReorderXLSX_SinFilas(t *testing.T) {
	data, err := xlsx.NewExporter().ReorderXLSX(&dto.ReorderReportDTO{})
	require.NoError(t, err)
	f := open(t, data)

	rows, err := f.GetRows(xlsx.SheetReorder)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Total", rows[1][0])
}

func TestSalesXLSX(t *testing.T) {
	report := &dto.SalesReportResponse{
		Items: []dto.VariantSalesDTO{
			{Label: "Camiseta - M", Units: 3, Revenue: decimal.NewFromInt(150), Profit: decimal.NewFromInt(60)},
		},
		TotalUnits:   3,
		TotalRevenue: decimal.NewFromInt(150),
		TotalProfit:  decimal.NewFromInt(60),
	}

	data, err := xlsx.NewExporter().SalesXLSX(report)
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, []string{xlsx.SheetSales}, f.GetSheetList())
	label, _ := f.GetCellValue(xlsx.SheetSales, "A2")
	assert.Equal(t, "Camiseta - M", label)
	units, _ := f.GetCellValue(xlsx.SheetSales, "B3")
	assert.Equal(t, "3", units)
}
