package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
)

// ──── Helpers de test ────

type fakeExporter struct {
	pdfReport  *dto.SalesReportResponse
	xlsxReport *dto.SalesReportResponse
}

func (f *fakeExporter) SalesPDF(r *dto.SalesReportResponse) ([]byte, error) {
	f.pdfReport = r
	return []byte("%PDF"), nil
}

func (f *fakeExporter) SalesXLSX(r *dto.SalesReportResponse) ([]byte, error) {
	f.xlsxReport = r
	return []byte("PK"), nil
}

func exit(store *memstore.Store, variantID string, qty int64, at time.Time) {
	store.AddMovement(entity.StockMovement{VariantID: variantID, Type: entity.MovementTypeExit, Quantity: qty, Date: at})
}

func strPtr(s string) *string { return &s }

// ──── PeriodRange ────

func TestPeriodRange(t *testing.T) {
	wed := time.Date(2024, 5, 15, 16, 30, 0, 0, time.UTC)

	from, to, err := reports.PeriodRange("today", wed)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, wed, to)

	from, _, err = reports.PeriodRange("week", wed)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), from)

	sun := time.Date(2024, 5, 19, 8, 0, 0, 0, time.UTC)
	from, _, err = reports.PeriodRange("week", sun)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), from)

	from, _, err = reports.PeriodRange("MONTH", wed)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), from)

	_, _, err = reports.PeriodRange("year", wed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──── Dashboard ────

func TestDashboard(t *testing.T) {
	store := memstore.New()
	ropa := store.AddCategory("Ropa")
	shirt := store.AddVariant(memstore.VariantSeed{
		Product: "Camiseta", Attribute: "M", OnHand: 10, MinStock: 2, IdealStock: 5,
		Cost: decimal.NewFromInt(20), Price: decimal.NewFromInt(50), CategoryID: &ropa.ID,
	})
	gorra := store.AddVariant(memstore.VariantSeed{
		Product: "Gorra", OnHand: 1, MinStock: 3, IdealStock: 10,
		Cost: decimal.NewFromInt(5), Price: decimal.NewFromInt(6),
	})
	store.AddVariant(memstore.VariantSeed{Product: "Bolso", OnHand: 4, MinStock: 1, IdealStock: 8, Cost: decimal.NewFromInt(30)})

	now := time.Now()
	exit(store, shirt.ID, 2, now)
	exit(store, gorra.ID, 5, now.AddDate(0, -3, 0))

	uc := reports.NewReportUseCase(store.Reports(), store.Variants(), nil, nil)
	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.VariantCount)
	assert.Equal(t, 1, d.DangerCount)
	assert.Equal(t, map[string]int{"DANGER": 1, "WARNING": 1, "OK": 1}, d.StatusDistribution)
	// 10*20 + 1*5 + 4*30 (cantidades cacheadas)
	assert.True(t, d.InventoryValue.Equal(decimal.NewFromInt(325)), "valor %s", d.InventoryValue)

	assert.True(t, d.TotalRevenue.Equal(decimal.NewFromInt(2*50+5*6)), "ingresos %s", d.TotalRevenue)
	assert.True(t, d.TotalProfit.Equal(decimal.NewFromInt(2*30+5*1)), "ganancia %s", d.TotalProfit)
	assert.Equal(t, int64(2), d.Today.Units)
	assert.True(t, d.Today.Revenue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(2), d.Month.Units)

	require.Len(t, d.TopProfit, 2)
	assert.Equal(t, shirt.ID, d.TopProfit[0].VariantID)
	assert.Equal(t, gorra.ID, d.BottomProfit[0].VariantID)
	assert.Equal(t, gorra.ID, d.TopSellers[0].VariantID)

	names := map[string]bool{}
	for _, c := range d.ValueByCategory {
		names[c.Category] = true
	}
	assert.True(t, names["Ropa"])
	assert.True(t, names["Sin categoría"])
}

// ──── Reporte de ventas ────

func TestSalesReport_RangoYTotales(t *testing.T) {
	store := memstore.New()
	shirt := store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 50, Cost: decimal.NewFromInt(20), Price: decimal.NewFromInt(50)})
	gorra := store.AddVariant(memstore.VariantSeed{Product: "Gorra", OnHand: 50, Cost: decimal.NewFromInt(5), Price: decimal.NewFromInt(15)})

	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	exit(store, shirt.ID, 1, base)
	exit(store, gorra.ID, 4, base.AddDate(0, 0, 1))
	exit(store, shirt.ID, 3, base.AddDate(0, 0, 10)) // fuera del rango

	uc := reports.NewReportUseCase(store.Reports(), store.Variants(), nil, nil)
	from := base.AddDate(0, 0, -1)
	to := base.AddDate(0, 0, 2)
	r, err := uc.SalesReport(context.Background(), "", &from, &to)
	require.NoError(t, err)

	require.Len(t, r.Items, 2)
	assert.Equal(t, gorra.ID, r.Items[0].VariantID) // 60 > 50
	assert.Equal(t, int64(5), r.TotalUnits)
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(110)))
	assert.True(t, r.TotalProfit.Equal(decimal.NewFromInt(30+40)))

	_, err = uc.SalesReport(context.Background(), "", &to, &from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SalesReport(context.Background(), "year", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSalesReport_Exportaciones(t *testing.T) {
	store := memstore.New()
	v := store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 5, Price: decimal.NewFromInt(10)})
	exit(store, v.ID, 1, time.Now())

	exp := &fakeExporter{}
	uc := reports.NewReportUseCase(store.Reports(), store.Variants(), exp, exp)

	pdf, err := uc.SalesPDF(context.Background(), "today", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	require.NotNil(t, exp.pdfReport)
	assert.Equal(t, "today", exp.pdfReport.Period)
	assert.Len(t, exp.pdfReport.Items, 1)

	_, err = uc.SalesXLSX(context.Background(), "month", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, exp.xlsxReport)

	sinExport := reports.NewReportUseCase(store.Reports(), store.Variants(), nil, nil)
	_, err = sinExport.SalesPDF(context.Background(), "", nil, nil)
	assert.Error(t, err)
}

// ──── Alertas ────

func TestLowStockAlerts(t *testing.T) {
	store := memstore.New()
	low := store.AddVariant(memstore.VariantSeed{Product: "Gorra", Attribute: "Roja", OnHand: 1, MinStock: 3, IdealStock: 10, Barcode: strPtr("770001")})
	store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 20, MinStock: 3, IdealStock: 10})

	uc := reports.NewReportUseCase(store.Reports(), store.Variants(), nil, nil)
	alerts, err := uc.LowStockAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, low.ID, alerts[0].VariantID)
	assert.Equal(t, "Gorra - Roja", alerts[0].Label)
	assert.Equal(t, int64(1), alerts[0].OnHand)
	assert.Contains(t, alerts[0].Message, "Gorra - Roja")
}
