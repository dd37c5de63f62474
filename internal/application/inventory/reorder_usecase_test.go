package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
)

type fakeSheets struct{ got *dto.ReorderReportDTO }

func (f *fakeSheets) ReorderXLSX(r *dto.ReorderReportDTO) ([]byte, error) {
	f.got = r
	return []byte("xlsx"), nil
}

func intPtr(n int) *int { return &n }

// sellDaily registra `perDay` unidades de salida en cada uno de los últimos `days` días.
func sellDaily(store *memstore.Store, variantID string, perDay int64, days int) {
	now := time.Now()
	for d := 0; d < days; d++ {
		store.AddMovement(entity.StockMovement{
			VariantID: variantID,
			Type:      entity.MovementTypeExit,
			Quantity:  perDay,
			Date:      now.Add(-time.Duration(d)*24*time.Hour - time.Hour),
		})
	}
}

// Caso de referencia: stock 0, mínimo 5, velocidad 1/día, lead time 10 → R = 15, marcada.
func TestReorder_CasoDeReferencia(t *testing.T) {
	store := memstore.New()
	sup := store.AddSupplier("Textiles Andinos", intPtr(10))
	v := store.AddVariant(memstore.VariantSeed{
		Product: "Camiseta", Attribute: "S", OnHand: 30, MinStock: 5, IdealStock: 40,
		Cost: decimal.NewFromInt(1000), SupplierID: &sup.ID,
	})
	sellDaily(store, v.ID, 1, 30)
	store.ForceQuantity(v.ID, 0)

	uc := inventory.NewReorderUseCase(store.Reorder(), inventory.ReorderConfig{}, nil)
	report, err := uc.Suggestions(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	it := report.Items[0]
	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, int64(30), it.ExitsInWindow)
	assert.True(t, it.DailyVelocity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 10, it.LeadTimeDays)
	assert.True(t, it.ReorderPoint.Equal(decimal.NewFromInt(15)), "R = %s", it.ReorderPoint)
	assert.Equal(t, int64(40), it.SuggestedQty)
	assert.True(t, it.EstimatedCost.Equal(decimal.NewFromInt(40000)))
	require.NotNil(t, it.DaysRemaining)
	assert.Equal(t, int64(0), *it.DaysRemaining)
	assert.Equal(t, "Textiles Andinos", it.SupplierName)
}

func TestReorder_ExcluyeVariantesConOrdenAbierta(t *testing.T) {
	store := memstore.New()
	sup := store.AddSupplier("Proveedor", nil)
	a := store.AddVariant(memstore.VariantSeed{Product: "A", OnHand: 1, MinStock: 5, IdealStock: 10, SupplierID: &sup.ID})
	b := store.AddVariant(memstore.VariantSeed{Product: "B", OnHand: 1, MinStock: 5, IdealStock: 10, SupplierID: &sup.ID})
	c := store.AddVariant(memstore.VariantSeed{Product: "C", OnHand: 1, MinStock: 5, IdealStock: 10, SupplierID: &sup.ID})

	ctx := context.Background()
	for _, o := range []struct {
		status  string
		variant string
	}{
		{entity.POStatusPending, a.ID},
		{entity.POStatusSent, b.ID},
		{entity.POStatusReceived, c.ID}, // las recibidas no excluyen
	} {
		require.NoError(t, store.Orders().Create(ctx, &entity.PurchaseOrder{
			SupplierID: sup.ID,
			Status:     o.status,
			Lines:      []*entity.PurchaseOrderLine{{VariantID: o.variant, Quantity: 5, UnitCost: decimal.NewFromInt(1)}},
		}))
	}

	uc := inventory.NewReorderUseCase(store.Reorder(), inventory.ReorderConfig{WindowDays: 30, DefaultLeadDays: 7}, nil)
	report, err := uc.Suggestions(ctx, true)
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, c.ID, report.Items[0].VariantID)
}

func TestReorder_SinVentasYOrden(t *testing.T) {
	store := memstore.New()
	quiet := store.AddVariant(memstore.VariantSeed{Product: "Bufanda", OnHand: 2, MinStock: 5, IdealStock: 10})
	fast := store.AddVariant(memstore.VariantSeed{Product: "Zapato", OnHand: 30, MinStock: 5, IdealStock: 40})
	sellDaily(store, fast.ID, 2, 15) // 30 salidas en la ventana → v = 1
	store.ForceQuantity(fast.ID, 6)
	slow := store.AddVariant(memstore.VariantSeed{Product: "Abrigo", OnHand: 20, MinStock: 5, IdealStock: 40})
	sellDaily(store, slow.ID, 1, 15) // v = 0.5
	store.ForceQuantity(slow.ID, 5)
	healthy := store.AddVariant(memstore.VariantSeed{Product: "Medias", OnHand: 500, MinStock: 5, IdealStock: 40})

	uc := inventory.NewReorderUseCase(store.Reorder(), inventory.ReorderConfig{}, nil)
	report, err := uc.Suggestions(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Items, 3)

	// Zapato: 6 días; Abrigo: 10 días; Bufanda: sin ventas → al final.
	assert.Equal(t, fast.ID, report.Items[0].VariantID)
	assert.Equal(t, int64(6), *report.Items[0].DaysRemaining)
	assert.Equal(t, slow.ID, report.Items[1].VariantID)
	assert.Equal(t, int64(10), *report.Items[1].DaysRemaining)
	assert.Equal(t, quiet.ID, report.Items[2].VariantID)
	assert.Nil(t, report.Items[2].DaysRemaining)
	assert.Equal(t, 7, report.Items[2].LeadTimeDays)

	all, err := uc.Suggestions(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	// Sin ventas, Bufanda y Medias quedan al final ordenadas por nombre.
	assert.Equal(t, quiet.ID, all.Items[2].VariantID)
	assert.Equal(t, healthy.ID, all.Items[3].VariantID)
	assert.False(t, all.Items[3].ReorderPoint.LessThan(decimal.NewFromInt(5)))
}

func TestReorder_ExportXLSX(t *testing.T) {
	store := memstore.New()
	store.AddVariant(memstore.VariantSeed{Product: "Bufanda", OnHand: 2, MinStock: 5, IdealStock: 10})
	sheets := &fakeSheets{}

	uc := inventory.NewReorderUseCase(store.Reorder(), inventory.ReorderConfig{}, sheets)
	out, err := uc.ExportXLSX(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	require.NotNil(t, sheets.got)
	assert.Len(t, sheets.got.Items, 1)
}
