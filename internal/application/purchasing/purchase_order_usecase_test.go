package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/purchasing"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeMetrics struct{ received []int }

func (f *fakeMetrics) SaleCompleted(decimal.Decimal, int64) {}
func (f *fakeMetrics) StockRejected(string)                 {}
func (f *fakeMetrics) OrderReceived(n int)                  { f.received = append(f.received, n) }
func (f *fakeMetrics) DriftCorrected(int)                   {}

type fixture struct {
	store    *memstore.Store
	uc       *purchasing.PurchaseOrderUseCase
	metrics  *fakeMetrics
	textiles *entity.Supplier
	shoes    *entity.Supplier
	shirt    *entity.ProductVariant
	pants    *entity.ProductVariant
	boots    *entity.ProductVariant
	orphan   *entity.ProductVariant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	m := &fakeMetrics{}
	f := &fixture{store: store, metrics: m}
	f.uc = purchasing.NewPurchaseOrderUseCase(store, store.Orders(), store.Suppliers(), m, nil)
	f.textiles = store.AddSupplier("Textiles Andinos", nil)
	f.shoes = store.AddSupplier("Calzado del Valle", nil)
	f.shirt = store.AddVariant(memstore.VariantSeed{Product: "Camiseta", Attribute: "M", OnHand: 2, Cost: decimal.NewFromInt(20000), SupplierID: &f.textiles.ID})
	f.pants = store.AddVariant(memstore.VariantSeed{Product: "Pantalón", Attribute: "32", OnHand: 0, Cost: decimal.NewFromInt(50000), SupplierID: &f.textiles.ID})
	f.boots = store.AddVariant(memstore.VariantSeed{Product: "Bota", Attribute: "40", OnHand: 1, Cost: decimal.NewFromInt(120000), SupplierID: &f.shoes.ID})
	f.orphan = store.AddVariant(memstore.VariantSeed{Product: "Llavero", OnHand: 3, Cost: decimal.NewFromInt(1000)})
	return f
}

func (f *fixture) createOrder(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	o, err := f.uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierID: f.textiles.ID,
		Lines: []dto.PurchaseOrderLineInput{
			{VariantID: f.shirt.ID, Quantity: 10},
			{VariantID: f.pants.ID, Quantity: 4},
		},
	}, "bodeguero-1")
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateOrders
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateOrders_AgrupaPorProveedorYCongelaCosto(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.GenerateOrders(context.Background(), []dto.OrderSelection{
		{VariantID: f.shirt.ID, Quantity: 10},
		{VariantID: f.boots.ID, Quantity: 2},
		{VariantID: f.pants.ID, Quantity: 5},
		{VariantID: f.orphan.ID, Quantity: 3},
		{VariantID: f.pants.ID, Quantity: 1},
		{VariantID: "no-existe", Quantity: 1},
		{VariantID: f.shirt.ID, Quantity: -10},
	}, "admin-1")
	require.NoError(t, err)

	require.Len(t, res.Orders, 2)
	bySupplier := map[string]dto.PurchaseOrderResponse{}
	for _, o := range res.Orders {
		assert.Equal(t, entity.POStatusPending, o.Status)
		bySupplier[o.SupplierID] = o
	}

	tex := bySupplier[f.textiles.ID]
	require.Len(t, tex.Lines, 1, "camiseta suma 0 y se omite; solo queda pantalón")
	assert.Equal(t, f.pants.ID, tex.Lines[0].VariantID)
	assert.Equal(t, int64(6), tex.Lines[0].Quantity)
	assert.True(t, tex.Lines[0].UnitCost.Equal(decimal.NewFromInt(50000)))

	shoes := bySupplier[f.shoes.ID]
	require.Len(t, shoes.Lines, 1)
	assert.True(t, shoes.Total.Equal(decimal.NewFromInt(240000)))

	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.VariantID] = s.Reason
	}
	assert.Equal(t, "producto sin proveedor", reasons[f.orphan.ID])
	assert.Equal(t, "variante no encontrada", reasons["no-existe"])
	assert.Equal(t, "cantidad inválida", reasons[f.shirt.ID])

	// El costo queda congelado aunque la variante cambie después.
	v, err := f.store.Variants().GetByID(context.Background(), f.pants.ID)
	require.NoError(t, err)
	v.CostPrice = decimal.NewFromInt(99999)
	require.NoError(t, f.store.Variants().Update(context.Background(), v))
	got, err := f.uc.Get(context.Background(), tex.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].UnitCost.Equal(decimal.NewFromInt(50000)))
}

func TestGenerateOrders_SinSelecciones(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GenerateOrders(context.Background(), nil, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Send / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreatePurchaseOrderRequest{SupplierID: "x", Lines: []dto.PurchaseOrderLineInput{{VariantID: f.shirt.ID, Quantity: 1}}}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, dto.CreatePurchaseOrderRequest{SupplierID: f.textiles.ID}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dto.CreatePurchaseOrderRequest{SupplierID: f.textiles.ID, Lines: []dto.PurchaseOrderLineInput{{VariantID: f.shirt.ID, Quantity: 0}}}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	custom := decimal.NewFromInt(18000)
	o, err := f.uc.Create(ctx, dto.CreatePurchaseOrderRequest{SupplierID: f.textiles.ID, Lines: []dto.PurchaseOrderLineInput{{VariantID: f.shirt.ID, Quantity: 2, UnitCost: &custom}}}, "")
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(36000)))
}

func TestSendYCancel_Transiciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)

	require.NoError(t, f.uc.Send(ctx, o.ID))
	got, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSent, got.Status)
	assert.NotNil(t, got.SentAt)

	assert.ErrorIs(t, f.uc.Send(ctx, o.ID), domain.ErrConflict)

	require.NoError(t, f.uc.Cancel(ctx, o.ID))
	assert.ErrorIs(t, f.uc.Cancel(ctx, o.ID), domain.ErrAlreadyProcessed)
	assert.ErrorIs(t, f.uc.Send(ctx, o.ID), domain.ErrAlreadyProcessed)
	assert.ErrorIs(t, f.uc.Send(ctx, "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_GeneraEntradasYRecalcula(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	require.NoError(t, f.uc.Send(ctx, o.ID))

	require.NoError(t, f.uc.Receive(ctx, o.ID, "bodeguero-1"))

	assert.Equal(t, int64(12), f.store.Quantity(f.shirt.ID))
	assert.Equal(t, int64(4), f.store.Quantity(f.pants.ID))
	assert.Equal(t, f.store.LedgerBalance(f.shirt.ID), f.store.Quantity(f.shirt.ID))

	movs, err := f.store.Movements().List(ctx, repository.MovementFilter{Type: entity.MovementTypeEntry, VariantID: f.pants.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Purchase order #"+o.ID+" receipt", movs[0].Reason)
	require.NotNil(t, movs[0].PurchaseOrderID)
	assert.Equal(t, o.ID, *movs[0].PurchaseOrderID)

	got, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, got.Status)
	assert.NotNil(t, got.ReceivedAt)
	assert.Equal(t, []int{2}, f.metrics.received)
}

// Recibir dos veces no duplica entradas.
func TestReceive_DosVecesEsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)

	require.NoError(t, f.uc.Receive(ctx, o.ID, ""))
	count := f.store.Movements().Count()

	err := f.uc.Receive(ctx, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, count, f.store.Movements().Count())
	assert.Equal(t, int64(12), f.store.Quantity(f.shirt.ID))
	assert.Len(t, f.metrics.received, 1)
}

func TestReceive_CanceladaEsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	require.NoError(t, f.uc.Cancel(ctx, o.ID))
	count := f.store.Movements().Count()

	assert.ErrorIs(t, f.uc.Receive(ctx, o.ID, ""), domain.ErrAlreadyProcessed)
	assert.Equal(t, count, f.store.Movements().Count())
	assert.Equal(t, int64(2), f.store.Quantity(f.shirt.ID))
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createOrder(t)
	f.createOrder(t)
	require.NoError(t, f.uc.Send(ctx, a.ID))

	sent, err := f.uc.List(ctx, entity.POStatusSent, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, a.ID, sent[0].ID)

	all, err := f.uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.List(ctx, "ABIERTA", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
