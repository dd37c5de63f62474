package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeMetrics struct {
	rejected []string
	drift    int
}

func (f *fakeMetrics) SaleCompleted(decimal.Decimal, int64) {}
func (f *fakeMetrics) StockRejected(op string)              { f.rejected = append(f.rejected, op) }
func (f *fakeMetrics) OrderReceived(int)                    {}
func (f *fakeMetrics) DriftCorrected(n int)                 { f.drift += n }

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memstore.Store, *fakeMetrics) {
	t.Helper()
	store := memstore.New()
	m := &fakeMetrics{}
	return inventory.NewLedgerUseCase(store, store.Movements(), m), store, m
}

func seedCamiseta(store *memstore.Store, onHand int64) *entity.ProductVariant {
	return store.AddVariant(memstore.VariantSeed{
		Product:    "Camiseta",
		Attribute:  "M / Azul",
		Cost:       decimal.NewFromInt(20000),
		Price:      decimal.NewFromInt(45000),
		OnHand:     onHand,
		MinStock:   5,
		IdealStock: 30,
	})
}

func assertLedgerInvariant(t *testing.T, store *memstore.Store, variantID string) {
	t.Helper()
	assert.Equal(t, store.LedgerBalance(variantID), store.Quantity(variantID),
		"la cantidad cacheada debe ser igual a la suma con signo del ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// CommitMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitMovement_EntradaSumaStock(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)

	res, err := uc.CommitMovement(context.Background(), inventory.CommitMovementInput{
		VariantID: v.ID, Type: entity.MovementTypeEntry, Quantity: 15, Reason: "Compra local", UserID: "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, res.OnHandAfter)
	assert.Equal(t, int64(25), *res.OnHandAfter)
	assert.Equal(t, "Camiseta - M / Azul", res.VariantLabel)
	assert.Equal(t, int64(25), store.Quantity(v.ID))
	assertLedgerInvariant(t, store, v.ID)
}

func TestCommitMovement_SalidaMayorAlStock(t *testing.T) {
	uc, store, metrics := newLedger(t)
	v := seedCamiseta(store, 3)
	before := store.Movements().Count()

	_, err := uc.CommitMovement(context.Background(), inventory.CommitMovementInput{
		VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 4,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, v.ID, short.VariantID)
	assert.Equal(t, int64(4), short.Requested)
	assert.Equal(t, int64(3), short.Available)

	assert.Equal(t, int64(3), store.Quantity(v.ID), "el stock no debe cambiar")
	assert.Equal(t, before, store.Movements().Count(), "no debe quedar movimiento")
	assert.Equal(t, []string{"movement"}, metrics.rejected)
}

func TestCommitMovement_AjusteNegativo(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	ctx := context.Background()

	_, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: -4, Reason: "Merma"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), store.Quantity(v.ID))

	_, err = uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: -7})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(6), store.Quantity(v.ID))
	assertLedgerInvariant(t, store, v.ID)
}

func TestCommitMovement_Validaciones(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	ctx := context.Background()

	cases := []inventory.CommitMovementInput{
		{VariantID: v.ID, Type: entity.MovementTypeEntry, Quantity: 0},
		{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: -2},
		{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: 0},
		{VariantID: v.ID, Type: "TRANSFER", Quantity: 1},
		{VariantID: "", Type: entity.MovementTypeEntry, Quantity: 1},
	}
	for _, in := range cases {
		_, err := uc.CommitMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, int64(10), store.Quantity(v.ID))
}

func TestCommitMovement_ReferenciasInexistentes(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	ctx := context.Background()

	_, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: "no-existe", Type: entity.MovementTypeEntry, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ghost := "cliente-fantasma"
	_, err = uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 1, CustomerID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), store.Quantity(v.ID))
}

func TestCommitMovement_SalidaConCliente(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	c := store.AddCustomer("Ana")

	res, err := uc.CommitMovement(context.Background(), inventory.CommitMovementInput{
		VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 2, CustomerID: &c.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.CustomerID)
	assert.Equal(t, c.ID, *res.CustomerID)
	assert.Equal(t, int64(8), store.Quantity(v.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateMovement / DeleteMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_RevierteSuContribucion(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 20)
	ctx := context.Background()

	exit, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 7})
	require.NoError(t, err)
	adj, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(15), store.Quantity(v.ID))

	onHand, err := uc.DeleteMovement(ctx, exit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(22), onHand)

	onHand, err = uc.DeleteMovement(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), onHand)
	assertLedgerInvariant(t, store, v.ID)

	_, err = uc.DeleteMovement(ctx, exit.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMovement_EntradaYaConsumida(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 0)
	ctx := context.Background()

	entry, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeEntry, Quantity: 10})
	require.NoError(t, err)
	_, err = uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 6})
	require.NoError(t, err)

	// Borrar la entrada dejaría el stock en -6.
	_, err = uc.DeleteMovement(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), store.Quantity(v.ID))
	assertLedgerInvariant(t, store, v.ID)
}

func TestUpdateMovement_CambiaCantidadYRecalcula(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	ctx := context.Background()

	exit, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 3})
	require.NoError(t, err)

	qty := int64(8)
	reason := "Venta mayorista"
	res, err := uc.UpdateMovement(ctx, exit.ID, inventory.UpdateMovementInput{Quantity: &qty, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, int64(2), *res.OnHandAfter)
	assert.Equal(t, "Venta mayorista", res.Reason)
	assert.Equal(t, entity.MovementTypeExit, res.Type)

	tooMuch := int64(11)
	_, err = uc.UpdateMovement(ctx, exit.ID, inventory.UpdateMovementInput{Quantity: &tooMuch})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(3), short.Requested)
	assert.Equal(t, int64(2), short.Available)
	assert.Equal(t, int64(2), store.Quantity(v.ID))

	zero := int64(0)
	_, err = uc.UpdateMovement(ctx, exit.ID, inventory.UpdateMovementInput{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateMovement(ctx, exit.ID, inventory.UpdateMovementInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assertLedgerInvariant(t, store, v.ID)
}

// Secuencia mixta de altas, ediciones y borrados: el invariante del ledger se mantiene siempre.
func TestLedgerInvariant_SecuenciaMixta(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 5)
	ctx := context.Background()

	var ids []string
	steps := []inventory.CommitMovementInput{
		{VariantID: v.ID, Type: entity.MovementTypeEntry, Quantity: 12},
		{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 4},
		{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: -3},
		{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 20}, // rechazada
		{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: 6},
	}
	for _, s := range steps {
		res, err := uc.CommitMovement(ctx, s)
		if err == nil {
			ids = append(ids, res.ID)
		}
		assertLedgerInvariant(t, store, v.ID)
	}
	require.Len(t, ids, 4)
	assert.Equal(t, int64(16), store.Quantity(v.ID))

	q := int64(1)
	_, err := uc.UpdateMovement(ctx, ids[1], inventory.UpdateMovementInput{Quantity: &q})
	require.NoError(t, err)
	assertLedgerInvariant(t, store, v.ID)

	_, err = uc.DeleteMovement(ctx, ids[2])
	require.NoError(t, err)
	assertLedgerInvariant(t, store, v.ID)
	assert.Equal(t, int64(22), store.Quantity(v.ID))
}

func TestListMovements_Filtros(t *testing.T) {
	uc, store, _ := newLedger(t)
	v := seedCamiseta(store, 10)
	ctx := context.Background()
	_, err := uc.CommitMovement(ctx, inventory.CommitMovementInput{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 1})
	require.NoError(t, err)

	list, err := uc.ListMovements(ctx, repository.MovementFilter{VariantID: v.ID, Type: entity.MovementTypeExit})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	all, err := uc.ListMovements(ctx, repository.MovementFilter{VariantID: v.ID})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	_, err = uc.ListMovements(ctx, repository.MovementFilter{Type: "OUT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
