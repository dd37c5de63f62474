package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
)

func TestRecalculate_SumaConSigno(t *testing.T) {
	store := memstore.New()
	v := seedCamiseta(store, 10)
	store.AddMovement(entity.StockMovement{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 4})
	store.AddMovement(entity.StockMovement{VariantID: v.ID, Type: entity.MovementTypeAdjustment, Quantity: -1})

	var got int64
	err := store.Run(context.Background(), func(repos repository.TxRepos) error {
		var err error
		got, err = inventory.Recalculate(context.Background(), repos, v.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
	assert.Equal(t, int64(5), store.Quantity(v.ID))
}

func TestRecalculate_SaldoNegativoHaceRollback(t *testing.T) {
	store := memstore.New()
	v := seedCamiseta(store, 2)
	store.AddMovement(entity.StockMovement{VariantID: v.ID, Type: entity.MovementTypeExit, Quantity: 5})

	err := store.Run(context.Background(), func(repos repository.TxRepos) error {
		_, err := inventory.Recalculate(context.Background(), repos, v.ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), store.Quantity(v.ID), "la cantidad no se escribe")
}

func TestRecalculateAll_CorrigeDesvios(t *testing.T) {
	store := memstore.New()
	ok := seedCamiseta(store, 10)
	drifted := store.AddVariant(memstore.VariantSeed{Product: "Pantalón", Attribute: "32", OnHand: 8})
	negative := store.AddVariant(memstore.VariantSeed{Product: "Gorra", OnHand: 1})
	store.ForceQuantity(drifted.ID, 50)
	store.AddMovement(entity.StockMovement{VariantID: negative.ID, Type: entity.MovementTypeExit, Quantity: 3})

	metrics := &fakeMetrics{}
	uc := inventory.NewProjectorUseCase(store, store.Variants(), metrics, nil)

	dry, err := uc.RecalculateAll(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 3, dry.Total)
	assert.Equal(t, 1, dry.Corrected)
	assert.Equal(t, int64(50), store.Quantity(drifted.ID), "dry-run no escribe")

	report, err := uc.RecalculateAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, drifted.ID, report.Entries[0].VariantID)
	assert.Equal(t, int64(50), report.Entries[0].Before)
	assert.Equal(t, int64(8), report.Entries[0].After)
	require.Len(t, report.Negative, 1)
	assert.Equal(t, negative.ID, report.Negative[0].VariantID)

	assert.Equal(t, int64(8), store.Quantity(drifted.ID))
	assert.Equal(t, int64(10), store.Quantity(ok.ID))
	assert.Equal(t, int64(1), store.Quantity(negative.ID))
	assert.Equal(t, 1, metrics.drift)
}
