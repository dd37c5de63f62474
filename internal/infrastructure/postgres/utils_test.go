package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%camisa%", likePattern("  camisa "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestArgList_Placeholders(t *testing.T) {
	var a argList
	assert.Equal(t, "$1", a.add("x"))
	assert.Equal(t, "$2", a.add(7))
	assert.Equal(t, " LIMIT $3 OFFSET $4", a.limitOffset(20, 40))
	assert.Equal(t, []any{"x", 7, 20, 40}, a.args)
}

func TestArgList_SinLimite(t *testing.T) {
	var a argList
	assert.Equal(t, "", a.limitOffset(0, 0))
	assert.Empty(t, a.args)
}

func TestHasCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("insert: %w", pgErr)
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isForeignKeyViolation(wrapped))
	assert.False(t, isUniqueViolation(errors.New("otro error")))
}

func TestIsBadReference_UUIDMalformado(t *testing.T) {
	invalidText := fmt.Errorf("insert stock movement: %w", &pgconn.PgError{Code: "22P02"})
	fk := &pgconn.PgError{Code: "23503"}
	assert.True(t, isBadReference(invalidText))
	assert.True(t, isBadReference(fk))
	assert.False(t, isBadReference(&pgconn.PgError{Code: "23505"}))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c2a52-3b4d-4e5f-8a9b-0c1d2e3f4a5b"))
	assert.False(t, validID("abc"))
	assert.False(t, validID(""))
	assert.False(t, validID("xyz-123"))
}

func TestRepos_IDMalformadoNoConsultaLaBase(t *testing.T) {
	ctx := context.Background()
	// Querier nil: cualquier consulta haría panic, así que el guard debe cortar antes.
	variants := NewVariantRepository(nil)
	v, err := variants.GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, v)

	orders := NewPurchaseOrderRepository(nil)
	o, err := orders.GetByID(ctx, "xyz")
	require.NoError(t, err)
	assert.Nil(t, o)

	err = NewStockMovementRepository(nil).Delete(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewStockMovementRepository(nil).List(ctx, repository.MovementFilter{VariantID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
