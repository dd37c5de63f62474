package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	VariantID  string
	Type       string
	CustomerID string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// StockMovementRepository define el puerto de persistencia del ledger de movimientos (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// Update solo modifica cantidad y motivo.
	Update(ctx context.Context, movement *entity.StockMovement) error
	Delete(ctx context.Context, id string) error
	// SumByType agrega las cantidades de la variante agrupadas por tipo.
	SumByType(ctx context.Context, variantID string) (stock.Totals, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	// ExistsForOrder indica si la orden ya generó movimientos de entrada.
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
}
