package repository

import (
	"context"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
)

// VariantFilter filtros del listado de variantes.
type VariantFilter struct {
	ProductID string
	Status    string // DANGER, WARNING, OK; vacío = todas
	Limit     int // 0 = sin límite
	Offset    int
}

// VariantRepository define el puerto de persistencia para ProductVariant.
// Las lecturas incluyen los campos del producto (nombre, categoría, proveedor).
type VariantRepository interface {
	Create(ctx context.Context, v *entity.ProductVariant) error
	GetByID(ctx context.Context, id string) (*entity.ProductVariant, error)
	// GetForUpdate obtiene la variante y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error)
	// Update modifica los datos editables; nunca escribe la cantidad.
	Update(ctx context.Context, v *entity.ProductVariant) error
	// SetQuantity persiste la cantidad proyectada desde el ledger.
	SetQuantity(ctx context.Context, id string, quantity int64) error
	List(ctx context.Context, f VariantFilter) ([]*entity.ProductVariant, error)
	// Search busca por nombre/atributo (contiene) o código de barras (igual).
	Search(ctx context.Context, q string, limit int) ([]*entity.ProductVariant, error)
	ListIDs(ctx context.Context) ([]string, error)
}
