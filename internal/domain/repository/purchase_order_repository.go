package repository

import (
	"context"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create inserta la cabecera y todas sus líneas.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloquea la fila de la orden.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// UpdateStatus persiste estado y marcas de tiempo (sent/received/cancelled).
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
