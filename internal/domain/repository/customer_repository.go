package repository

import (
	"context"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer (CRM).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// Search busca por nombre, teléfono o email (contiene).
	Search(ctx context.Context, q string, limit int) ([]*entity.Customer, error)
}
