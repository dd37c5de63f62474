// Package memstore implementa los puertos de repositorio en memoria para pruebas.
// Las transacciones trabajan sobre una copia del estado y la publican solo en Commit,
// de modo que un error dentro de Run deja el estado intacto (rollback).
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

type state struct {
	products   map[string]*entity.Product
	variants   map[string]*entity.ProductVariant
	movements  map[string]*entity.StockMovement
	orders     map[string]*entity.PurchaseOrder
	customers  map[string]*entity.Customer
	suppliers  map[string]*entity.Supplier
	categories map[string]*entity.Category
	users      map[string]*entity.User
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		variants:   map[string]*entity.ProductVariant{},
		movements:  map[string]*entity.StockMovement{},
		orders:     map[string]*entity.PurchaseOrder{},
		customers:  map[string]*entity.Customer{},
		suppliers:  map[string]*entity.Supplier{},
		categories: map[string]*entity.Category{},
		users:      map[string]*entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.variants {
		cp := *v
		c.variants[k] = &cp
	}
	for k, v := range s.movements {
		cp := *v
		c.movements[k] = &cp
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.customers {
		cp := *v
		c.customers[k] = &cp
	}
	for k, v := range s.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range s.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	return c
}

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *o
	cp.Lines = make([]*entity.PurchaseOrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lc := *l
		cp.Lines[i] = &lc
	}
	return &cp
}

// Store base de datos en memoria. Las transacciones se serializan, lo que equivale
// a que cada una bloquee todas las filas que toca.
type Store struct {
	txMu sync.Mutex // serializa transacciones
	mu   sync.Mutex // protege st
	st   *state

	// Now reloj usado para fechar movimientos sin fecha; por defecto time.Now.
	Now func() time.Time

	// Commits cuenta las transacciones confirmadas.
	Commits int
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), Now: time.Now}
}

// view decide sobre qué estado opera un repositorio: el de la tx o el confirmado.
type view struct {
	store *Store
	tx    *state
}

func (v view) with(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	fn(v.store.st)
}

func (v view) now() time.Time {
	if v.store.Now != nil {
		return v.store.Now()
	}
	return time.Now()
}

// Run ejecuta fn sobre una copia del estado; si fn no falla, la copia reemplaza al estado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	work := s.st.clone()
	s.mu.Unlock()

	v := view{store: s, tx: work}
	if err := fn(repository.TxRepos{
		Variants:  &VariantRepo{v},
		Movements: &MovementRepo{v},
		Orders:    &OrderRepo{v},
		Customers: &CustomerRepo{v},
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.Commits++
	s.mu.Unlock()
	return nil
}

func (s *Store) base() view { return view{store: s} }

// Repositorios fuera de transacción (lecturas y escrituras simples).

func (s *Store) Products() *ProductRepo { return &ProductRepo{s.base()} }
func (s *Store) Variants() *VariantRepo { return &VariantRepo{s.base()} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s.base()} }
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s.base()} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s.base()} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s.base()} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s.base()} }
func (s *Store) Users() *UserRepo { return &UserRepo{s.base()} }
func (s *Store) Reorder() *ReorderRepo { return &ReorderRepo{s.base()} }
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s.base()} }
