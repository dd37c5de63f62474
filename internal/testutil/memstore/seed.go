package memstore

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
)

// VariantSeed datos mínimos para sembrar una variante en pruebas.
type VariantSeed struct {
	Product    string
	Attribute  string
	Cost       decimal.Decimal
	Price      decimal.Decimal
	OnHand     int64 // se siembra como un ENTRY inicial para que el ledger cuadre
	MinStock   int64
	IdealStock int64
	SupplierID *string
	CategoryID *string
	Barcode    *string
}

// AddVariant crea producto y variante; OnHand > 0 genera el movimiento de entrada inicial.
func (s *Store) AddVariant(seed VariantSeed) *entity.ProductVariant {
	now := s.Now()
	p := &entity.Product{
		ID:         uuid.New().String(),
		Name:       seed.Product,
		SupplierID: seed.SupplierID,
		CategoryID: seed.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	v := &entity.ProductVariant{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		Attribute:  seed.Attribute,
		CostPrice:  seed.Cost,
		SalePrice:  seed.Price,
		Quantity:   seed.OnHand,
		MinStock:   seed.MinStock,
		IdealStock: seed.IdealStock,
		Barcode:    seed.Barcode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
	s.st.variants[v.ID] = v
	if seed.OnHand > 0 {
		m := &entity.StockMovement{
			ID:        uuid.New().String(),
			VariantID: v.ID,
			Type:      entity.MovementTypeEntry,
			Quantity:  seed.OnHand,
			Reason:    "Inventario inicial",
			Date:      now.AddDate(0, 0, -90),
		}
		s.st.movements[m.ID] = m
	}
	return hydrate(s.st, v)
}

// AddSupplier siembra un proveedor.
func (s *Store) AddSupplier(name string, leadTimeDays *int) *entity.Supplier {
	sp := &entity.Supplier{ID: uuid.New().String(), Name: name, LeadTimeDays: leadTimeDays, CreatedAt: s.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[sp.ID] = sp
	cp := *sp
	return &cp
}

// AddCustomer siembra un cliente.
func (s *Store) AddCustomer(name string) *entity.Customer {
	c := &entity.Customer{ID: uuid.New().String(), Name: name, CreatedAt: s.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
	cp := *c
	return &cp
}

// AddCategory siembra una categoría.
func (s *Store) AddCategory(name string) *entity.Category {
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: s.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.categories[c.ID] = c
	cp := *c
	return &cp
}

// AddMovement inserta un movimiento crudo sin recalcular (para simular desvíos).
func (s *Store) AddMovement(m entity.StockMovement) *entity.StockMovement {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = s.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.movements[m.ID] = &m
	cp := m
	return &cp
}

// ForceQuantity sobrescribe la cantidad cacheada de una variante (para simular desvíos).
func (s *Store) ForceQuantity(variantID string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.st.variants[variantID]; ok {
		v.Quantity = qty
	}
}

// Quantity cantidad cacheada de la variante.
func (s *Store) Quantity(variantID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.st.variants[variantID]; ok {
		return v.Quantity
	}
	return 0
}

// LedgerBalance suma con signo de los movimientos de la variante.
func (s *Store) LedgerBalance(variantID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, m := range s.st.movements {
		if m.VariantID == variantID {
			total += m.SignedQuantity()
		}
	}
	return total
}
