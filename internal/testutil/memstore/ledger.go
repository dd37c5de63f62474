package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.PurchaseOrderRepository = (*OrderRepo)(nil)
	_ repository.ReorderRepository       = (*ReorderRepo)(nil)
	_ repository.ReportRepository        = (*ReportRepo)(nil)
)

// MovementRepo ledger en memoria.
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = r.v.now()
	}
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.variants[m.VariantID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *m
		st.movements[m.ID] = &cp
	})
	return err
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.v.with(func(st *state) {
		if m, ok := st.movements[id]; ok {
			cp := *m
			out = &cp
		}
	})
	return out, nil
}

func (r *MovementRepo) Update(_ context.Context, m *entity.StockMovement) error {
	var err error
	r.v.with(func(st *state) {
		cur, ok := st.movements[m.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Quantity = m.Quantity
		cur.Reason = m.Reason
	})
	return err
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.movements[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.movements, id)
	})
	return err
}

func (r *MovementRepo) SumByType(_ context.Context, variantID string) (stock.Totals, error) {
	var t stock.Totals
	r.v.with(func(st *state) {
		for _, m := range st.movements {
			if m.VariantID != variantID {
				continue
			}
			switch m.Type {
			case entity.MovementTypeEntry:
				t.Entries += m.Quantity
			case entity.MovementTypeExit:
				t.Exits += m.Quantity
			case entity.MovementTypeAdjustment:
				t.Adjustments += m.Quantity
			}
		}
	})
	return t, nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.v.with(func(st *state) {
		for _, m := range st.movements {
			if f.VariantID != "" && m.VariantID != f.VariantID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.CustomerID != "" && (m.CustomerID == nil || *m.CustomerID != f.CustomerID) {
				continue
			}
			if !inRange(m.Date, f.From, f.To) {
				continue
			}
			cp := *m
			if v, ok := st.variants[m.VariantID]; ok {
				cp.VariantLabel = hydrate(st, v).Label()
			}
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *MovementRepo) ExistsForOrder(_ context.Context, orderID string) (bool, error) {
	found := false
	r.v.with(func(st *state) {
		for _, m := range st.movements {
			if m.PurchaseOrderID != nil && *m.PurchaseOrderID == orderID {
				found = true
				return
			}
		}
	})
	return found, nil
}

// Count número total de movimientos confirmados (solo pruebas).
func (r *MovementRepo) Count() int {
	n := 0
	r.v.with(func(st *state) { n = len(st.movements) })
	return n
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// OrderRepo órdenes de compra en memoria.
type OrderRepo struct{ v view }

func (r *OrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.v.now()
	}
	for _, l := range o.Lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.OrderID = o.ID
	}
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.orders[o.ID] = copyOrder(o)
	})
	return err
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	r.v.with(func(st *state) {
		if o, ok := st.orders[id]; ok {
			out = hydrateOrder(st, o)
		}
	})
	return out, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, o *entity.PurchaseOrder) error {
	var err error
	r.v.with(func(st *state) {
		cur, ok := st.orders[o.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Status = o.Status
		cur.SentAt = o.SentAt
		cur.ReceivedAt = o.ReceivedAt
		cur.CancelledAt = o.CancelledAt
	})
	return err
}

func (r *OrderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	r.v.with(func(st *state) {
		for _, o := range st.orders {
			if status != "" && o.Status != status {
				continue
			}
			out = append(out, hydrateOrder(st, o))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func hydrateOrder(st *state, o *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := copyOrder(o)
	if s, ok := st.suppliers[o.SupplierID]; ok {
		cp.SupplierName = s.Name
	}
	for _, l := range cp.Lines {
		if v, ok := st.variants[l.VariantID]; ok {
			l.VariantLabel = hydrate(st, v).Label()
		}
	}
	return cp
}

// ReorderRepo consultas del asesor de reposición en memoria.
type ReorderRepo struct{ v view }

func (r *ReorderRepo) ListReorderCandidates(_ context.Context, since time.Time) ([]repository.ReorderCandidate, error) {
	var out []repository.ReorderCandidate
	r.v.with(func(st *state) {
		open := map[string]bool{}
		for _, o := range st.orders {
			if !o.IsOpen() {
				continue
			}
			for _, l := range o.Lines {
				open[l.VariantID] = true
			}
		}
		exits := map[string]int64{}
		for _, m := range st.movements {
			if m.Type == entity.MovementTypeExit && !m.Date.Before(since) {
				exits[m.VariantID] += m.Quantity
			}
		}
		for id, v := range st.variants {
			if open[id] {
				continue
			}
			h := hydrate(st, v)
			c := repository.ReorderCandidate{
				VariantID:     id,
				ProductName:   h.ProductName,
				Attribute:     h.Attribute,
				OnHand:        h.Quantity,
				MinStock:      h.MinStock,
				IdealStock:    h.IdealStock,
				CostPrice:     h.CostPrice,
				SupplierID:    h.SupplierID,
				SupplierName:  h.SupplierName,
				ExitsInWindow: exits[id],
			}
			if h.SupplierID != nil {
				if s, ok := st.suppliers[*h.SupplierID]; ok {
					c.LeadTimeDays = s.LeadTimeDays
				}
			}
			out = append(out, c)
		}
	})
	return out, nil
}

// ReportRepo agregados de ventas en memoria.
type ReportRepo struct{ v view }

func (r *ReportRepo) exits(st *state, from, to *time.Time, fn func(m *entity.StockMovement, v *entity.ProductVariant)) {
	for _, m := range st.movements {
		if m.Type != entity.MovementTypeExit || !inRange(m.Date, from, to) {
			continue
		}
		if v, ok := st.variants[m.VariantID]; ok {
			fn(m, hydrate(st, v))
		}
	}
}

func (r *ReportRepo) SalesTotals(_ context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero}
	r.v.with(func(st *state) {
		r.exits(st, from, to, func(m *entity.StockMovement, v *entity.ProductVariant) {
			q := decimal.NewFromInt(m.Quantity)
			t.Revenue = t.Revenue.Add(v.SalePrice.Mul(q))
			t.Cost = t.Cost.Add(v.CostPrice.Mul(q))
			t.Units += m.Quantity
		})
	})
	return t, nil
}

func (r *ReportRepo) SalesByVariant(_ context.Context, from, to *time.Time) ([]repository.VariantSales, error) {
	byID := map[string]*repository.VariantSales{}
	r.v.with(func(st *state) {
		r.exits(st, from, to, func(m *entity.StockMovement, v *entity.ProductVariant) {
			s, ok := byID[v.ID]
			if !ok {
				s = &repository.VariantSales{VariantID: v.ID, ProductName: v.ProductName, Attribute: v.Attribute, Revenue: decimal.Zero, Cost: decimal.Zero}
				byID[v.ID] = s
			}
			q := decimal.NewFromInt(m.Quantity)
			s.Units += m.Quantity
			s.Revenue = s.Revenue.Add(v.SalePrice.Mul(q))
			s.Cost = s.Cost.Add(v.CostPrice.Mul(q))
		})
	})
	out := make([]repository.VariantSales, 0, len(byID))
	for _, s := range byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].VariantID < out[j].VariantID
	})
	return out, nil
}

func (r *ReportRepo) InventoryByCategory(_ context.Context) ([]repository.CategoryValue, error) {
	byName := map[string]*repository.CategoryValue{}
	r.v.with(func(st *state) {
		for _, v := range st.variants {
			h := hydrate(st, v)
			name := "Sin categoría"
			if h.CategoryID != nil {
				if c, ok := st.categories[*h.CategoryID]; ok {
					name = c.Name
				}
			}
			cv, ok := byName[name]
			if !ok {
				cv = &repository.CategoryValue{CategoryName: name, Value: decimal.Zero}
				byName[name] = cv
			}
			cv.Value = cv.Value.Add(h.InventoryValue())
			cv.Units += h.Quantity
		}
	})
	out := make([]repository.CategoryValue, 0, len(byName))
	for _, cv := range byName {
		out = append(out, *cv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	return out, nil
}

func (r *ReportRepo) CustomerPurchases(_ context.Context, customerID string) ([]repository.CustomerPurchase, error) {
	var out []repository.CustomerPurchase
	r.v.with(func(st *state) {
		r.exits(st, nil, nil, func(m *entity.StockMovement, v *entity.ProductVariant) {
			if m.CustomerID == nil || *m.CustomerID != customerID {
				return
			}
			out = append(out, repository.CustomerPurchase{
				MovementID:  m.ID,
				VariantID:   v.ID,
				ProductName: v.ProductName,
				Attribute:   v.Attribute,
				Quantity:    m.Quantity,
				UnitPrice:   v.SalePrice,
				UnitCost:    v.CostPrice,
				Date:        m.Date,
			})
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *ReportRepo) ranks(from, to *time.Time) []repository.CustomerRank {
	byID := map[string]*repository.CustomerRank{}
	days := map[string]map[string]bool{}
	r.v.with(func(st *state) {
		r.exits(st, from, to, func(m *entity.StockMovement, v *entity.ProductVariant) {
			if m.CustomerID == nil {
				return
			}
			c, ok := st.customers[*m.CustomerID]
			if !ok {
				return
			}
			rk, ok := byID[c.ID]
			if !ok {
				rk = &repository.CustomerRank{CustomerID: c.ID, Name: c.Name, TotalSpent: decimal.Zero}
				byID[c.ID] = rk
				days[c.ID] = map[string]bool{}
			}
			rk.TotalSpent = rk.TotalSpent.Add(v.SalePrice.Mul(decimal.NewFromInt(m.Quantity)))
			rk.PurchaseCount++
			days[c.ID][m.Date.Format("2006-01-02")] = true
		})
	})
	out := make([]repository.CustomerRank, 0, len(byID))
	for id, rk := range byID {
		rk.PurchaseDays = int64(len(days[id]))
		out = append(out, *rk)
	}
	return out
}

func (r *ReportRepo) TopCustomersBySpend(_ context.Context, from, to *time.Time, limit int) ([]repository.CustomerRank, error) {
	var out []repository.CustomerRank
	for _, rk := range r.ranks(from, to) {
		if rk.TotalSpent.IsPositive() {
			out = append(out, rk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), nil
}

func (r *ReportRepo) TopCustomersByFrequency(_ context.Context, from, to *time.Time, limit int) ([]repository.CustomerRank, error) {
	out := r.ranks(from, to)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PurchaseDays != out[j].PurchaseDays {
			return out[i].PurchaseDays > out[j].PurchaseDays
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), nil
}
