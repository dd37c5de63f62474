package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.VariantRepository  = (*VariantRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.v.with(func(st *state) {
		cp := *p
		st.products[p.ID] = &cp
	})
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.with(func(st *state) {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.products[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *p
		st.products[p.ID] = &cp
	})
	return err
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.with(func(st *state) {
		for _, p := range st.products {
			cp := *p
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// VariantRepo variantes en memoria; las lecturas completan los campos del producto.
type VariantRepo struct{ v view }

func hydrate(st *state, v *entity.ProductVariant) *entity.ProductVariant {
	cp := *v
	if p, ok := st.products[v.ProductID]; ok {
		cp.ProductName = p.Name
		cp.CategoryID = p.CategoryID
		cp.SupplierID = p.SupplierID
		if p.SupplierID != nil {
			if s, ok := st.suppliers[*p.SupplierID]; ok {
				cp.SupplierName = s.Name
			}
		}
	}
	return &cp
}

func (r *VariantRepo) Create(_ context.Context, v *entity.ProductVariant) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	var err error
	r.v.with(func(st *state) {
		if v.Barcode != nil {
			for _, other := range st.variants {
				if other.Barcode != nil && *other.Barcode == *v.Barcode {
					err = domain.ErrDuplicate
					return
				}
			}
		}
		cp := *v
		st.variants[v.ID] = &cp
	})
	return err
}

func (r *VariantRepo) GetByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	var out *entity.ProductVariant
	r.v.with(func(st *state) {
		if v, ok := st.variants[id]; ok {
			out = hydrate(st, v)
		}
	})
	return out, nil
}

func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.GetByID(ctx, id)
}

func (r *VariantRepo) Update(_ context.Context, v *entity.ProductVariant) error {
	var err error
	r.v.with(func(st *state) {
		cur, ok := st.variants[v.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if v.Barcode != nil {
			for id, other := range st.variants {
				if id != v.ID && other.Barcode != nil && *other.Barcode == *v.Barcode {
					err = domain.ErrDuplicate
					return
				}
			}
		}
		cp := *v
		cp.Quantity = cur.Quantity
		st.variants[v.ID] = &cp
	})
	return err
}

func (r *VariantRepo) SetQuantity(_ context.Context, id string, quantity int64) error {
	var err error
	r.v.with(func(st *state) {
		cur, ok := st.variants[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Quantity = quantity
	})
	return err
}

func (r *VariantRepo) List(_ context.Context, f repository.VariantFilter) ([]*entity.ProductVariant, error) {
	var out []*entity.ProductVariant
	r.v.with(func(st *state) {
		for _, v := range st.variants {
			if f.ProductID != "" && v.ProductID != f.ProductID {
				continue
			}
			h := hydrate(st, v)
			if f.Status != "" && string(h.Status()) != f.Status {
				continue
			}
			out = append(out, h)
		}
	})
	sortVariants(out)
	return page(out, f.Limit, f.Offset), nil
}

func (r *VariantRepo) Search(_ context.Context, q string, limit int) ([]*entity.ProductVariant, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []*entity.ProductVariant
	r.v.with(func(st *state) {
		for _, v := range st.variants {
			h := hydrate(st, v)
			if strings.Contains(strings.ToLower(h.Label()), q) || (h.Barcode != nil && *h.Barcode == q) {
				out = append(out, h)
			}
		}
	})
	sortVariants(out)
	return page(out, limit, 0), nil
}

func (r *VariantRepo) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	r.v.with(func(st *state) {
		for id := range st.variants {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids, nil
}

func sortVariants(vs []*entity.ProductVariant) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].ProductName != vs[j].ProductName {
			return vs[i].ProductName < vs[j].ProductName
		}
		return vs[i].Attribute < vs[j].Attribute
	})
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.v.with(func(st *state) {
		cp := *s
		st.suppliers[s.ID] = &cp
	})
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.v.with(func(st *state) {
		if s, ok := st.suppliers[id]; ok {
			cp := *s
			out = &cp
		}
	})
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.suppliers[s.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *s
		st.suppliers[s.ID] = &cp
	})
	return err
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.v.with(func(st *state) {
		for _, s := range st.suppliers {
			cp := *s
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ v view }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	var err error
	r.v.with(func(st *state) {
		for _, other := range st.categories {
			if strings.EqualFold(other.Name, c.Name) {
				err = domain.ErrDuplicate
				return
			}
		}
		cp := *c
		st.categories[c.ID] = &cp
	})
	return err
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	r.v.with(func(st *state) {
		if c, ok := st.categories[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	r.v.with(func(st *state) {
		for _, c := range st.categories {
			cp := *c
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ v view }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.v.with(func(st *state) {
		cp := *c
		st.customers[c.ID] = &cp
	})
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.v.with(func(st *state) {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.customers[c.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *c
		st.customers[c.ID] = &cp
	})
	return err
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	var err error
	r.v.with(func(st *state) {
		if _, ok := st.customers[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.customers, id)
		for _, m := range st.movements {
			if m.CustomerID != nil && *m.CustomerID == id {
				m.CustomerID = nil
			}
		}
	})
	return err
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	r.v.with(func(st *state) {
		for _, c := range st.customers {
			cp := *c
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *CustomerRepo) Search(_ context.Context, q string, limit int) ([]*entity.Customer, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []*entity.Customer
	r.v.with(func(st *state) {
		for _, c := range st.customers {
			if strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.Phone), q) ||
				strings.Contains(strings.ToLower(c.Email), q) {
				cp := *c
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, 0), nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ v view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	var err error
	r.v.with(func(st *state) {
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				err = domain.ErrEmailAlreadyExists
				return
			}
		}
		cp := *u
		st.users[u.ID] = &cp
	})
	return err
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.with(func(st *state) {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.with(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				cp := *u
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
