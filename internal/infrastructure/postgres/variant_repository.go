package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// Lectura de variante con los campos del producto y proveedor.
const variantSelect = `
	SELECT v.id, v.product_id, v.attribute, v.cost_price, v.sale_price, v.quantity,
	       v.min_stock, v.ideal_stock, v.barcode, v.created_at, v.updated_at,
	       p.name, p.category_id, p.supplier_id, COALESCE(s.name, '')
	FROM product_variants v
	JOIN products p ON p.id = v.product_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

// Expresión SQL equivalente a stock.Classify.
const variantStatusExpr = `
	CASE WHEN v.quantity < v.min_stock THEN 'DANGER'
	     WHEN v.quantity <= v.ideal_stock THEN 'WARNING'
	     ELSE 'OK' END`

// VariantRepo implementación de VariantRepository (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante. Código de barras repetido → ErrDuplicate.
func (r *VariantRepo) Create(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, attribute, cost_price, sale_price, quantity,
		                              min_stock, ideal_stock, barcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ProductID, v.Attribute, v.CostPrice, v.SalePrice, v.Quantity,
		v.MinStock, v.IdealStock, v.Barcode, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de barras", domain.ErrDuplicate)
		}
		if isBadReference(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, v.ProductID)
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.getOne(ctx, variantSelect+` WHERE v.id = $1`, id)
}

// GetForUpdate obtiene la variante y bloquea su fila (SELECT ... FOR UPDATE OF v).
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.getOne(ctx, variantSelect+` WHERE v.id = $1 FOR UPDATE OF v`, id)
}

func (r *VariantRepo) getOne(ctx context.Context, query, id string) (*entity.ProductVariant, error) {
	if !validID(id) {
		return nil, nil
	}
	v, err := scanVariant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// Update modifica los datos editables; quantity no se toca.
func (r *VariantRepo) Update(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET attribute = $2, cost_price = $3, sale_price = $4, min_stock = $5, ideal_stock = $6,
		    barcode = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.Attribute, v.CostPrice, v.SalePrice, v.MinStock, v.IdealStock, v.Barcode, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de barras", domain.ErrDuplicate)
		}
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity persiste la cantidad proyectada desde el ledger.
func (r *VariantRepo) SetQuantity(ctx context.Context, id string, quantity int64) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE product_variants SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("set variant quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista variantes por nombre de producto y atributo.
func (r *VariantRepo) List(ctx context.Context, f repository.VariantFilter) ([]*entity.ProductVariant, error) {
	var a argList
	var where []string
	if f.ProductID != "" {
		if !validID(f.ProductID) {
			return nil, invalidFilter("product_id", f.ProductID)
		}
		where = append(where, "v.product_id = "+a.add(f.ProductID))
	}
	if f.Status != "" {
		where = append(where, variantStatusExpr+" = "+a.add(f.Status))
	}
	query := variantSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.name, v.attribute" + a.limitOffset(f.Limit, f.Offset)
	return r.list(ctx, "list variants", query, a.args...)
}

// Search busca por nombre de producto o atributo (contiene) o código de barras exacto.
func (r *VariantRepo) Search(ctx context.Context, q string, limit int) ([]*entity.ProductVariant, error) {
	var a argList
	pattern := a.add(likePattern(q))
	exact := a.add(strings.TrimSpace(q))
	query := variantSelect + `
		WHERE p.name ILIKE ` + pattern + `
		   OR v.attribute ILIKE ` + pattern + `
		   OR (p.name || ' - ' || v.attribute) ILIKE ` + pattern + `
		   OR v.barcode = ` + exact + `
		ORDER BY p.name, v.attribute` + a.limitOffset(limit, 0)
	return r.list(ctx, "search variants", query, a.args...)
}

// ListIDs devuelve todos los IDs de variantes ordenados.
func (r *VariantRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM product_variants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list variant ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan variant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *VariantRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.ProductVariant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Attribute, &v.CostPrice, &v.SalePrice, &v.Quantity,
		&v.MinStock, &v.IdealStock, &v.Barcode, &v.CreatedAt, &v.UpdatedAt,
		&v.ProductName, &v.CategoryID, &v.SupplierID, &v.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
