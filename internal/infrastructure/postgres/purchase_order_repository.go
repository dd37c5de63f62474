package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderSelect = `
	SELECT o.id, o.supplier_id, o.status, o.notes, COALESCE(o.created_by::TEXT, ''), o.created_at,
	       o.sent_at, o.received_at, o.cancelled_at, s.name
	FROM purchase_orders o
	JOIN suppliers s ON s.id = o.supplier_id`

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una tx para ser atómico.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	var createdBy *string
	if o.CreatedBy != "" {
		createdBy = &o.CreatedBy
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, supplier_id, status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.SupplierID, o.Status, o.Notes, createdBy, o.CreatedAt,
	)
	if err != nil {
		if isBadReference(err) {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, o.SupplierID)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, l := range o.Lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.OrderID = o.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, order_id, variant_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			l.ID, l.OrderID, l.VariantID, l.Quantity, l.UnitCost,
		)
		if err != nil {
			if isBadReference(err) {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VariantID)
			}
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la orden.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus persiste estado y marcas de tiempo.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, sent_at = $3, received_at = $4, cancelled_at = $5
		WHERE id = $1`,
		o.ID, o.Status, o.SentAt, o.ReceivedAt, o.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes (más recientes primero), opcionalmente filtradas por estado.
func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var a argList
	query := orderSelect
	if status != "" {
		query += " WHERE o.status = " + a.add(status)
	}
	query += " ORDER BY o.created_at DESC" + a.limitOffset(limit, offset)

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadLines completa las líneas de las órdenes con una sola consulta.
func (r *PurchaseOrderRepo) loadLines(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.order_id, l.variant_id, l.quantity, l.unit_cost,
		       CASE WHEN v.attribute = '' THEN p.name ELSE p.name || ' - ' || v.attribute END
		FROM purchase_order_lines l
		JOIN product_variants v ON v.id = l.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE l.order_id = ANY($1::text[]::uuid[])
		ORDER BY l.variant_id`, ids)
	if err != nil {
		return fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.VariantID, &l.Quantity, &l.UnitCost, &l.VariantLabel); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, &l)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(
		&o.ID, &o.SupplierID, &o.Status, &o.Notes, &o.CreatedBy, &o.CreatedAt,
		&o.SentAt, &o.ReceivedAt, &o.CancelledAt, &o.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
