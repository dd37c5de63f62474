package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. Variante, cliente u orden inexistentes → ErrNotFound.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, variant_id, type, quantity, reason, customer_id, purchase_order_id, created_by, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
		RETURNING date`
	var createdBy *string
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	var date any
	if !m.Date.IsZero() {
		date = m.Date
	}
	err := r.q.QueryRow(ctx, query,
		m.ID, m.VariantID, m.Type, m.Quantity, m.Reason, m.CustomerID, m.PurchaseOrderID, createdBy, date,
	).Scan(&m.Date)
	if err != nil {
		if isBadReference(err) {
			return fmt.Errorf("%w: variante, cliente u orden del movimiento", domain.ErrNotFound)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	if !validID(id) {
		return nil, nil
	}
	query := movementSelect + ` WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// Update solo modifica cantidad y motivo.
func (r *StockMovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_movements SET quantity = $2, reason = $3 WHERE id = $1`, m.ID, m.Quantity, m.Reason)
	if err != nil {
		return fmt.Errorf("update stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento.
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByType agrega las cantidades de la variante agrupadas por tipo.
func (r *StockMovementRepo) SumByType(ctx context.Context, variantID string) (stock.Totals, error) {
	rows, err := r.q.Query(ctx, `
		SELECT type, COALESCE(SUM(quantity), 0)::BIGINT
		FROM stock_movements WHERE variant_id = $1
		GROUP BY type`, variantID)
	if err != nil {
		return stock.Totals{}, fmt.Errorf("sum movements: %w", err)
	}
	defer rows.Close()
	var t stock.Totals
	for rows.Next() {
		var typ string
		var sum int64
		if err := rows.Scan(&typ, &sum); err != nil {
			return stock.Totals{}, fmt.Errorf("scan movement sum: %w", err)
		}
		switch typ {
		case entity.MovementTypeEntry:
			t.Entries = sum
		case entity.MovementTypeExit:
			t.Exits = sum
		case entity.MovementTypeAdjustment:
			t.Adjustments = sum
		}
	}
	return t, rows.Err()
}

// List lista movimientos filtrados, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var a argList
	var where []string
	if f.VariantID != "" {
		if !validID(f.VariantID) {
			return nil, invalidFilter("variant_id", f.VariantID)
		}
		where = append(where, "m.variant_id = "+a.add(f.VariantID))
	}
	if f.Type != "" {
		where = append(where, "m.type = "+a.add(f.Type))
	}
	if f.CustomerID != "" {
		if !validID(f.CustomerID) {
			return nil, invalidFilter("customer_id", f.CustomerID)
		}
		where = append(where, "m.customer_id = "+a.add(f.CustomerID))
	}
	if f.From != nil {
		where = append(where, "m.date >= "+a.add(*f.From))
	}
	if f.To != nil {
		where = append(where, "m.date <= "+a.add(*f.To))
	}
	query := movementSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.date DESC, m.id" + a.limitOffset(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ExistsForOrder indica si la orden ya generó movimientos.
func (r *StockMovementRepo) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	if !validID(orderID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE purchase_order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movements for order: %w", err)
	}
	return exists, nil
}

const movementSelect = `
	SELECT m.id, m.variant_id, m.type, m.quantity, m.reason, m.customer_id, m.purchase_order_id,
	       COALESCE(m.created_by::TEXT, ''), m.date,
	       CASE WHEN v.attribute = '' THEN p.name ELSE p.name || ' - ' || v.attribute END
	FROM stock_movements m
	JOIN product_variants v ON v.id = m.variant_id
	JOIN products p ON p.id = v.product_id`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.VariantID, &m.Type, &m.Quantity, &m.Reason, &m.CustomerID, &m.PurchaseOrderID,
		&m.CreatedBy, &m.Date, &m.VariantLabel,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
