package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

var _ repository.ReorderRepository = (*ReorderRepo)(nil)

// ReorderRepo consultas de lectura del asesor de reposición.
type ReorderRepo struct {
	q Querier
}

// NewReorderRepository construye el adaptador.
func NewReorderRepository(q Querier) *ReorderRepo {
	return &ReorderRepo{q: q}
}

// ListReorderCandidates devuelve cada variante sin orden abierta (PENDING/SENT) con sus
// salidas desde since y el lead time del proveedor del producto.
func (r *ReorderRepo) ListReorderCandidates(ctx context.Context, since time.Time) ([]repository.ReorderCandidate, error) {
	const query = `
	SELECT v.id, p.name, v.attribute, v.quantity, v.min_stock, v.ideal_stock, v.cost_price,
	       p.supplier_id, COALESCE(s.name, ''), s.lead_time_days,
	       COALESCE(x.units, 0)
	FROM product_variants v
	JOIN products p ON p.id = v.product_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id
	LEFT JOIN (
	    SELECT variant_id, SUM(quantity)::BIGINT AS units
	    FROM stock_movements
	    WHERE type = 'EXIT' AND date >= $1
	    GROUP BY variant_id
	) x ON x.variant_id = v.id
	WHERE NOT EXISTS (
	    SELECT 1
	    FROM purchase_order_lines l
	    JOIN purchase_orders o ON o.id = l.order_id
	    WHERE l.variant_id = v.id AND o.status IN ('PENDING', 'SENT')
	)`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("reorder.ListReorderCandidates: %w", err)
	}
	defer rows.Close()

	var out []repository.ReorderCandidate
	for rows.Next() {
		var c repository.ReorderCandidate
		if err := rows.Scan(
			&c.VariantID, &c.ProductName, &c.Attribute, &c.OnHand, &c.MinStock, &c.IdealStock, &c.CostPrice,
			&c.SupplierID, &c.SupplierName, &c.LeadTimeDays,
			&c.ExitsInWindow,
		); err != nil {
			return nil, fmt.Errorf("reorder.ListReorderCandidates scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
