package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para dashboard, reportes y CRM.
// Las ventas son movimientos EXIT valorados al precio actual de la variante.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// exitsWhere arma el filtro de salidas en un período opcional.
func exitsWhere(a *argList, from, to *time.Time) string {
	conds := []string{"m.type = 'EXIT'"}
	if from != nil {
		conds = append(conds, "m.date >= "+a.add(*from))
	}
	if to != nil {
		conds = append(conds, "m.date <= "+a.add(*to))
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// SalesTotals ingresos, costo y unidades vendidas del período.
func (r *ReportRepo) SalesTotals(ctx context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	var a argList
	query := `
	SELECT COALESCE(SUM(m.quantity * v.sale_price), 0),
	       COALESCE(SUM(m.quantity * v.cost_price), 0),
	       COALESCE(SUM(m.quantity), 0)::BIGINT
	FROM stock_movements m
	JOIN product_variants v ON v.id = m.variant_id` + exitsWhere(&a, from, to)

	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, a.args...).Scan(&t.Revenue, &t.Cost, &t.Units); err != nil {
		return repository.SalesTotals{}, fmt.Errorf("reports.SalesTotals: %w", err)
	}
	return t, nil
}

// SalesByVariant ventas agregadas por variante, por ingresos descendente.
func (r *ReportRepo) SalesByVariant(ctx context.Context, from, to *time.Time) ([]repository.VariantSales, error) {
	var a argList
	query := `
	SELECT v.id, p.name, v.attribute,
	       SUM(m.quantity)::BIGINT                AS units,
	       SUM(m.quantity * v.sale_price)         AS revenue,
	       SUM(m.quantity * v.cost_price)         AS cost
	FROM stock_movements m
	JOIN product_variants v ON v.id = m.variant_id
	JOIN products p         ON p.id = v.product_id` + exitsWhere(&a, from, to) + `
	GROUP BY v.id, p.name, v.attribute
	ORDER BY revenue DESC, v.id`

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("reports.SalesByVariant: %w", err)
	}
	defer rows.Close()
	var out []repository.VariantSales
	for rows.Next() {
		var s repository.VariantSales
		if err := rows.Scan(&s.VariantID, &s.ProductName, &s.Attribute, &s.Units, &s.Revenue, &s.Cost); err != nil {
			return nil, fmt.Errorf("reports.SalesByVariant scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InventoryByCategory valor del stock a costo agrupado por categoría.
func (r *ReportRepo) InventoryByCategory(ctx context.Context) ([]repository.CategoryValue, error) {
	const query = `
	SELECT COALESCE(c.name, 'Sin categoría')             AS category,
	       COALESCE(SUM(v.quantity * v.cost_price), 0)   AS value,
	       COALESCE(SUM(v.quantity), 0)::BIGINT          AS units
	FROM product_variants v
	JOIN products p        ON p.id = v.product_id
	LEFT JOIN categories c ON c.id = p.category_id
	GROUP BY COALESCE(c.name, 'Sin categoría')
	ORDER BY value DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.InventoryByCategory: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryValue
	for rows.Next() {
		var c repository.CategoryValue
		if err := rows.Scan(&c.CategoryName, &c.Value, &c.Units); err != nil {
			return nil, fmt.Errorf("reports.InventoryByCategory scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CustomerPurchases salidas asociadas al cliente, más recientes primero.
func (r *ReportRepo) CustomerPurchases(ctx context.Context, customerID string) ([]repository.CustomerPurchase, error) {
	if !validID(customerID) {
		return nil, nil
	}
	const query = `
	SELECT m.id, v.id, p.name, v.attribute, m.quantity, v.sale_price, v.cost_price, m.date
	FROM stock_movements m
	JOIN product_variants v ON v.id = m.variant_id
	JOIN products p         ON p.id = v.product_id
	WHERE m.type = 'EXIT' AND m.customer_id = $1
	ORDER BY m.date DESC`

	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("reports.CustomerPurchases: %w", err)
	}
	defer rows.Close()
	var out []repository.CustomerPurchase
	for rows.Next() {
		var c repository.CustomerPurchase
		if err := rows.Scan(&c.MovementID, &c.VariantID, &c.ProductName, &c.Attribute, &c.Quantity, &c.UnitPrice, &c.UnitCost, &c.Date); err != nil {
			return nil, fmt.Errorf("reports.CustomerPurchases scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopCustomersBySpend clientes con mayor gasto (> 0) en el período.
func (r *ReportRepo) TopCustomersBySpend(ctx context.Context, from, to *time.Time, limit int) ([]repository.CustomerRank, error) {
	return r.rank(ctx, from, to, "HAVING SUM(m.quantity * v.sale_price) > 0 ORDER BY total_spent DESC, c.name", limit)
}

// TopCustomersByFrequency clientes con más días distintos de compra en el período.
func (r *ReportRepo) TopCustomersByFrequency(ctx context.Context, from, to *time.Time, limit int) ([]repository.CustomerRank, error) {
	return r.rank(ctx, from, to, "ORDER BY purchase_days DESC, c.name", limit)
}

func (r *ReportRepo) rank(ctx context.Context, from, to *time.Time, tail string, limit int) ([]repository.CustomerRank, error) {
	var a argList
	query := `
	SELECT c.id, c.name,
	       SUM(m.quantity * v.sale_price)      AS total_spent,
	       COUNT(DISTINCT m.date::DATE)        AS purchase_days,
	       COUNT(*)                            AS purchase_count
	FROM stock_movements m
	JOIN customers c        ON c.id = m.customer_id
	JOIN product_variants v ON v.id = m.variant_id` + exitsWhere(&a, from, to) + `
	GROUP BY c.id, c.name
	` + tail + a.limitOffset(limit, 0)

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("reports.rankCustomers: %w", err)
	}
	defer rows.Close()
	var out []repository.CustomerRank
	for rows.Next() {
		var c repository.CustomerRank
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.TotalSpent, &c.PurchaseDays, &c.PurchaseCount); err != nil {
			return nil, fmt.Errorf("reports.rankCustomers scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
