package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Los ingresos de una salida se valoran a precio de venta actual de la variante
// y el costo a su precio de costo actual.

// SalesTotals agregados de ventas (movimientos EXIT) en un período.
type SalesTotals struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Units   int64
}

// Profit ingresos menos costo.
func (s SalesTotals) Profit() decimal.Decimal { return s.Revenue.Sub(s.Cost) }

// VariantSales ventas agregadas de una variante.
type VariantSales struct {
	VariantID   string
	ProductName string
	Attribute   string
	Units       int64
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
}

// Profit ingresos menos costo.
func (v VariantSales) Profit() decimal.Decimal { return v.Revenue.Sub(v.Cost) }

// CategoryValue valor de inventario de una categoría ("Sin categoría" si no tiene).
type CategoryValue struct {
	CategoryName string
	Value        decimal.Decimal
	Units        int64
}

// CustomerPurchase una salida asociada a un cliente.
type CustomerPurchase struct {
	MovementID  string
	VariantID   string
	ProductName string
	Attribute   string
	Quantity    int64
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Date        time.Time
}

// CustomerRank fila de ranking de clientes.
type CustomerRank struct {
	CustomerID    string
	Name          string
	TotalSpent    decimal.Decimal
	PurchaseDays  int64 // días distintos con compras
	PurchaseCount int64
}

// ReportRepository consultas de lectura para dashboard, reportes y CRM.
type ReportRepository interface {
	// SalesTotals sin límites si from/to son nil.
	SalesTotals(ctx context.Context, from, to *time.Time) (SalesTotals, error)
	// SalesByVariant ordenado por ingresos descendente.
	SalesByVariant(ctx context.Context, from, to *time.Time) ([]VariantSales, error)
	InventoryByCategory(ctx context.Context) ([]CategoryValue, error)
	CustomerPurchases(ctx context.Context, customerID string) ([]CustomerPurchase, error)
	TopCustomersBySpend(ctx context.Context, from, to *time.Time, limit int) ([]CustomerRank, error)
	TopCustomersByFrequency(ctx context.Context, from, to *time.Time, limit int) ([]CustomerRank, error)
}
