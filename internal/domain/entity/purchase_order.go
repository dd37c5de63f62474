package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusPending   = "PENDING"
	POStatusSent      = "SENT"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder cabecera de una orden de compra a un proveedor.
type PurchaseOrder struct {
	ID          string
	SupplierID  string
	Status      string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	SentAt      *time.Time
	ReceivedAt  *time.Time
	CancelledAt *time.Time
	Lines       []*PurchaseOrderLine

	// Campo de lectura
	SupplierName string
}

// IsOpen indica si la orden aún no ha llegado (pendiente o enviada).
func (o *PurchaseOrder) IsOpen() bool {
	return o.Status == POStatusPending || o.Status == POStatusSent
}

// IsTerminal indica si la orden ya fue recibida o cancelada.
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == POStatusReceived || o.Status == POStatusCancelled
}

// Total suma de los subtotales de las líneas.
func (o *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// PurchaseOrderLine línea de una orden; UnitCost queda congelado al crear la orden.
type PurchaseOrderLine struct {
	ID        string
	OrderID   string
	VariantID string
	Quantity  int64
	UnitCost  decimal.Decimal

	// Campo de lectura
	VariantLabel string
}

// Subtotal cantidad por costo unitario.
func (l *PurchaseOrderLine) Subtotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
}
