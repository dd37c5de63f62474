package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSelection variante y cantidad elegidas para generar órdenes.
type OrderSelection struct {
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

// GenerateOrdersRequest body para POST /api/purchase-orders/generate.
type GenerateOrdersRequest struct {
	Selections []OrderSelection `json:"selections" validate:"required,min=1"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders (creación manual).
type CreatePurchaseOrderRequest struct {
	SupplierID string                   `json:"supplier_id" validate:"required,uuid"`
	Notes      string                   `json:"notes,omitempty"`
	Lines      []PurchaseOrderLineInput `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineInput línea manual; UnitCost nil = costo actual de la variante.
type PurchaseOrderLineInput struct {
	VariantID string           `json:"variant_id"`
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// PurchaseOrderLineDTO salida de una línea.
type PurchaseOrderLineDTO struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Label     string          `json:"label,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID           string                 `json:"id"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	Status       string                 `json:"status"`
	Notes        string                 `json:"notes,omitempty"`
	Total        decimal.Decimal        `json:"total"`
	CreatedAt    time.Time              `json:"created_at"`
	SentAt       *time.Time             `json:"sent_at,omitempty"`
	ReceivedAt   *time.Time             `json:"received_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
	Lines        []PurchaseOrderLineDTO `json:"lines"`
}

// SkippedSelection selección descartada al generar órdenes.
type SkippedSelection struct {
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
}

// GenerateOrdersResponse órdenes creadas y selecciones descartadas.
type GenerateOrdersResponse struct {
	Orders  []PurchaseOrderResponse `json:"orders"`
	Skipped []SkippedSelection      `json:"skipped"`
}
