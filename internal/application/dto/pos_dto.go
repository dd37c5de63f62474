package dto

import "github.com/shopspring/decimal"

// CheckoutLine una línea del carrito.
type CheckoutLine struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest body para POST /api/pos/checkout.
type CheckoutRequest struct {
	Lines      []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
	CustomerID *string        `json:"customer_id,omitempty"`
}

// SaleLineDTO línea vendida.
type SaleLineDTO struct {
	MovementID string          `json:"movement_id"`
	VariantID  string          `json:"variant_id"`
	Label      string          `json:"label"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	OnHand     int64           `json:"on_hand"` // stock restante
}

// SaleResponse resultado de la venta.
type SaleResponse struct {
	Lines       []SaleLineDTO   `json:"lines"`
	MovementIDs []string        `json:"movement_ids"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int64           `json:"item_count"`
	CustomerID  *string         `json:"customer_id,omitempty"`
}

// POSVariantDTO resultado de la búsqueda de variantes del PDV.
type POSVariantDTO struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	SalePrice decimal.Decimal `json:"sale_price"`
	OnHand    int64           `json:"on_hand"`
	Barcode   *string         `json:"barcode,omitempty"`
}
