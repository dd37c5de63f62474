package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

// ProductVariant representa una variante vendible de un producto (talla, color, etc.).
// Quantity es la proyección del ledger de movimientos: solo la escribe el recálculo.
type ProductVariant struct {
	ID         string
	ProductID  string
	Attribute  string // ej: "M / Azul"
	CostPrice  decimal.Decimal
	SalePrice  decimal.Decimal
	Quantity   int64
	MinStock   int64 // stock mínimo de seguridad
	IdealStock int64 // objetivo al reponer
	Barcode    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Campos de lectura (JOIN con products / suppliers)
	ProductName  string
	CategoryID   *string
	SupplierID   *string
	SupplierName string
}

// Label nombre legible de la variante: "Producto - Atributo".
func (v *ProductVariant) Label() string {
	if v.Attribute == "" {
		return v.ProductName
	}
	return v.ProductName + " - " + v.Attribute
}

// Status clasifica el stock actual contra el mínimo y el ideal.
func (v *ProductVariant) Status() stock.Status {
	return stock.Classify(v.Quantity, v.MinStock, v.IdealStock)
}

// InventoryValue valor del stock a precio de costo.
func (v *ProductVariant) InventoryValue() decimal.Decimal {
	return v.CostPrice.Mul(decimal.NewFromInt(v.Quantity))
}
