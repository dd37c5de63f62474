package entity

import "time"

// Product representa un producto del catálogo. El stock vive en sus variantes.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  *string // nil = sin categoría
	SupplierID  *string // proveedor habitual; requerido para generar órdenes de compra
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
