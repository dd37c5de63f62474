package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id,omitempty"`
	SupplierID  *string `json:"supplier_id,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	SupplierID  *string `json:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id,omitempty"`
	SupplierID  *string   `json:"supplier_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateVariantRequest entrada para crear una variante. La cantidad nace en cero:
// el stock inicial se registra como movimiento ENTRY.
type CreateVariantRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	Attribute  string          `json:"attribute"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	MinStock   int64           `json:"min_stock"`
	IdealStock int64           `json:"ideal_stock"`
	Barcode    *string         `json:"barcode,omitempty"`
}

// UpdateVariantRequest entrada para actualizar una variante (sin cantidad).
type UpdateVariantRequest struct {
	Attribute  *string          `json:"attribute"`
	CostPrice  *decimal.Decimal `json:"cost_price"`
	SalePrice  *decimal.Decimal `json:"sale_price"`
	MinStock   *int64           `json:"min_stock"`
	IdealStock *int64           `json:"ideal_stock"`
	Barcode    *string          `json:"barcode"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Attribute      string          `json:"attribute"`
	Label          string          `json:"label"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Quantity       int64           `json:"quantity"`
	MinStock       int64           `json:"min_stock"`
	IdealStock     int64           `json:"ideal_stock"`
	Barcode        *string         `json:"barcode,omitempty"`
	Status         string          `json:"status"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// VariantListResponse lista paginada de variantes.
type VariantListResponse struct {
	Items []VariantResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	LeadTimeDays *int   `json:"lead_time_days,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	LeadTimeDays *int      `json:"lead_time_days"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryRequest entrada para crear una categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
