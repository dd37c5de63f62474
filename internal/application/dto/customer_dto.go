package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Document string `json:"document"`
}

// UpdateCustomerRequest entrada para actualizar un cliente.
type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Document *string `json:"document"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Document  string    `json:"document,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CustomerPurchaseDTO una compra del cliente.
type CustomerPurchaseDTO struct {
	MovementID string          `json:"movement_id"`
	VariantID  string          `json:"variant_id"`
	Label      string          `json:"label"`
	Quantity   int64           `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
	Date       time.Time       `json:"date"`
}

// FavoriteVariantDTO variante más comprada por el cliente.
type FavoriteVariantDTO struct {
	VariantID string `json:"variant_id"`
	Label     string `json:"label"`
	Quantity  int64  `json:"quantity"`
}

// CustomerDetailResponse ficha CRM del cliente.
type CustomerDetailResponse struct {
	Customer       CustomerResponse      `json:"customer"`
	Purchases      []CustomerPurchaseDTO `json:"purchases"`
	TotalSpent     decimal.Decimal       `json:"total_spent"`
	TotalProfit    decimal.Decimal       `json:"total_profit"`
	PurchaseCount  int                   `json:"purchase_count"`
	AverageTicket  decimal.Decimal       `json:"average_ticket"`
	FrequencyDays  *float64              `json:"frequency_days"`
	FrequencyLabel string                `json:"frequency_label"`
	Favorites      []FavoriteVariantDTO  `json:"favorites"`
}

// CustomerRankDTO fila de ranking.
type CustomerRankDTO struct {
	CustomerID    string          `json:"customer_id"`
	Name          string          `json:"name"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	PurchaseDays  int64           `json:"purchase_days"`
	PurchaseCount int64           `json:"purchase_count"`
}

// CustomerRankingsResponse top 10 por gasto y por frecuencia.
type CustomerRankingsResponse struct {
	BySpend     []CustomerRankDTO `json:"by_spend"`
	ByFrequency []CustomerRankDTO `json:"by_frequency"`
}
