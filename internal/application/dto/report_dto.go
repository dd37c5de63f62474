package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodMetricsDTO ventas de un período.
type PeriodMetricsDTO struct {
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Units   int64           `json:"units"`
}

// VariantSalesDTO ventas agregadas de una variante.
type VariantSalesDTO struct {
	VariantID string          `json:"variant_id"`
	Label     string          `json:"label"`
	Units     int64           `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}

// CategoryValueDTO valor de inventario por categoría.
type CategoryValueDTO struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
	Units    int64           `json:"units"`
}

// DashboardResponse respuesta de GET /api/reports/dashboard.
type DashboardResponse struct {
	VariantCount       int                `json:"variant_count"`
	DangerCount        int                `json:"danger_count"`
	InventoryValue     decimal.Decimal    `json:"inventory_value"`
	TotalRevenue       decimal.Decimal    `json:"total_revenue"`
	TotalProfit        decimal.Decimal    `json:"total_profit"`
	Today              PeriodMetricsDTO   `json:"today"`
	Week               PeriodMetricsDTO   `json:"week"`
	Month              PeriodMetricsDTO   `json:"month"`
	TopProfit          []VariantSalesDTO  `json:"top_profit"`
	BottomProfit       []VariantSalesDTO  `json:"bottom_profit"`
	TopSellers         []VariantSalesDTO  `json:"top_sellers"`
	ValueByCategory    []CategoryValueDTO `json:"value_by_category"`
	StatusDistribution map[string]int     `json:"status_distribution"`
}

// SalesReportResponse respuesta de GET /api/reports/sales.
type SalesReportResponse struct {
	Period       string            `json:"period,omitempty"`
	From         *time.Time        `json:"from,omitempty"`
	To           *time.Time        `json:"to,omitempty"`
	Items        []VariantSalesDTO `json:"items"`
	TotalUnits   int64             `json:"total_units"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalProfit  decimal.Decimal   `json:"total_profit"`
}
