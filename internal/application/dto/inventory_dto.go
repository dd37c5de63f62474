package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommitMovementRequest body para POST /api/inventory/movements.
// ADJUSTMENT acepta cantidad negativa; ENTRY y EXIT exigen cantidad positiva.
type CommitMovementRequest struct {
	VariantID  string  `json:"variant_id" validate:"required,uuid"`
	Type       string  `json:"type" validate:"required,oneof=ENTRY EXIT ADJUSTMENT"`
	Quantity   int64   `json:"quantity"`
	Reason     string  `json:"reason,omitempty"`
	CustomerID *string `json:"customer_id,omitempty"`
}

// UpdateMovementRequest body para PATCH /api/inventory/movements/:id (el tipo no se puede cambiar).
type UpdateMovementRequest struct {
	Quantity *int64  `json:"quantity,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID              string    `json:"id"`
	VariantID       string    `json:"variant_id"`
	VariantLabel    string    `json:"variant_label,omitempty"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	Reason          string    `json:"reason"`
	CustomerID      *string   `json:"customer_id,omitempty"`
	PurchaseOrderID *string   `json:"purchase_order_id,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	Date            time.Time `json:"date"`
	OnHandAfter     *int64    `json:"on_hand_after,omitempty"` // stock de la variante tras la operación
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// RepairEntryDTO variante corregida por el recálculo masivo.
type RepairEntryDTO struct {
	VariantID string `json:"variant_id"`
	Label     string `json:"label"`
	Before    int64  `json:"before"`
	After     int64  `json:"after"`
}

// RepairReportDTO resultado de POST /api/inventory/recalculate.
type RepairReportDTO struct {
	DryRun    bool             `json:"dry_run"`
	Total     int              `json:"total"`
	Corrected int              `json:"corrected"`
	Entries   []RepairEntryDTO `json:"entries"`
	Negative  []RepairEntryDTO `json:"negative"` // ledger con saldo negativo: no se escribe, requiere revisión
}

// ReorderSuggestionDTO una fila del asesor de reposición.
type ReorderSuggestionDTO struct {
	VariantID     string          `json:"variant_id"`
	ProductName   string          `json:"product_name"`
	Attribute     string          `json:"attribute"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	OnHand        int64           `json:"on_hand"`
	MinStock      int64           `json:"min_stock"`
	IdealStock    int64           `json:"ideal_stock"`
	ExitsInWindow int64           `json:"exits_in_window"`
	DailyVelocity decimal.Decimal `json:"daily_velocity"`
	LeadTimeDays  int             `json:"lead_time_days"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	SuggestedQty  int64           `json:"suggested_qty"`
	DaysRemaining *int64          `json:"days_remaining"` // null = sin ventas en la ventana
	EstimatedCost decimal.Decimal `json:"estimated_cost"` // SuggestedQty * costo
}

// ReorderReportDTO respuesta de GET /api/inventory/reorder.
type ReorderReportDTO struct {
	WindowDays  int                    `json:"window_days"`
	GeneratedAt time.Time              `json:"generated_at"`
	Items       []ReorderSuggestionDTO `json:"items"`
}

// StockAlertDTO variante en estado DANGER (feed de notificaciones).
type StockAlertDTO struct {
	VariantID string `json:"variant_id"`
	Label     string `json:"label"`
	OnHand    int64  `json:"on_hand"`
	MinStock  int64  `json:"min_stock"`
	Message   string `json:"message"`
}
