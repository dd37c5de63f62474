package entity

import "time"

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeEntry      = "ENTRY"      // entrada (compra, devolución)
	MovementTypeExit       = "EXIT"       // salida (venta)
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste con signo (conteo físico, merma)
)

// IsValidMovementType indica si t es un tipo de movimiento reconocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement representa un evento del ledger sobre una variante.
// ENTRY y EXIT llevan cantidad positiva; ADJUSTMENT lleva cantidad con signo distinta de cero.
type StockMovement struct {
	ID              string
	VariantID       string
	Type            string
	Quantity        int64
	Reason          string
	CustomerID      *string
	PurchaseOrderID *string
	CreatedBy       string // UserID, vacío en procesos internos
	Date            time.Time

	// Campo de lectura
	VariantLabel string
}

// SignedQuantity contribución del movimiento al stock de la variante.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Type == MovementTypeExit {
		return -m.Quantity
	}
	return m.Quantity
}
