package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReorderCandidate resultado crudo de una variante candidata a reposición.
// Ya excluye variantes con una orden de compra abierta (PENDING o SENT).
type ReorderCandidate struct {
	VariantID     string
	ProductName   string
	Attribute     string
	OnHand        int64
	MinStock      int64
	IdealStock    int64
	CostPrice     decimal.Decimal
	SupplierID    *string
	SupplierName  string
	LeadTimeDays  *int
	ExitsInWindow int64 // unidades salidas desde `since`
}

// ReorderRepository consultas de lectura del asesor de reposición.
type ReorderRepository interface {
	ListReorderCandidates(ctx context.Context, since time.Time) ([]ReorderCandidate, error)
}
