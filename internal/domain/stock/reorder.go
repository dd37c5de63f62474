package stock

import "github.com/shopspring/decimal"

// Valores por defecto del asesor de reposición.
const (
	DefaultWindowDays   = 30
	DefaultLeadTimeDays = 7
)

// ReorderInput datos de una variante para evaluar si hay que reponer.
type ReorderInput struct {
	OnHand        int64
	MinStock      int64
	IdealStock    int64
	ExitsInWindow int64 // unidades salidas dentro de la ventana
	WindowDays    int
	LeadTimeDays  int // 0 = usar DefaultLeadTimeDays
}

// ReorderResult resultado de la evaluación.
type ReorderResult struct {
	DailyVelocity decimal.Decimal
	LeadTimeDays  int
	ReorderPoint  decimal.Decimal
	Flagged       bool
	SuggestedQty  int64
	DaysRemaining *int64 // nil cuando la velocidad es cero (stock "infinito")
}

// EvaluateReorder aplica la fórmula:
//
//	v = salidas_ventana / dias_ventana
//	R = v * lead_time + stock_minimo
//	marcar si on_hand <= R; sugerido = max(0, ideal - on_hand)
func EvaluateReorder(in ReorderInput) ReorderResult {
	window := in.WindowDays
	if window <= 0 {
		window = DefaultWindowDays
	}
	lead := in.LeadTimeDays
	if lead <= 0 {
		lead = DefaultLeadTimeDays
	}

	velocity := decimal.NewFromInt(in.ExitsInWindow).Div(decimal.NewFromInt(int64(window)))
	reorderPoint := velocity.Mul(decimal.NewFromInt(int64(lead))).Add(decimal.NewFromInt(in.MinStock))
	onHand := decimal.NewFromInt(in.OnHand)

	res := ReorderResult{
		DailyVelocity: velocity,
		LeadTimeDays:  lead,
		ReorderPoint:  reorderPoint,
		Flagged:       onHand.LessThanOrEqual(reorderPoint),
	}
	if suggested := in.IdealStock - in.OnHand; suggested > 0 {
		res.SuggestedQty = suggested
	}
	if velocity.GreaterThan(decimal.Zero) {
		days := onHand.Div(velocity).Floor().IntPart()
		res.DaysRemaining = &days
	}
	return res
}
