package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

func TestBalance_EntradasMenosSalidasMasAjustes(t *testing.T) {
	got := stock.Balance(stock.Totals{Entries: 50, Exits: 12, Adjustments: -3})
	assert.Equal(t, int64(35), got)

	assert.Equal(t, int64(0), stock.Balance(stock.Totals{}))
	assert.Equal(t, int64(4), stock.Balance(stock.Totals{Adjustments: 4}))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name                  string
		onHand, minimo, ideal int64
		want                  stock.Status
	}{
		{"bajo el mínimo", 2, 5, 20, stock.StatusDanger},
		{"igual al mínimo", 5, 5, 20, stock.StatusWarning},
		{"igual al ideal", 20, 5, 20, stock.StatusWarning},
		{"sobre el ideal", 21, 5, 20, stock.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.Classify(tc.onHand, tc.minimo, tc.ideal))
		})
	}
}

// Variante sin stock, mínimo 5, velocidad 1/día, lead time 10 → punto de reorden 15.
func TestEvaluateReorder_CasoDeReferencia(t *testing.T) {
	res := stock.EvaluateReorder(stock.ReorderInput{
		OnHand:        0,
		MinStock:      5,
		IdealStock:    40,
		ExitsInWindow: 30,
		WindowDays:    30,
		LeadTimeDays:  10,
	})

	assert.True(t, res.DailyVelocity.Equal(decimal.NewFromInt(1)))
	assert.True(t, res.ReorderPoint.Equal(decimal.NewFromInt(15)), "R = %s", res.ReorderPoint)
	assert.True(t, res.Flagged)
	assert.Equal(t, int64(40), res.SuggestedQty)
	require.NotNil(t, res.DaysRemaining)
	assert.Equal(t, int64(0), *res.DaysRemaining)
}

func TestEvaluateReorder_SinVentasDiasRestantesIndefinidos(t *testing.T) {
	res := stock.EvaluateReorder(stock.ReorderInput{OnHand: 3, MinStock: 5, IdealStock: 10, WindowDays: 30})

	assert.True(t, res.DailyVelocity.IsZero())
	assert.Nil(t, res.DaysRemaining, "con velocidad cero no hay días restantes calculables")
	assert.Equal(t, stock.DefaultLeadTimeDays, res.LeadTimeDays)
	assert.True(t, res.Flagged, "3 <= 5 debe marcarse")
	assert.Equal(t, int64(7), res.SuggestedQty)
}

func TestEvaluateReorder_SobreElPuntoNoSeMarca(t *testing.T) {
	res := stock.EvaluateReorder(stock.ReorderInput{
		OnHand: 100, MinStock: 5, IdealStock: 50, ExitsInWindow: 60, WindowDays: 30, LeadTimeDays: 7,
	})

	// v = 2, R = 2*7 + 5 = 19
	assert.True(t, res.ReorderPoint.Equal(decimal.NewFromInt(19)))
	assert.False(t, res.Flagged)
	assert.Equal(t, int64(0), res.SuggestedQty, "sugerido nunca es negativo")
	require.NotNil(t, res.DaysRemaining)
	assert.Equal(t, int64(50), *res.DaysRemaining)
}
