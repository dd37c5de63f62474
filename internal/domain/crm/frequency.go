// Package crm reglas de dominio para la relación con clientes.
package crm

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PurchaseFrequencyDays devuelve el intervalo promedio en días entre compras,
// considerando días de compra distintos. ok es false si hay menos de dos días distintos.
func PurchaseFrequencyDays(purchases []time.Time) (days float64, ok bool) {
	seen := make(map[string]time.Time)
	for _, p := range purchases {
		d := time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, time.UTC)
		seen[d.Format("2006-01-02")] = d
	}
	if len(seen) < 2 {
		return 0, false
	}
	distinct := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		distinct = append(distinct, d)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].Before(distinct[j]) })

	span := distinct[len(distinct)-1].Sub(distinct[0]).Hours() / 24
	return span / float64(len(distinct)-1), true
}

// FrequencyLabel traduce el intervalo promedio en días a un texto legible.
func FrequencyLabel(days float64) string {
	d := int(math.Round(days))
	switch {
	case d == 0:
		return "Varias veces al día"
	case d == 1:
		return "Diariamente"
	case d >= 6 && d <= 8:
		return "Semanalmente"
	case d >= 14 && d <= 16:
		return "Quincenalmente"
	case d >= 28 && d <= 32:
		return "Mensualmente"
	case d >= 58 && d <= 62:
		return "Bimestralmente"
	case d >= 88 && d <= 92:
		return "Trimestralmente"
	case d > 32:
		if months := int(math.Round(float64(d) / 30)); months > 1 {
			return fmt.Sprintf("Cada %d meses", months)
		}
		return fmt.Sprintf("Cada %d días", d)
	default:
		return fmt.Sprintf("Cada %d días", d)
	}
}
