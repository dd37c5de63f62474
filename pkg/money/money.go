// Package money formatea importes para exportaciones (PDF, Excel) según el locale.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale locale usado cuando no se indica otro.
const DefaultLocale = "es-CO"

// Formatter formatea montos en pesos sin decimales con separador de miles del locale.
type Formatter struct {
	p *message.Printer
}

// New crea un formatter para el locale BCP 47 indicado; si no se reconoce usa DefaultLocale.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Format devuelve "$1.234.567" (o "-$1.234" si es negativo), redondeando al peso.
func (f *Formatter) Format(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-$" + f.p.Sprintf("%d", -n)
	}
	return "$" + f.p.Sprintf("%d", n)
}

// Int formatea un entero con separador de miles.
func (f *Formatter) Int(n int64) string {
	return f.p.Sprintf("%d", n)
}
