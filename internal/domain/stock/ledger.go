// Package stock contiene las reglas puras del libro de movimientos:
// saldo a partir de totales por tipo, estado de stock y punto de reorden.
package stock

// Totals agrupa las sumas de cantidades por tipo de movimiento de una variante.
// Entries y Exits se guardan siempre positivos; Adjustments ya trae su signo.
type Totals struct {
	Entries     int64
	Exits       int64
	Adjustments int64
}

// Balance devuelve el saldo en mano: entradas - salidas + ajustes.
func Balance(t Totals) int64 {
	return t.Entries - t.Exits + t.Adjustments
}

// Status clasificación del nivel de stock de una variante.
type Status string

const (
	StatusDanger  Status = "DANGER"  // por debajo del mínimo
	StatusWarning Status = "WARNING" // entre el mínimo y el ideal
	StatusOK      Status = "OK"
)

// Classify calcula el estado de stock.
func Classify(onHand, minStock, idealStock int64) Status {
	if onHand < minStock {
		return StatusDanger
	}
	if onHand <= idealStock {
		return StatusWarning
	}
	return StatusOK
}
