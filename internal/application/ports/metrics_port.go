package ports

import "github.com/shopspring/decimal"

// StockMetrics puerto de salida para métricas de negocio del inventario.
// La aplicación solo conoce este contrato; el adaptador Prometheus vive en infraestructura.
type StockMetrics interface {
	// SaleCompleted registra una venta confirmada del PDV.
	SaleCompleted(total decimal.Decimal, units int64)
	// StockRejected registra una operación rechazada por stock insuficiente.
	StockRejected(operation string)
	// OrderReceived registra la recepción de una orden de compra con n líneas.
	OrderReceived(lines int)
	// DriftCorrected registra variantes corregidas por el recálculo masivo.
	DriftCorrected(n int)
}

// NopMetrics implementación vacía para pruebas o cuando las métricas están desactivadas.
type NopMetrics struct{}

func (NopMetrics) SaleCompleted(decimal.Decimal, int64) {}
func (NopMetrics) StockRejected(string)                 {}
func (NopMetrics) OrderReceived(int)                    {}
func (NopMetrics) DriftCorrected(int)                   {}
