// Package metrics expone métricas Prometheus del negocio y de la capa HTTP.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/ports"
)

const namespace = "suestoque"

var _ ports.StockMetrics = (*Metrics)(nil)

// Metrics agrupa los colectores en un registro propio (no el global),
// así cada instancia se puede crear varias veces en tests.
type Metrics struct {
	registry *prometheus.Registry

	salesTotal     prometheus.Counter
	salesRevenue   prometheus.Counter
	unitsSold      prometheus.Counter
	stockRejected  *prometheus.CounterVec
	ordersReceived prometheus.Counter
	orderLines     prometheus.Counter
	driftCorrected prometheus.Counter

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registra todos los colectores. withRuntime añade los colectores de Go y del proceso.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		salesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pos_sales_total",
			Help: "Ventas confirmadas en el punto de venta",
		}),
		salesRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pos_revenue_total",
			Help: "Ingresos acumulados por ventas del punto de venta",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pos_units_sold_total",
			Help: "Unidades vendidas en el punto de venta",
		}),
		stockRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_rejections_total",
			Help: "Operaciones rechazadas por stock insuficiente",
		}, []string{"operation"}),
		ordersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "purchase_orders_received_total",
			Help: "Órdenes de compra recibidas",
		}),
		orderLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "purchase_order_lines_received_total",
			Help: "Líneas de órdenes de compra recibidas",
		}),
		driftCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_drift_corrected_total",
			Help: "Variantes corregidas por el recálculo masivo",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Total de peticiones HTTP",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.salesTotal, m.salesRevenue, m.unitsSold, m.stockRejected,
		m.ordersReceived, m.orderLines, m.driftCorrected,
		m.requests, m.duration,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry registro de colectores (útil para tests y para el CLI).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ── ports.StockMetrics ────────────────────────────────────────────────────────

func (m *Metrics) SaleCompleted(total decimal.Decimal, units int64) {
	m.salesTotal.Inc()
	m.salesRevenue.Add(total.InexactFloat64())
	m.unitsSold.Add(float64(units))
}

func (m *Metrics) StockRejected(operation string) {
	m.stockRejected.WithLabelValues(operation).Inc()
}

func (m *Metrics) OrderReceived(lines int) {
	m.ordersReceived.Inc()
	m.orderLines.Add(float64(lines))
}

func (m *Metrics) DriftCorrected(n int) {
	if n > 0 {
		m.driftCorrected.Add(float64(n))
	}
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

// Middleware registra conteo y duración por método, ruta (patrón) y status.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		m.requests.WithLabelValues(labels...).Inc()
		m.duration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler handler HTTP estándar del registro.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// FiberHandler expone /metrics en Fiber.
func (m *Metrics) FiberHandler() fiber.Handler {
	return adaptor.HTTPHandler(m.Handler())
}
