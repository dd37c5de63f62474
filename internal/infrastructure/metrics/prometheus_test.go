package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/infrastructure/metrics"
)

func TestStockMetrics(t *testing.T) {
	m := metrics.New(false)

	m.SaleCompleted(decimal.NewFromInt(150), 3)
	m.SaleCompleted(decimal.NewFromInt(50), 1)
	m.StockRejected("checkout")
	m.OrderReceived(4)
	m.DriftCorrected(2)
	m.DriftCorrected(0)

	expected := `
# HELP suestoque_pos_units_sold_total Unidades vendidas en el punto de venta
# TYPE suestoque_pos_units_sold_total counter
suestoque_pos_units_sold_total 4
# HELP suestoque_stock_drift_corrected_total Variantes corregidas por el recálculo masivo
# TYPE suestoque_stock_drift_corrected_total counter
suestoque_stock_drift_corrected_total 2
# HELP suestoque_stock_rejections_total Operaciones rechazadas por stock insuficiente
# TYPE suestoque_stock_rejections_total counter
suestoque_stock_rejections_total{operation="checkout"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"suestoque_pos_units_sold_total",
		"suestoque_stock_drift_corrected_total",
		"suestoque_stock_rejections_total",
	)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Registry(), "suestoque_purchase_order_lines_received_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMiddlewareYEndpoint(t *testing.T) {
	m := metrics.New(false)
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.FiberHandler())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping/7", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `suestoque_http_requests_total{method="GET",path="/ping/:id",status="200"} 1`)
}
