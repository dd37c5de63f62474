package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/auth"
	"github.com/jhoicas/suestoque-api/internal/application/catalog"
	"github.com/jhoicas/suestoque-api/internal/application/crm"
	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/pos"
	"github.com/jhoicas/suestoque-api/internal/application/purchasing"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/suestoque-api/internal/interfaces/http"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/suestoque-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app   *fiber.App
	store *memstore.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := memstore.New()
	exporter := xlsx.NewExporter()

	authUC := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	reportUC := reports.NewReportUseCase(s.Reports(), s.Variants(), pdf.NewSalesReportPDF("Tienda", nil), exporter)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		LedgerUC:     inventory.NewLedgerUseCase(s, s.Movements(), nil),
		ProjectorUC:  inventory.NewProjectorUseCase(s, s.Variants(), nil, nil),
		ReorderUC:    inventory.NewReorderUseCase(s.Reorder(), inventory.ReorderConfig{}, exporter),
		CheckoutUC:   pos.NewCheckoutUseCase(s, s.Variants(), s.Customers(), nil),
		PurchasingUC: purchasing.NewPurchaseOrderUseCase(s, s.Orders(), s.Suppliers(), nil, nil),
		CustomerUC:   crm.NewCustomerUseCase(s.Customers(), s.Reports()),
		ReportUC:     reportUC,
		ProductUC:    catalog.NewProductUseCase(s.Products(), s.Variants(), s.Categories(), s.Suppliers()),
		SupplierUC:   catalog.NewSupplierUseCase(s.Suppliers(), s.Categories()),
		JWTSecret:    testJWTSecret,
	})
	return &apiFixture{app: app, store: s}
}

func (f *apiFixture) call(t *testing.T, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Punto de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_StockInsuficienteRetorna409ConDetalle(t *testing.T) {
	f := newAPI(t)
	camiseta := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", Attribute: "M", Price: decimal.NewFromInt(50), OnHand: 5})
	gorra := f.store.AddVariant(memstore.VariantSeed{Product: "Gorra", Price: decimal.NewFromInt(20), OnHand: 1})

	resp := f.call(t, http.MethodPost, "/api/pos/checkout", entity.RoleVendedor, dto.CheckoutRequest{
		Lines: []dto.CheckoutLine{{VariantID: camiseta.ID, Quantity: 2}, {VariantID: gorra.ID, Quantity: 3}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Code    string                           `json:"code"`
		Details apphttp.InsufficientStockDetails `json:"details"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, gorra.ID, body.Details.VariantID)
	assert.Equal(t, int64(1), body.Details.Available)

	// Ninguna línea se descontó.
	assert.Equal(t, int64(5), f.store.Quantity(camiseta.ID))
	assert.Equal(t, int64(1), f.store.Quantity(gorra.ID))
}

func TestCheckout_VentaCompleta(t *testing.T) {
	f := newAPI(t)
	v := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", Attribute: "M", Price: decimal.NewFromInt(50), OnHand: 5})

	resp := f.call(t, http.MethodPost, "/api/pos/checkout", entity.RoleVendedor, dto.CheckoutRequest{
		Lines: []dto.CheckoutLine{{VariantID: v.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale dto.SaleResponse
	decode(t, resp, &sale)
	assert.True(t, decimal.NewFromInt(100).Equal(sale.Total))
	assert.Equal(t, int64(2), sale.ItemCount)
	assert.Equal(t, int64(3), f.store.Quantity(v.ID))
}

func TestCheckout_CarritoVacioRetorna400(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodPost, "/api/pos/checkout", entity.RoleAdmin, dto.CheckoutRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SegundaRecepcionEsAdvertencia(t *testing.T) {
	f := newAPI(t)
	sup := f.store.AddSupplier("Textiles SA", nil)
	v := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", Cost: decimal.NewFromInt(20), SupplierID: &sup.ID})

	resp := f.call(t, http.MethodPost, "/api/purchase-orders", entity.RoleBodeguero, dto.CreatePurchaseOrderRequest{
		SupplierID: sup.ID,
		Lines:      []dto.PurchaseOrderLineInput{{VariantID: v.ID, Quantity: 10}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.PurchaseOrderResponse
	decode(t, resp, &order)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/"+order.ID+"/receive", entity.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var received dto.PurchaseOrderResponse
	decode(t, resp, &received)
	assert.Equal(t, entity.POStatusReceived, received.Status)
	assert.Equal(t, int64(10), f.store.Quantity(v.ID))

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/"+order.ID+"/receive", entity.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var warning dto.WarningResponse
	decode(t, resp, &warning)
	assert.Equal(t, "warning", warning.Status)
	assert.Equal(t, "ALREADY_PROCESSED", warning.Code)
	assert.Equal(t, int64(10), f.store.Quantity(v.ID), "la segunda recepción no crea entradas")
}

func TestGetOrden_Inexistente404(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/purchase-orders/00000000-0000-0000-0000-00000000dead", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIDMalformado_Retorna404(t *testing.T) {
	f := newAPI(t)
	cases := []struct {
		method, path, role string
		body               interface{}
	}{
		{http.MethodGet, "/api/purchase-orders/xyz", entity.RoleAdmin, nil},
		{http.MethodPost, "/api/purchase-orders/xyz/receive", entity.RoleBodeguero, nil},
		{http.MethodGet, "/api/customers/no-es-uuid", entity.RoleVendedor, nil},
		{http.MethodDelete, "/api/inventory/movements/123", entity.RoleAdmin, nil},
		{http.MethodPost, "/api/pos/checkout", entity.RoleVendedor, dto.CheckoutRequest{
			Lines: []dto.CheckoutLine{{VariantID: "abc", Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := f.call(t, tc.method, tc.path, tc.role, tc.body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_AltaYBorrado(t *testing.T) {
	f := newAPI(t)
	v := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 4})

	resp := f.call(t, http.MethodPost, "/api/inventory/movements", entity.RoleBodeguero, dto.CommitMovementRequest{
		VariantID: v.ID, Type: "entry", Quantity: 6, Reason: "Compra local",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov dto.MovementResponse
	decode(t, resp, &mov)
	require.NotNil(t, mov.OnHandAfter)
	assert.Equal(t, int64(10), *mov.OnHandAfter)

	resp = f.call(t, http.MethodDelete, "/api/inventory/movements/"+mov.ID, entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]int64
	decode(t, resp, &out)
	assert.Equal(t, int64(4), out["on_hand"])
}

func TestMovements_CantidadInvalidaRetorna400(t *testing.T) {
	f := newAPI(t)
	v := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 4})

	resp := f.call(t, http.MethodPost, "/api/inventory/movements", entity.RoleBodeguero, dto.CommitMovementRequest{
		VariantID: v.ID, Type: "EXIT", Quantity: 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_FechaInvalidaRetorna400(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/inventory/movements?from=ayer", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecalculate_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	v := f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 4})
	f.store.ForceQuantity(v.ID, 9)

	resp := f.call(t, http.MethodPost, "/api/inventory/recalculate", entity.RoleVendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/inventory/recalculate", entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.RepairReportDTO
	decode(t, resp, &report)
	assert.Equal(t, 1, report.Corrected)
	assert.Equal(t, int64(4), f.store.Quantity(v.ID))
}

func TestReorderXLSX_Descarga(t *testing.T) {
	f := newAPI(t)
	f.store.AddVariant(memstore.VariantSeed{Product: "Camiseta", OnHand: 1, MinStock: 5, IdealStock: 10})

	resp := f.call(t, http.MethodGet, "/api/inventory/reorder.xlsx", entity.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "un XLSX es un zip")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes, reportes y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomers_RankingsNoSeConfundeConID(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/customers/rankings", entity.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CustomerRankingsResponse
	decode(t, resp, &out)
	assert.Empty(t, out.BySpend)
}

func TestReports_PDF(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/reports/sales.pdf?period=month", entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = f.call(t, http.MethodGet, "/api/reports/sales?period=year", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/reports/dashboard", entity.RoleBodeguero, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_TokenUtilizable(t *testing.T) {
	f := newAPI(t)
	s := f.store
	authUC := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := authUC.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "caja@tienda.co", Password: "secreto123", Role: entity.RoleVendedor,
	})
	require.NoError(t, err)

	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@tienda.co", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)

	userID, role, err := pkgjwt.Parse(testJWTSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, userID)
	assert.Equal(t, entity.RoleVendedor, role)

	resp = f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@tienda.co", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutaProtegida_SinToken401(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/variants", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
