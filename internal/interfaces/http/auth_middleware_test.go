package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	apphttp "github.com/jhoicas/suestoque-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/suestoque-api/pkg/jwt"
)

const (
	mwSecret = "middleware-test-secret"
	mwUserID = "7f1c2a52-0000-4000-8000-00000000beef"

	// Usados por router_test: la API completa se firma con este secreto.
	testJWTSecret = "router-test-secret"
	testIssuer    = "suestoque-test"
	testExpMin    = 60
	testUserID    = "00000000-0000-4000-8000-000000000001"
)

// tokenForRole cabecera Authorization firmada con testJWTSecret para el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// rbacApp expone una ruta por grupo de roles usado en el router.
func rbacApp() *fiber.App {
	app := fiber.New()
	guard := apphttp.AuthMiddleware(mwSecret)
	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
	}
	app.Get("/stock", guard, apphttp.RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ok)
	app.Get("/sales", guard, apphttp.RequireRole(entity.RoleAdmin, entity.RoleVendedor), ok)
	app.Get("/admin", guard, apphttp.RequireRole(entity.RoleAdmin), ok)
	return app
}

func bearer(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, role, "suestoque-test", expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, auth string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_Matriz(t *testing.T) {
	app := rbacApp()
	cases := []struct {
		path string
		role string
		want int
	}{
		{"/stock", entity.RoleAdmin, http.StatusOK},
		{"/stock", entity.RoleBodeguero, http.StatusOK},
		{"/stock", entity.RoleVendedor, http.StatusForbidden},
		{"/sales", entity.RoleVendedor, http.StatusOK},
		{"/sales", entity.RoleBodeguero, http.StatusForbidden},
		{"/admin", entity.RoleAdmin, http.StatusOK},
		{"/admin", entity.RoleBodeguero, http.StatusForbidden},
		{"/admin", entity.RoleVendedor, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role+tc.path, func(t *testing.T) {
			resp, body := get(t, app, tc.path, bearer(t, tc.role, 30))
			assert.Equal(t, tc.want, resp.StatusCode, body)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN")
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Token ausente o inválido
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := rbacApp()
	cases := map[string]string{
		"sin header":   "",
		"sin bearer":   "Token abc",
		"malformado":   "Bearer no.es.jwt",
		"expirado":     bearer(t, entity.RoleAdmin, -1),
		"otro secreto": "Bearer " + mustToken(t, "otro-secreto"),
	}
	for name, auth := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := get(t, app, "/stock", auth)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	resp, body := get(t, rbacApp(), "/admin", bearer(t, "", 30))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_ROLE")
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	resp, body := get(t, rbacApp(), "/sales", bearer(t, entity.RoleVendedor, 30))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, mwUserID, out["user_id"])
	assert.Equal(t, entity.RoleVendedor, out["role"])
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, mwUserID, entity.RoleAdmin, "suestoque-test", 30)
	require.NoError(t, err)
	return tok
}
