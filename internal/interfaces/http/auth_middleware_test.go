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

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	apphttp "github.com/jhoicas/Cotiza-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Cotiza-api/pkg/jwt"
)

// buildOpApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver el token y cargar locals
//   - RequireOperation para consultar la tabla de permisos
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildOpApp(s *testServer, op access.Operation) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(s.authUC),
		apphttp.RequireOperation(op),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":      true,
				"role":    string(apphttp.GetUser(c).Role),
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

func get(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireOperation
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El rol tiene la operación en la tabla → debe pasar (HTTP 200).
func TestRequireOperation_AdminAdministraUsuarios(t *testing.T) {
	s := newTestServer(t)
	token, user := s.register(t, "admin@x.co", "admin")
	resp := get(t, buildOpApp(s, access.OpManageUsers), token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, user.ID, body["user_id"])
}

// Caso 1b: operación habilitada para varios roles → HTTP 200.
func TestRequireOperation_SupplierListaRFQs(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "s@x.co", "supplier")
	resp := get(t, buildOpApp(s, access.OpListRFQs), token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: operación no habilitada para el rol → HTTP 403 Forbidden.
func TestRequireOperation_BuyerBloqueadoEnAdministracion(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "b@x.co", "buyer")
	resp := get(t, buildOpApp(s, access.OpManageUsers), token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Caso 3: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := get(t, buildOpApp(s, access.OpManageUsers), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

// Caso 4: Token malformado o esquema distinto de Bearer → HTTP 401.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	s := newTestServer(t)
	app := buildOpApp(s, access.OpManageUsers)

	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer   "} {
		resp := get(t, app, h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		resp.Body.Close()
	}
}

// Caso 5: firma válida pero el usuario ya no existe → 401.
func TestAuthMiddleware_UsuarioInexistente_Retorna401(t *testing.T) {
	s := newTestServer(t)
	tok, err := pkgjwt.Generate(testJWTSecret, "fantasma", "f@x.co", "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := get(t, buildOpApp(s, access.OpManageUsers), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 6: token expirado → 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	s := newTestServer(t)
	_, user := s.register(t, "b@x.co", "buyer")
	tok, err := pkgjwt.Generate(testJWTSecret, user.ID, user.Email, "buyer", testIssuer, -1)
	require.NoError(t, err)

	resp := get(t, buildOpApp(s, access.OpCreateRFQ), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// El rol sale del usuario persistido, no del claim.
func TestAuthMiddleware_RolDelRepositorio(t *testing.T) {
	s := newTestServer(t)
	_, user := s.register(t, "b@x.co", "buyer")
	tok, err := pkgjwt.Generate(testJWTSecret, user.ID, user.Email, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := get(t, buildOpApp(s, access.OpManageUsers), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
