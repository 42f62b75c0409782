package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/usecase"
	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Cotiza-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Cotiza-api/internal/interfaces/http"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "cotiza-api-test"
	testExpMin    = 60
	testPassword  = "secreto-123"
)

type testServer struct {
	app    *fiber.App
	authUC *auth.AuthUseCase
	store  *memory.Store
}

// newTestServer arma la API completa sobre el adaptador en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	products := memory.NewProductRepo(store)
	categories := memory.NewCategoryRepo(store)
	rfqs := memory.NewRFQRepo(store)
	quotes := memory.NewQuoteRepo(store)
	orders := memory.NewOrderRepo(store)

	authUC, err := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	workflowUC := workflow.NewWorkflowUseCase(
		memory.NewTxRunner(store), users, products, rfqs, quotes, orders,
		infrapdf.NewMarotoPDFGenerator(), logger.Nop(),
	)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "cotiza-test",
		AuthUC:      authUC,
		WorkflowUC:  workflowUC,
		ProductUC:   usecase.NewProductUseCase(products, categories),
		CategoryUC:  usecase.NewCategoryUseCase(categories),
		UserUC:      usecase.NewUserUseCase(users, logger.Nop()),
		DashboardUC: appanalytics.NewDashboardUseCase(memory.NewStatsRepo(store), rfqs, orders, products),
	})
	return &testServer{app: app, authUC: authUC, store: store}
}

// register crea un usuario con el rol indicado y devuelve su header Authorization.
func (s *testServer) register(t *testing.T, email, role string) (string, *dto.UserResponse) {
	t.Helper()
	ctx := context.Background()
	user, err := s.authUC.RegisterUser(ctx, dto.RegisterRequest{
		Email: email, Password: testPassword, CompanyName: "Empresa " + role, Role: role,
	})
	require.NoError(t, err)
	out, err := s.authUC.Login(ctx, dto.LoginRequest{Email: email, Password: testPassword})
	require.NoError(t, err)
	return "Bearer " + out.AccessToken, user
}

// do lanza la petición y devuelve status y cuerpo crudo.
func (s *testServer) do(t *testing.T, method, path, authHeader string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doJSON igual que do pero decodifica la respuesta en out.
func (s *testServer) doJSON(t *testing.T, method, path, authHeader string, body, out any) int {
	t.Helper()
	status, raw := s.do(t, method, path, authHeader, body)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", raw)
	}
	return status
}
