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
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/infrastructure/export"
	"github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/Taller-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "taller-api-test"
)

type server struct {
	app   *fiber.App
	store *memstore.Store
	auth  *auth.AuthUseCase
}

// newServer arma la API completa sobre el store en memoria.
func newServer(t *testing.T) *server {
	t.Helper()
	store := memstore.New()
	repos := store.Repos()
	exporter := export.NewExcelExporter()
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})

	app := apphttp.NewApp("taller-test", zerolog.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     catalog.NewProductUseCase(store, repos, nil),
		ServiceUC:     catalog.NewServiceUseCase(store, repos),
		PriceLedger:   catalog.NewPriceLedgerUseCase(store, repos, nil),
		StockLedger:   inventory.NewStockLedgerUseCase(store, repos, nil, exporter),
		SupplierOrder: inventory.NewSupplierOrderUseCase(store, repos, nil),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products),
		WorkOrderUC:   workorder.NewUseCase(store, repos, nil),
		InvoiceUC:     billing.NewInvoiceUseCase(store, repos, nil),
		InvoicePDF:    billing.NewPDFUseCase(repos, pdf.NewMarotoPDFGenerator(pdf.ShopInfo{Name: "Taller Test"})),
		PaymentUC:     billing.NewPaymentUseCase(store, repos, nil, false),
		PartyUC:       billing.NewPartyUseCase(repos),
		ExpenseUC:     usecase.NewExpenseUseCase(repos.Expenses, nil, exporter),
		DashboardUC:   appanalytics.NewDashboardUseCase(repos, nil, 0),
		JWTSecret:     testJWTSecret,
	})
	return &server{app: app, store: store, auth: authUC}
}

// token emite un JWT para un usuario ficticio con el rol dado.
func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "u-"+role, role+"-user", role, testIssuer, 60)
	require.NoError(t, err)
	return tok
}

// do lanza la petición y devuelve estado y cuerpo.
func (s *server) do(t *testing.T, method, path, tok string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// mustJSON falla si el estado no es el esperado y decodifica el cuerpo en out.
func (s *server) mustJSON(t *testing.T, want int, method, path, tok string, body, out any) {
	t.Helper()
	status, raw := s.do(t, method, path, tok, body)
	require.Equal(t, want, status, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	require.NotEmpty(t, e.Timestamp)
	return e.Code
}

func (s *server) client(t *testing.T, tok string) string {
	t.Helper()
	var c dto.ClientResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/clients", tok,
		dto.CreateClientRequest{FirstName: "Ana", LastName: "Gómez"}, &c)
	return c.ID
}

func (s *server) registerUser(t *testing.T, username, password, role string) {
	t.Helper()
	_, err := s.auth.RegisterUser(context.Background(), dto.RegisterRequest{Username: username, Password: password, Role: role})
	require.NoError(t, err)
}
