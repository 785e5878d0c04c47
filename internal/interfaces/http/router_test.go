package http_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
)

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	s.registerUser(t, "marta", "clave-segura", "recepcion")

	var out dto.LoginResponse
	s.mustJSON(t, http.StatusOK, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "marta", Password: "clave-segura"}, &out)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "recepcion", out.User.Role)

	var me dto.UserResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/auth/me", out.Token, nil, &me)
	assert.Equal(t, "marta", me.Username)

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "marta", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestSellingPriceHistory(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin")

	var p dto.ProductResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/products", admin,
		dto.CreateProductRequest{Code: "FIL-01", Name: "Filtro de aceite", MinStock: 2}, &p)

	path := "/api/products/" + p.ID + "/selling-prices"
	s.mustJSON(t, http.StatusCreated, http.MethodPost, path, admin, map[string]any{"price": "100.00", "startDate": "2024-01-01"}, nil)
	s.mustJSON(t, http.StatusCreated, http.MethodPost, path, admin, map[string]any{"price": 120, "startDate": "2024-03-01"}, nil)

	var history []dto.PriceEntryResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, path, admin, nil, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-01-01", history[0].StartDate)
	require.NotNil(t, history[0].EndDate)
	assert.Equal(t, "2024-02-29", *history[0].EndDate)
	assert.Equal(t, "100.00", history[0].Price)
	assert.Nil(t, history[1].EndDate)
	assert.Equal(t, "120.00", history[1].Price)

	var cur dto.CurrentPriceResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/products/"+p.ID+"/current-price?date=2024-02-15", admin, nil, &cur)
	assert.Equal(t, "100.00", cur.Price)
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/products/"+p.ID+"/current-price?date=2024-03-15", admin, nil, &cur)
	assert.Equal(t, "120.00", cur.Price)

	// un inicio anterior o igual al de la entrada abierta invertiría el rango
	status, body := s.do(t, http.MethodPost, path, admin, map[string]any{"price": "130.00", "startDate": "2024-03-01"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestStockMovementsAndComputedStock(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin")

	var p dto.ProductResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/products", admin, dto.CreateProductRequest{Code: "PAS-01", Name: "Pastillas"}, &p)

	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/stock-movements", admin,
		dto.RecordMovementRequest{ProductID: p.ID, QuantityDelta: 50, Type: "PURCHASE"}, nil)
	var sale dto.MovementResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/stock-movements", admin,
		dto.RecordMovementRequest{ProductID: p.ID, QuantityDelta: -10, Type: "SALE"}, &sale)

	var computed dto.ComputedStockResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/products/"+p.ID+"/computed-stock", admin, nil, &computed)
	assert.Equal(t, 40, computed.ComputedStock)
	assert.Equal(t, 40, computed.CachedStock)
	assert.True(t, computed.Consistent)

	status, _ := s.do(t, http.MethodDelete, "/api/stock-movements/"+sale.ID, admin, nil)
	require.Equal(t, http.StatusNoContent, status)
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/products/"+p.ID+"/computed-stock", admin, nil, &computed)
	assert.Equal(t, 50, computed.ComputedStock)
	assert.Equal(t, 50, computed.CachedStock)

	// signo incompatible con el tipo
	status, body := s.do(t, http.MethodPost, "/api/stock-movements", admin,
		dto.RecordMovementRequest{ProductID: p.ID, QuantityDelta: 5, Type: "SALE"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	status, body = s.do(t, http.MethodPost, "/api/stock-movements", admin,
		dto.RecordMovementRequest{ProductID: "no-existe", QuantityDelta: 5, Type: "PURCHASE"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	status, _ = s.do(t, http.MethodGet, "/api/stock-movements/export?productId="+p.ID, admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestWorkOrderProductLineWithDiscount(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin")
	mecanico := token(t, "mecanico")

	var p dto.ProductResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/products", admin,
		dto.CreateProductRequest{Code: "AMO-01", Name: "Amortiguador", SellingPrice: money("100.00")}, &p)
	clientID := s.client(t, admin)

	var wo dto.WorkOrderResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/work-orders", admin, dto.CreateWorkOrderRequest{ClientID: clientID}, &wo)

	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/work-orders/"+wo.ID+"/product-lines", mecanico,
		dto.AddProductLineRequest{ProductID: p.ID, Quantity: 3, DiscountPercent: money("10")}, &wo)
	require.Len(t, wo.ProductLines, 1)
	line := wo.ProductLines[0]
	assert.Equal(t, "100.00", line.StandardPrice)
	assert.Equal(t, "90.00", line.FinalUnitPrice)
	assert.Equal(t, "270.00", line.LineTotal)
	assert.Equal(t, "270.00", wo.TotalAmount)

	var totals dto.TotalsResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/work-orders/"+wo.ID+"/totals", mecanico, nil, &totals)
	assert.Equal(t, "300.00", totals.ProductsBeforeDiscount)
	assert.Equal(t, "30.00", totals.ProductsDiscountTotal)
	assert.Equal(t, "270.00", totals.GrandTotal)

	s.mustJSON(t, http.StatusOK, http.MethodDelete, "/api/work-orders/"+wo.ID+"/lines/"+line.ID, mecanico, nil, &wo)
	assert.Equal(t, "0.00", wo.TotalAmount)

	// facturar la orden es tarea de oficina
	status, body := s.do(t, http.MethodPost, "/api/work-orders/"+wo.ID+"/invoice", mecanico, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))
}

// issuedInvoice crea una factura de servicio por total y la emite.
func issuedInvoice(t *testing.T, s *server, tok, clientID, code, total string) dto.InvoiceResponse {
	t.Helper()
	admin := token(t, "admin")
	var svc dto.ServiceResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/services", admin,
		dto.CreateServiceRequest{Code: code, Name: "Servicio " + code, SellingPrice: money(total)}, &svc)

	var inv dto.InvoiceResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/invoices", tok,
		dto.CreateInvoiceRequest{PayerType: "CLIENT", PayerID: clientID}, &inv)
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/invoices/"+inv.ID+"/lines", tok,
		dto.AddInvoiceLineRequest{ServiceID: svc.ID, Quantity: 1}, &inv)
	s.mustJSON(t, http.StatusOK, http.MethodPost, "/api/invoices/"+inv.ID+"/issue", tok, nil, &inv)
	require.Equal(t, "ISSUED", inv.Status)
	require.Equal(t, total, inv.RemainingBalance)
	return inv
}

func TestPaymentFIFOPaysInvoice(t *testing.T) {
	s := newServer(t)
	office := token(t, "recepcion")
	clientID := s.client(t, office)
	inv := issuedInvoice(t, s, office, clientID, "REV", "500.00")

	var pay dto.PaymentResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/payments/apply", office, map[string]any{
		"payerType": "CLIENT", "payerId": clientID, "totalAmount": "500.00", "method": "CASH", "date": "2024-05-02",
	}, &pay)
	require.Len(t, pay.Allocations, 1)
	assert.Equal(t, inv.ID, pay.Allocations[0].InvoiceID)
	assert.Equal(t, "500.00", pay.Allocations[0].AllocatedAmount)

	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/invoices/"+inv.ID, office, nil, &inv)
	assert.Equal(t, "PAID", inv.Status)
	assert.Equal(t, "0.00", inv.RemainingBalance)

	var outstanding dto.OutstandingTotalResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/invoices/outstanding-total", office, nil, &outstanding)
	assert.Equal(t, "0.00", outstanding.Outstanding)
}

func TestPartialPaymentKeepsIssued(t *testing.T) {
	s := newServer(t)
	office := token(t, "recepcion")
	clientID := s.client(t, office)
	inv := issuedInvoice(t, s, office, clientID, "REV", "500.00")

	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/payments/apply", office, map[string]any{
		"payerType": "CLIENT", "payerId": clientID, "totalAmount": "200.00", "method": "CARD",
	}, nil)

	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/invoices/"+inv.ID, office, nil, &inv)
	assert.Equal(t, "ISSUED", inv.Status)
	assert.Equal(t, "300.00", inv.RemainingBalance)

	var unpaid []dto.InvoiceResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/invoices/unpaid?payerType=CLIENT&payerId="+clientID, office, nil, &unpaid)
	require.Len(t, unpaid, 1)

	// una factura emitida ya no admite líneas
	status, body := s.do(t, http.MethodPost, "/api/invoices/"+inv.ID+"/lines", office,
		dto.AddInvoiceLineRequest{ServiceID: "x", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", errorCode(t, body))
}

func TestManualAllocationOverBalanceIsRejected(t *testing.T) {
	s := newServer(t)
	office := token(t, "admin")
	clientID := s.client(t, office)
	inv := issuedInvoice(t, s, office, clientID, "REV", "100.00")

	status, body := s.do(t, http.MethodPost, "/api/payments/apply", office, map[string]any{
		"payerType": "CLIENT", "payerId": clientID, "totalAmount": "150.00", "method": "TRANSFER",
		"allocations": []map[string]any{{"invoiceId": inv.ID, "amount": "150.00"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/invoices/"+inv.ID, office, nil, &inv)
	assert.Equal(t, "100.00", inv.RemainingBalance)
}

func TestErrorMapping(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin")

	body := dto.CreateProductRequest{Code: "DUP", Name: "Producto"}
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/products", admin, body, nil)
	status, raw := s.do(t, http.MethodPost, "/api/products", admin, body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "UNIQUE_PRODUCT_CODE", errorCode(t, raw))

	status, raw = s.do(t, http.MethodPost, "/api/products", admin, map[string]any{"name": "sin código"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
	assert.Contains(t, string(raw), "code")

	status, raw = s.do(t, http.MethodGet, "/api/invoices/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	status, raw = s.do(t, http.MethodPost, "/api/companies", admin, dto.CreateCompanyRequest{Name: "Flota SA", ICE: "001"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	status, raw = s.do(t, http.MethodPost, "/api/companies", admin, dto.CreateCompanyRequest{Name: "Otra", ICE: "001"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "UNIQUE_COMPANY_ICE", errorCode(t, raw))
}

func TestExpensesAndDashboard(t *testing.T) {
	s := newServer(t)
	office := token(t, "recepcion")

	var e dto.ExpenseResponse
	s.mustJSON(t, http.StatusCreated, http.MethodPost, "/api/expenses", office, map[string]any{
		"category": "Alquiler", "label": "Local", "amount": "1200.50", "paymentMethod": "TRANSFER",
	}, &e)
	assert.Equal(t, "1200.50", e.Amount)

	var list []dto.ExpenseResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/expenses?category=Alquiler", office, nil, &list)
	assert.Len(t, list, 1)

	var summary dto.DashboardResponse
	s.mustJSON(t, http.StatusOK, http.MethodGet, "/api/dashboard/summary", office, nil, &summary)
	assert.Equal(t, "1200.50", summary.MonthlyExpenses)
	assert.Equal(t, "0.00", summary.OutstandingAmount)

	status, _ := s.do(t, http.MethodGet, "/api/dashboard/summary", token(t, "mecanico"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}
