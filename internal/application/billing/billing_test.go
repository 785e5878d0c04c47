package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store    *memstore.Store
	invoices *InvoiceUseCase
	payments *PaymentUseCase
	parties  *PartyUseCase
	client   string
}

func newEnv(t *testing.T, partial bool) *env {
	t.Helper()
	store := memstore.New()
	parties := NewPartyUseCase(store.Repos())
	c, err := parties.CreateClient(context.Background(), dto.CreateClientRequest{FirstName: "Luis", LastName: "Pérez", Email: "luis@example.com"})
	require.NoError(t, err)
	return &env{
		store:    store,
		invoices: NewInvoiceUseCase(store, store.Repos(), nil),
		payments: NewPaymentUseCase(store, store.Repos(), nil, partial),
		parties:  parties,
		client:   c.ID,
	}
}

// serviceAt crea un servicio de catálogo con el precio dado.
func (e *env) serviceAt(t *testing.T, code, price string) string {
	t.Helper()
	p := dec(price)
	s, err := catalog.NewServiceUseCase(e.store, e.store.Repos()).Create(context.Background(), dto.CreateServiceRequest{Code: code, Name: "Servicio " + code, SellingPrice: &p})
	require.NoError(t, err)
	return s.ID
}

// issued crea y emite una factura del cliente con un total dado y una fecha.
func (e *env) issued(t *testing.T, total, date string) string {
	t.Helper()
	ctx := context.Background()
	inv, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "CLIENT", PayerID: e.client, Date: date})
	require.NoError(t, err)
	svc := e.serviceAt(t, "S-"+inv.ID[:8], total)
	_, err = e.invoices.AddLine(ctx, inv.ID, dto.AddInvoiceLineRequest{ServiceID: svc, Quantity: 1})
	require.NoError(t, err)
	out, err := e.invoices.Issue(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, total, out.TotalAmount)
	require.Equal(t, total, out.RemainingBalance)
	return inv.ID
}

func (e *env) pay(t *testing.T, amount string, allocs ...dto.AllocationRequest) (*dto.PaymentResponse, error) {
	t.Helper()
	return e.payments.Apply(context.Background(), "u1", dto.ApplyPaymentRequest{
		PayerType:   "CLIENT",
		PayerID:     e.client,
		TotalAmount: dec(amount),
		Method:      "CASH",
		Allocations: allocs,
	})
}

func (e *env) invoice(t *testing.T, id string) *dto.InvoiceResponse {
	t.Helper()
	inv, err := e.invoices.Get(context.Background(), id)
	require.NoError(t, err)
	return inv
}

// assertBalances verifica remainingBalance = total − Σ asignaciones para cada factura.
func (e *env) assertBalances(t *testing.T, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		inv, err := e.store.Repos().Invoices.GetByID(ctx, id)
		require.NoError(t, err)
		allocated, err := e.store.Repos().Payments.SumAllocatedByInvoice(ctx, id)
		require.NoError(t, err)
		assert.True(t, inv.RemainingBalance.Equal(inv.TotalAmount.Sub(allocated)),
			"factura %s: saldo %s, total %s, asignado %s", id, inv.RemainingBalance, inv.TotalAmount, allocated)
	}
}

func TestInvoice_CicloDeVida(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	svc := e.serviceAt(t, "ALIN", "80")

	inv, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "CLIENT", PayerID: e.client})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", inv.Status)

	got, err := e.invoices.AddLine(ctx, inv.ID, dto.AddInvoiceLineRequest{ServiceID: svc, Quantity: 2, Description: "Alineación delantera"})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Alineación delantera", got.Lines[0].Description)
	assert.Equal(t, "160.00", got.TotalAmount)

	got, err = e.invoices.DeleteLine(ctx, inv.ID, got.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.TotalAmount)
	_, err = e.invoices.AddLine(ctx, inv.ID, dto.AddInvoiceLineRequest{ServiceID: svc, Quantity: 1})
	require.NoError(t, err)

	issued, err := e.invoices.Issue(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ISSUED", issued.Status)
	assert.Equal(t, "80.00", issued.RemainingBalance)

	_, err = e.invoices.AddLine(ctx, inv.ID, dto.AddInvoiceLineRequest{ServiceID: svc, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = e.invoices.DeleteLine(ctx, inv.ID, issued.Lines[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = e.invoices.Issue(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.ErrorIs(t, e.invoices.Delete(ctx, inv.ID), domain.ErrInvalidStateTransition)

	sent, err := e.invoices.Send(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", sent.Status)
	_, err = e.invoices.Issue(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "re-emitir una factura enviada no es una emisión")

	cancelled, err := e.invoices.Cancel(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	_, err = e.invoices.Cancel(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestInvoice_CreateYDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	_, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "COMPANY", PayerID: e.client})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el id es de un cliente, no de una empresa")
	_, err = e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "VECINO", PayerID: e.client})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	co, err := e.parties.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Flota SA", ICE: "001122"})
	require.NoError(t, err)
	inv, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "COMPANY", PayerID: co.ID, Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", inv.Date)
	assert.Contains(t, inv.Number, "F-20240502-")

	require.NoError(t, e.invoices.Delete(ctx, inv.ID))
	_, err = e.invoices.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyPayment_PagoTotal(t *testing.T) {
	e := newEnv(t, false)
	id := e.issued(t, "500.00", "")

	p, err := e.pay(t, "500.00")
	require.NoError(t, err)
	require.Len(t, p.Allocations, 1)
	assert.Equal(t, id, p.Allocations[0].InvoiceID)
	assert.Equal(t, "500.00", p.Allocations[0].AllocatedAmount)
	assert.Empty(t, p.Unapplied)

	inv := e.invoice(t, id)
	assert.Equal(t, "PAID", inv.Status)
	assert.Equal(t, "0.00", inv.RemainingBalance)
	e.assertBalances(t, id)
}

func TestApplyPayment_PagoParcialQuedaIssued(t *testing.T) {
	e := newEnv(t, false)
	id := e.issued(t, "500.00", "")

	p, err := e.pay(t, "200.00")
	require.NoError(t, err)
	require.Len(t, p.Allocations, 1)
	assert.Equal(t, "200.00", p.Allocations[0].AllocatedAmount)

	inv := e.invoice(t, id)
	assert.Equal(t, "ISSUED", inv.Status)
	assert.Equal(t, "300.00", inv.RemainingBalance)
	e.assertBalances(t, id)
}

func TestApplyPayment_ModoParcial(t *testing.T) {
	e := newEnv(t, true)
	id := e.issued(t, "500.00", "")

	_, err := e.pay(t, "200.00")
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", e.invoice(t, id).Status)

	_, err = e.pay(t, "300.00")
	require.NoError(t, err)
	inv := e.invoice(t, id)
	assert.Equal(t, "PAID", inv.Status)
	assert.Equal(t, "0.00", inv.RemainingBalance)
}

func TestApplyPayment_FIFOPorFechaYSobrante(t *testing.T) {
	e := newEnv(t, false)
	newer := e.issued(t, "100.00", "2024-03-10")
	older := e.issued(t, "150.00", "2024-01-05")
	middle := e.issued(t, "80.00", "2024-02-01")

	p, err := e.pay(t, "400.00")
	require.NoError(t, err)
	require.Len(t, p.Allocations, 3)
	assert.Equal(t, older, p.Allocations[0].InvoiceID)
	assert.Equal(t, middle, p.Allocations[1].InvoiceID)
	assert.Equal(t, newer, p.Allocations[2].InvoiceID)
	assert.Equal(t, "70.00", p.Unapplied)

	for _, id := range []string{older, middle, newer} {
		assert.Equal(t, "PAID", e.invoice(t, id).Status)
	}
	e.assertBalances(t, older, middle, newer)

	again, err := e.pay(t, "10.00")
	require.NoError(t, err)
	assert.Empty(t, again.Allocations, "sin facturas pendientes el pago queda sin aplicar")
	assert.Equal(t, "10.00", again.Unapplied)
}

func TestApplyPayment_FIFOExcluyeAnuladas(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	cancelled := e.issued(t, "50.00", "2024-01-01")
	open := e.issued(t, "50.00", "2024-02-01")
	_, err := e.invoices.Cancel(ctx, cancelled)
	require.NoError(t, err)

	p, err := e.pay(t, "30.00")
	require.NoError(t, err)
	require.Len(t, p.Allocations, 1)
	assert.Equal(t, open, p.Allocations[0].InvoiceID)
	assert.Equal(t, "50.00", e.invoice(t, cancelled).RemainingBalance)
}

// staleInvoices devuelve una lista de pendientes leída antes de cambios concurrentes.
type staleInvoices struct {
	repository.InvoiceRepository
	list []*entity.Invoice
}

func (s staleInvoices) ListOutstandingByPayer(context.Context, entity.Payer) ([]*entity.Invoice, error) {
	return s.list, nil
}

// staleRunner ejecuta sobre el store pero con la lista de pendientes fija.
type staleRunner struct {
	store *memstore.Store
	list  []*entity.Invoice
}

func (s staleRunner) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	return s.store.Run(ctx, func(r repository.Repos) error {
		r.Invoices = staleInvoices{InvoiceRepository: r.Invoices, list: s.list}
		return fn(r)
	})
}

func TestApplyPayment_FIFOIgnoraFacturaAnuladaTrasLeerPendientes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	a := e.issued(t, "100.00", "2024-01-01")
	b := e.issued(t, "100.00", "2024-02-01")
	list, err := e.store.Repos().Invoices.ListOutstandingByPayer(ctx, entity.Payer{Type: entity.PayerClient, ID: e.client})
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = e.invoices.Cancel(ctx, a)
	require.NoError(t, err)

	payments := NewPaymentUseCase(staleRunner{store: e.store, list: list}, e.store.Repos(), nil, false)
	p, err := payments.Apply(ctx, "u1", dto.ApplyPaymentRequest{
		PayerType: "CLIENT", PayerID: e.client, TotalAmount: dec("100.00"), Method: "CASH",
	})
	require.NoError(t, err)
	require.Len(t, p.Allocations, 1)
	assert.Equal(t, b, p.Allocations[0].InvoiceID)
	assert.Equal(t, "PAID", e.invoice(t, b).Status)
	assert.Equal(t, "CANCELLED", e.invoice(t, a).Status)
	e.assertBalances(t, a, b)
}

func TestApplyPayment_AsignacionManual(t *testing.T) {
	e := newEnv(t, false)
	a := e.issued(t, "100.00", "2024-01-01")
	b := e.issued(t, "100.00", "2024-02-01")

	p, err := e.pay(t, "120.00",
		dto.AllocationRequest{InvoiceID: b, Amount: dec("100")},
		dto.AllocationRequest{InvoiceID: a, Amount: dec("20")},
	)
	require.NoError(t, err)
	require.Len(t, p.Allocations, 2)
	assert.Equal(t, "PAID", e.invoice(t, b).Status)
	assert.Equal(t, "80.00", e.invoice(t, a).RemainingBalance)
	e.assertBalances(t, a, b)

	got, err := e.payments.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Allocations, 2)
}

func TestApplyPayment_AsignacionManualInvalidaRevierteTodo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	a := e.issued(t, "100.00", "2024-01-01")
	b := e.issued(t, "100.00", "2024-02-01")

	other, err := e.parties.CreateClient(ctx, dto.CreateClientRequest{FirstName: "Otro"})
	require.NoError(t, err)
	foreign, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "CLIENT", PayerID: other.ID})
	require.NoError(t, err)

	cases := map[string][]dto.AllocationRequest{
		"supera el saldo":   {{InvoiceID: a, Amount: dec("10")}, {InvoiceID: b, Amount: dec("120")}},
		"supera el pago":    {{InvoiceID: a, Amount: dec("100")}, {InvoiceID: b, Amount: dec("100")}},
		"monto no positivo": {{InvoiceID: a, Amount: dec("0")}},
		"otro pagador":      {{InvoiceID: a, Amount: dec("10")}, {InvoiceID: foreign.ID, Amount: dec("10")}},
		"misma factura dos veces por encima del saldo": {{InvoiceID: a, Amount: dec("60")}, {InvoiceID: a, Amount: dec("60")}},
	}
	for name, allocs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.pay(t, "150.00", allocs...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err = e.pay(t, "10.00", dto.AllocationRequest{InvoiceID: "no-existe", Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.invoices.Cancel(ctx, b)
	require.NoError(t, err)
	_, err = e.pay(t, "10.00", dto.AllocationRequest{InvoiceID: b, Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	payments, err := e.payments.ListByPayer(ctx, "CLIENT", e.client, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, payments, "ningún pago rechazado queda persistido")
	assert.Equal(t, "100.00", e.invoice(t, a).RemainingBalance)
	e.assertBalances(t, a, b)
}

func TestApplyPayment_Conservacion(t *testing.T) {
	e := newEnv(t, false)
	ids := []string{
		e.issued(t, "33.33", "2024-01-01"),
		e.issued(t, "66.67", "2024-01-02"),
		e.issued(t, "10.01", "2024-01-03"),
	}
	for _, amount := range []string{"20.00", "50.00", "0.01", "45.00"} {
		p, err := e.pay(t, amount)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, a := range p.Allocations {
			sum = sum.Add(dec(a.AllocatedAmount))
		}
		assert.True(t, sum.LessThanOrEqual(dec(p.TotalAmount)), "pago %s asigna %s", p.TotalAmount, sum)
		e.assertBalances(t, ids...)
	}
}

func TestApplyPayment_Validaciones(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.pay(t, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.payments.Apply(context.Background(), "u1", dto.ApplyPaymentRequest{PayerType: "CLIENT", PayerID: e.client, TotalAmount: dec("5"), Method: "BITCOIN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.payments.Apply(context.Background(), "u1", dto.ApplyPaymentRequest{PayerType: "CLIENT", PayerID: "nadie", TotalAmount: dec("5"), Method: "CASH"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoice_PendientesYTotal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	a := e.issued(t, "100.00", "2024-01-01")
	e.issued(t, "40.00", "2024-02-01")
	_, err := e.pay(t, "100.00", dto.AllocationRequest{InvoiceID: a, Amount: dec("100")})
	require.NoError(t, err)

	unpaid, err := e.invoices.Unpaid(ctx, "CLIENT", e.client)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "40.00", unpaid[0].RemainingBalance)

	total, err := e.invoices.OutstandingTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "40.00", total.Outstanding)

	paid, err := e.invoices.List(ctx, dto.InvoiceListQuery{Status: "PAID"})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, a, paid[0].ID)
}

type fakePDF struct{ doc ports.InvoiceDocument }

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, doc ports.InvoiceDocument) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF"), nil
}

func TestPDF(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	gen := &fakePDF{}
	uc := NewPDFUseCase(e.store.Repos(), gen)

	draft, err := e.invoices.Create(ctx, dto.CreateInvoiceRequest{PayerType: "CLIENT", PayerID: e.client})
	require.NoError(t, err)
	_, _, err = uc.DownloadInvoicePDF(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	id := e.issued(t, "75.00", "")
	b, name, err := uc.DownloadInvoicePDF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))
	assert.Contains(t, name, "factura_F-")
	assert.Equal(t, "Luis Pérez", gen.doc.PayerName)
	require.Len(t, gen.doc.Lines, 1)
	assert.NotEmpty(t, gen.doc.Lines[0].ItemName)

	_, _, err = uc.DownloadInvoicePDF(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParties(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	_, err := e.parties.CreateClient(ctx, dto.CreateClientRequest{FirstName: "Dup", Email: "LUIS@example.com"})
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.CodeUniqueClientEmail, ce.Code)

	_, err = e.parties.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "A", ICE: "X1"})
	require.NoError(t, err)
	_, err = e.parties.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "B", ICE: "X1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := e.parties.ListClients(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = e.parties.GetCompany(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
