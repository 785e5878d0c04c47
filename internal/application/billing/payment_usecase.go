package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/allocation"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PaymentUseCase motor de asignación de pagos a facturas pendientes.
type PaymentUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	partial  bool
	now      func() time.Time
}

// NewPaymentUseCase construye el caso de uso. Con partial activo una factura con saldo
// pendiente menor que su total queda en PARTIAL en lugar de ISSUED.
func NewPaymentUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator, partial bool) *PaymentUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &PaymentUseCase{txRunner: txRunner, repos: repos, cache: cache, partial: partial, now: time.Now}
}

// Apply registra el pago y lo asigna: a las facturas indicadas si vienen asignaciones manuales,
// si no por FIFO sobre las facturas pendientes del pagador. Todo o nada en una transacción.
func (uc *PaymentUseCase) Apply(ctx context.Context, userID string, in dto.ApplyPaymentRequest) (*dto.PaymentResponse, error) {
	payer := entity.Payer{Type: entity.PayerType(in.PayerType), ID: in.PayerID}
	if err := payer.Validate(); err != nil {
		return nil, err
	}
	if !in.TotalAmount.IsPositive() {
		return nil, domain.Invalid("totalAmount", "debe ser mayor que cero")
	}
	method := entity.PaymentMethod(in.Method)
	if !method.Valid() {
		return nil, domain.Invalid("method", "medio de pago desconocido %q", in.Method)
	}
	now := uc.now()
	date := entity.DateOf(now)
	if in.Date != "" {
		d, err := entity.ParseDate(in.Date)
		if err != nil {
			return nil, domain.Invalid("date", "fecha inválida")
		}
		date = d
	}
	payment := &entity.Payment{
		ID:          uuid.New().String(),
		Payer:       payer,
		TotalAmount: pricing.Money(in.TotalAmount),
		Method:      method,
		Date:        date,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
	}

	var (
		allocs    []*entity.PaymentAllocation
		unapplied decimal.Decimal
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, _, err := resolvePayer(ctx, r, payer); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		var err error
		if len(in.Allocations) > 0 {
			allocs, err = uc.applyManual(ctx, r, payment, in.Allocations, now)
		} else {
			allocs, err = uc.applyFIFO(ctx, r, payment, now)
		}
		if err != nil {
			return err
		}
		unapplied = payment.TotalAmount
		for _, a := range allocs {
			unapplied = unapplied.Sub(a.AllocatedAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromPayment(payment, allocs)
	if unapplied.IsPositive() {
		out.Unapplied = dto.Money(unapplied)
	}
	return &out, nil
}

// outstandingBalance bloquea la factura y calcula su saldo como total − Σ asignaciones existentes.
func outstandingBalance(ctx context.Context, r repository.Repos, invoiceID string) (*entity.Invoice, decimal.Decimal, error) {
	inv, err := lockInvoice(ctx, r, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	allocated, err := r.Payments.SumAllocatedByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return inv, inv.TotalAmount.Sub(allocated), nil
}

func (uc *PaymentUseCase) applyManual(ctx context.Context, r repository.Repos, p *entity.Payment, reqs []dto.AllocationRequest, now time.Time) ([]*entity.PaymentAllocation, error) {
	sum := decimal.Zero
	for i, a := range reqs {
		if !a.Amount.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].amount", i), "debe ser mayor que cero")
		}
		sum = sum.Add(pricing.Money(a.Amount))
	}
	if sum.GreaterThan(p.TotalAmount) {
		return nil, domain.Invalid("allocations", "la suma asignada (%s) supera el total del pago (%s)", dto.Money(sum), dto.Money(p.TotalAmount))
	}

	out := make([]*entity.PaymentAllocation, 0, len(reqs))
	for i, a := range reqs {
		inv, remaining, err := outstandingBalance(ctx, r, a.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.Payer != p.Payer {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].invoiceId", i), "la factura pertenece a otro pagador")
		}
		if !inv.Status.Outstanding() {
			return nil, fmt.Errorf("%w: la factura %s está en %s", domain.ErrInvalidStateTransition, inv.Number, inv.Status)
		}
		amount := pricing.Money(a.Amount)
		if amount.GreaterThan(remaining) {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].amount", i), "supera el saldo pendiente de la factura (%s)", dto.Money(remaining))
		}
		alloc, err := uc.allocate(ctx, r, p, inv, amount, remaining, now)
		if err != nil {
			return nil, err
		}
		out = append(out, alloc)
	}
	return out, nil
}

func (uc *PaymentUseCase) applyFIFO(ctx context.Context, r repository.Repos, p *entity.Payment, now time.Time) ([]*entity.PaymentAllocation, error) {
	candidates, err := r.Invoices.ListOutstandingByPayer(ctx, p.Payer)
	if err != nil {
		return nil, err
	}
	locked := make(map[string]*entity.Invoice, len(candidates))
	outstanding := make([]allocation.Outstanding, 0, len(candidates))
	for _, c := range candidates {
		inv, remaining, err := outstandingBalance(ctx, r, c.ID)
		if err != nil {
			return nil, err
		}
		// la lista se leyó sin bloqueo: otra transacción pudo cobrarla o anularla antes del FOR UPDATE
		if !inv.Status.Outstanding() || !remaining.IsPositive() {
			continue
		}
		locked[inv.ID] = inv
		outstanding = append(outstanding, allocation.Outstanding{InvoiceID: inv.ID, Remaining: remaining})
	}

	res := allocation.FIFO(p.TotalAmount, outstanding)
	out := make([]*entity.PaymentAllocation, 0, len(res.Allocations))
	for _, a := range res.Allocations {
		alloc, err := uc.allocate(ctx, r, p, locked[a.InvoiceID], a.Amount, a.BalanceBefore, now)
		if err != nil {
			return nil, err
		}
		out = append(out, alloc)
	}
	return out, nil
}

// allocate crea la asignación y actualiza saldo y estado de la factura ya bloqueada.
func (uc *PaymentUseCase) allocate(ctx context.Context, r repository.Repos, p *entity.Payment, inv *entity.Invoice, amount, remaining decimal.Decimal, now time.Time) (*entity.PaymentAllocation, error) {
	alloc := &entity.PaymentAllocation{
		ID:              uuid.New().String(),
		PaymentID:       p.ID,
		InvoiceID:       inv.ID,
		AllocatedAmount: amount,
		CreatedAt:       now,
	}
	if err := r.Payments.CreateAllocation(ctx, alloc); err != nil {
		return nil, err
	}
	inv.RemainingBalance = pricing.Money(remaining.Sub(amount))
	next := allocation.NextStatus(inv.TotalAmount, inv.RemainingBalance, uc.partial)
	if next != inv.Status {
		if err := inv.Status.TransitionTo(next); err != nil {
			return nil, err
		}
		inv.Status = next
	}
	inv.UpdatedAt = now
	if err := r.Invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return alloc, nil
}

// Get obtiene un pago con sus asignaciones.
func (uc *PaymentUseCase) Get(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	allocs, err := uc.repos.Payments.ListAllocationsByPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromPayment(p, allocs)
	allocated := decimal.Zero
	for _, a := range allocs {
		allocated = allocated.Add(a.AllocatedAmount)
	}
	if left := p.TotalAmount.Sub(allocated); left.IsPositive() {
		out.Unapplied = dto.Money(left)
	}
	return &out, nil
}

// ListByPayer pagos de un pagador, más recientes primero.
func (uc *PaymentUseCase) ListByPayer(ctx context.Context, payerType, payerID string, page dto.PageRequest) ([]dto.PaymentResponse, error) {
	payer := entity.Payer{Type: entity.PayerType(payerType), ID: payerID}
	if err := payer.Validate(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Payments.ListByPayer(ctx, payer, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromPayment(p, nil))
	}
	return out, nil
}
