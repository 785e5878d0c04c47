// Package billing contiene facturas, pagadores y el motor de asignación de pagos.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// InvoiceUseCase ciclo de vida de facturas: borrador, líneas, emisión, envío, anulación.
type InvoiceUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator) *InvoiceUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &InvoiceUseCase{txRunner: txRunner, repos: repos, cache: cache, now: time.Now}
}

// Create abre una factura DRAFT vacía para un cliente o empresa existente.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	payer := entity.Payer{Type: entity.PayerType(in.PayerType), ID: in.PayerID}
	now := uc.now()
	date := entity.DateOf(now)
	if in.Date != "" {
		d, err := entity.ParseDate(in.Date)
		if err != nil {
			return nil, domain.Invalid("date", "fecha inválida")
		}
		date = d
	}
	id := uuid.New().String()
	inv := &entity.Invoice{
		ID:               id,
		Number:           entity.InvoiceNumber(date, id),
		Payer:            payer,
		Date:             date,
		Status:           entity.InvoiceDraft,
		TotalAmount:      decimal.Zero,
		RemainingBalance: decimal.Zero,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, _, err := resolvePayer(ctx, r, payer); err != nil {
			return err
		}
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromInvoice(inv, nil)
	return &out, nil
}

// Get obtiene la factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.Invoices.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromInvoice(inv, lines)
	if out.Lines == nil {
		out.Lines = []dto.LineResponse{}
	}
	return &out, nil
}

// List lista facturas por estado y pagador, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.InvoiceListQuery) ([]dto.InvoiceResponse, error) {
	q.DefaultPage()
	f := repository.InvoiceFilter{Status: entity.InvoiceStatus(q.Status), Limit: q.Limit, Offset: q.Offset}
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Invalid("status", "estado desconocido %q", q.Status)
	}
	if q.PayerType != "" || q.PayerID != "" {
		p := entity.Payer{Type: entity.PayerType(q.PayerType), ID: q.PayerID}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		f.Payer = &p
	}
	list, err := uc.repos.Invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(list), nil
}

// Unpaid facturas pendientes de un pagador en orden FIFO.
func (uc *InvoiceUseCase) Unpaid(ctx context.Context, payerType, payerID string) ([]dto.InvoiceResponse, error) {
	p := entity.Payer{Type: entity.PayerType(payerType), ID: payerID}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	list, err := uc.repos.Invoices.ListOutstandingByPayer(ctx, p)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(list), nil
}

// OutstandingTotal Σ remainingBalance de las facturas no pagadas ni anuladas.
func (uc *InvoiceUseCase) OutstandingTotal(ctx context.Context) (*dto.OutstandingTotalResponse, error) {
	sum, err := uc.repos.Invoices.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OutstandingTotalResponse{Outstanding: dto.Money(sum)}, nil
}

func toInvoiceList(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.FromInvoice(inv, nil))
	}
	return out
}

// lockInvoice bloquea la fila de la factura (SELECT FOR UPDATE).
func lockInvoice(ctx context.Context, r repository.Repos, id string) (*entity.Invoice, error) {
	inv, err := r.Invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

func lockDraft(ctx context.Context, r repository.Repos, id string) (*entity.Invoice, error) {
	inv, err := lockInvoice(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.Editable() {
		return nil, fmt.Errorf("%w: la factura está en %s", domain.ErrInvalidStateTransition, inv.Status)
	}
	return inv, nil
}

// recalcInTx relee las líneas, reescribe totalAmount y deja remainingBalance = total − Σ asignaciones.
func recalcInTx(ctx context.Context, r repository.Repos, inv *entity.Invoice, now time.Time) error {
	lines, err := r.Invoices.ListLines(ctx, inv.ID)
	if err != nil {
		return err
	}
	priced := make([]entity.PricedLine, 0, len(lines))
	for _, l := range lines {
		priced = append(priced, l.PricedLine)
	}
	allocated, err := r.Payments.SumAllocatedByInvoice(ctx, inv.ID)
	if err != nil {
		return err
	}
	inv.TotalAmount = pricing.Sum(priced)
	inv.RemainingBalance = pricing.Money(inv.TotalAmount.Sub(allocated))
	inv.UpdatedAt = now
	return r.Invoices.Update(ctx, inv)
}

// AddLine agrega una línea de producto o servicio con foto de precio; sólo en DRAFT.
func (uc *InvoiceUseCase) AddLine(ctx context.Context, id string, in dto.AddInvoiceLineRequest) (*dto.InvoiceResponse, error) {
	var item entity.CatalogRef
	switch {
	case in.ProductID != "" && in.ServiceID != "":
		return nil, domain.Invalid("productId", "indique un producto o un servicio, no ambos")
	case in.ProductID != "":
		item = entity.ProductRef(in.ProductID)
	default:
		item = entity.ServiceRef(in.ServiceID)
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := lockDraft(ctx, r, id)
		if err != nil {
			return err
		}
		now := uc.now()
		pl, err := catalog.PriceLine(ctx, r, item, in.Quantity, in.DiscountPercent, now)
		if err != nil {
			return err
		}
		if in.Description != "" {
			pl.Description = in.Description
		}
		line := &entity.InvoiceLine{ID: uuid.New().String(), InvoiceID: id, PricedLine: pl, CreatedAt: now}
		if err := r.Invoices.CreateLine(ctx, line); err != nil {
			return err
		}
		return recalcInTx(ctx, r, inv, now)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

// DeleteLine quita una línea; sólo en DRAFT.
func (uc *InvoiceUseCase) DeleteLine(ctx context.Context, id, lineID string) (*dto.InvoiceResponse, error) {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := lockDraft(ctx, r, id)
		if err != nil {
			return err
		}
		line, err := r.Invoices.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil || line.InvoiceID != id {
			return domain.ErrNotFound
		}
		if err := r.Invoices.DeleteLine(ctx, lineID); err != nil {
			return err
		}
		return recalcInTx(ctx, r, inv, uc.now())
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

// transition bloquea la factura, valida la transición y aplica mutate antes de guardar.
func (uc *InvoiceUseCase) transition(ctx context.Context, id string, to entity.InvoiceStatus, mutate func(*entity.Invoice) error) (*dto.InvoiceResponse, error) {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		if err := inv.Status.TransitionTo(to); err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(inv); err != nil {
				return err
			}
		}
		inv.Status = to
		inv.UpdatedAt = uc.now()
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

// Issue emite una factura DRAFT: remainingBalance = totalAmount.
func (uc *InvoiceUseCase) Issue(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, entity.InvoiceIssued, func(inv *entity.Invoice) error {
		if inv.Status != entity.InvoiceDraft {
			return fmt.Errorf("%w: sólo se emite una factura DRAFT (está en %s)", domain.ErrInvalidStateTransition, inv.Status)
		}
		inv.RemainingBalance = inv.TotalAmount
		return nil
	})
}

// Send marca como enviada una factura emitida.
func (uc *InvoiceUseCase) Send(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, entity.InvoiceSent, nil)
}

// Cancel anula una factura que no esté pagada ni anulada.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, entity.InvoiceCancelled, nil)
}

// Delete elimina una factura DRAFT con sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := lockDraft(ctx, r, id); err != nil {
			return err
		}
		return r.Invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	_ = uc.cache.Bump(ctx)
	return nil
}
