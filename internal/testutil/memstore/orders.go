package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type workOrderRepo struct{ src func() *data }

func (r *workOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	d := r.src()
	d.workOrders[wo.ID] = *wo
	d.touch(wo.ID)
	return nil
}

func (r *workOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	wo, ok := r.src().workOrders[id]
	if !ok {
		return nil, nil
	}
	return &wo, nil
}

func (r *workOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *workOrderRepo) Update(_ context.Context, wo *entity.WorkOrder) error {
	d := r.src()
	if _, ok := d.workOrders[wo.ID]; !ok {
		return domain.ErrNotFound
	}
	d.workOrders[wo.ID] = *wo
	return nil
}

func (r *workOrderRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	d := r.src()
	wo, ok := d.workOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	wo.TotalAmount = total
	d.workOrders[id] = wo
	return nil
}

func statusIn(s entity.WorkOrderStatus, statuses []entity.WorkOrderStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}

func (r *workOrderRepo) List(_ context.Context, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	d := r.src()
	var out []*entity.WorkOrder
	for _, wo := range d.workOrders {
		wo := wo
		if !statusIn(wo.Status, f.Statuses) || (f.ClientID != "" && wo.ClientID != f.ClientID) {
			continue
		}
		out = append(out, &wo)
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] > d.order[out[j].ID] })
	return page(out, f.Limit, f.Offset), nil
}

func (r *workOrderRepo) Count(_ context.Context, statuses ...entity.WorkOrderStatus) (int, error) {
	n := 0
	for _, wo := range r.src().workOrders {
		if statusIn(wo.Status, statuses) {
			n++
		}
	}
	return n, nil
}

func (r *workOrderRepo) CreateLine(_ context.Context, l *entity.WorkOrderLine) error {
	d := r.src()
	if _, ok := d.workOrders[l.WorkOrderID]; !ok {
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation}
	}
	d.woLines[l.ID] = *l
	d.touch(l.ID)
	return nil
}

func (r *workOrderRepo) GetLine(_ context.Context, id string) (*entity.WorkOrderLine, error) {
	l, ok := r.src().woLines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *workOrderRepo) DeleteLine(_ context.Context, id string) error {
	delete(r.src().woLines, id)
	return nil
}

func (r *workOrderRepo) ListLines(_ context.Context, workOrderID string) ([]*entity.WorkOrderLine, error) {
	d := r.src()
	var out []*entity.WorkOrderLine
	for _, l := range d.woLines {
		l := l
		if l.WorkOrderID == workOrderID {
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return out, nil
}

type invoiceRepo struct{ src func() *data }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	d := r.src()
	d.invoices[inv.ID] = *inv
	d.touch(inv.ID)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.src().invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	d := r.src()
	if _, ok := d.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	d.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	d := r.src()
	delete(d.invoices, id)
	for lid, l := range d.invLines {
		if l.InvoiceID == id {
			delete(d.invLines, lid)
		}
	}
	return nil
}

func (r *invoiceRepo) sorted(keep func(entity.Invoice) bool, desc bool) []*entity.Invoice {
	d := r.src()
	var out []*entity.Invoice
	for _, inv := range d.invoices {
		inv := inv
		if keep(inv) {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		less := d.order[a.ID] < d.order[b.ID]
		if !a.Date.Equal(b.Date) {
			less = a.Date.Before(b.Date)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

func (r *invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	out := r.sorted(func(inv entity.Invoice) bool {
		if f.Status != "" && inv.Status != f.Status {
			return false
		}
		return f.Payer == nil || inv.Payer == *f.Payer
	}, true)
	return page(out, f.Limit, f.Offset), nil
}

func (r *invoiceRepo) ListOutstandingByPayer(_ context.Context, payer entity.Payer) ([]*entity.Invoice, error) {
	return r.sorted(func(inv entity.Invoice) bool {
		return inv.Payer == payer && inv.Status.Outstanding()
	}, false), nil
}

func (r *invoiceRepo) SumOutstanding(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, inv := range r.src().invoices {
		if inv.Status.Outstanding() {
			sum = sum.Add(inv.RemainingBalance)
		}
	}
	return sum, nil
}

func (r *invoiceRepo) CreateLine(_ context.Context, l *entity.InvoiceLine) error {
	d := r.src()
	if _, ok := d.invoices[l.InvoiceID]; !ok {
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation}
	}
	d.invLines[l.ID] = *l
	d.touch(l.ID)
	return nil
}

func (r *invoiceRepo) GetLine(_ context.Context, id string) (*entity.InvoiceLine, error) {
	l, ok := r.src().invLines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *invoiceRepo) DeleteLine(_ context.Context, id string) error {
	delete(r.src().invLines, id)
	return nil
}

func (r *invoiceRepo) ListLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	d := r.src()
	var out []*entity.InvoiceLine
	for _, l := range d.invLines {
		l := l
		if l.InvoiceID == invoiceID {
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return out, nil
}

type paymentRepo struct{ src func() *data }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	d := r.src()
	d.payments[p.ID] = *p
	d.touch(p.ID)
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	p, ok := r.src().payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *paymentRepo) ListByPayer(_ context.Context, payer entity.Payer, limit, offset int) ([]*entity.Payment, error) {
	d := r.src()
	var out []*entity.Payment
	for _, p := range d.payments {
		p := p
		if p.Payer == payer {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] > d.order[out[j].ID] })
	return page(out, limit, offset), nil
}

func (r *paymentRepo) CreateAllocation(_ context.Context, a *entity.PaymentAllocation) error {
	d := r.src()
	if _, ok := d.payments[a.PaymentID]; !ok {
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation}
	}
	if _, ok := d.invoices[a.InvoiceID]; !ok {
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation}
	}
	d.allocations[a.ID] = *a
	d.touch(a.ID)
	return nil
}

func (r *paymentRepo) ListAllocationsByPayment(_ context.Context, paymentID string) ([]*entity.PaymentAllocation, error) {
	d := r.src()
	var out []*entity.PaymentAllocation
	for _, a := range d.allocations {
		a := a
		if a.PaymentID == paymentID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return out, nil
}

func (r *paymentRepo) SumAllocatedByInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range r.src().allocations {
		if a.InvoiceID == invoiceID {
			sum = sum.Add(a.AllocatedAmount)
		}
	}
	return sum, nil
}
