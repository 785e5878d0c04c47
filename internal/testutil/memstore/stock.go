package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type movementRepo struct{ src func() *data }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	d := r.src()
	if _, ok := d.products[m.ProductID]; !ok {
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation, Constraint: "stock_movements_product_id_fkey"}
	}
	d.movements[m.ID] = *m
	d.touch(m.ID)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.src().movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	delete(r.src().movements, id)
	return nil
}

func (r *movementRepo) SumByProduct(_ context.Context, productID string) (int, error) {
	sum := 0
	for _, m := range r.src().movements {
		if m.ProductID == productID {
			sum += m.QuantityDelta
		}
	}
	return sum, nil
}

func (r *movementRepo) SumAll(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, m := range r.src().movements {
		out[m.ProductID] += m.QuantityDelta
	}
	return out, nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	d := r.src()
	var out []*entity.StockMovement
	for _, m := range d.movements {
		m := m
		switch {
		case f.ProductID != "" && m.ProductID != f.ProductID,
			f.Type != "" && m.Type != f.Type,
			f.SourceType != "" && m.SourceType != f.SourceType,
			f.SourceID != "" && m.SourceID != f.SourceID,
			f.From != nil && m.Date.Before(*f.From),
			f.To != nil && !m.Date.Before(*f.To):
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return d.order[out[i].ID] > d.order[out[j].ID]
	})
	return page(out, f.Limit, f.Offset), nil
}

type supplierOrderRepo struct{ src func() *data }

func (r *supplierOrderRepo) Create(_ context.Context, o *entity.SupplierOrder, lines []*entity.SupplierOrderLine) error {
	d := r.src()
	d.orders[o.ID] = *o
	d.touch(o.ID)
	for _, l := range lines {
		d.orderLines[l.ID] = *l
		d.touch(l.ID)
	}
	return nil
}

func (r *supplierOrderRepo) GetByID(_ context.Context, id string) (*entity.SupplierOrder, error) {
	o, ok := r.src().orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *supplierOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SupplierOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *supplierOrderRepo) ListLines(_ context.Context, orderID string) ([]*entity.SupplierOrderLine, error) {
	d := r.src()
	var out []*entity.SupplierOrderLine
	for _, l := range d.orderLines {
		l := l
		if l.OrderID == orderID {
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return out, nil
}

func (r *supplierOrderRepo) Update(_ context.Context, o *entity.SupplierOrder) error {
	d := r.src()
	if _, ok := d.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	d.orders[o.ID] = *o
	return nil
}
