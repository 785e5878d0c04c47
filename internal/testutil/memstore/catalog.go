package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type productRepo struct{ src func() *data }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	d := r.src()
	for _, other := range d.products {
		if other.Code == p.Code {
			return &domain.ConstraintError{Code: domain.CodeUniqueProductCode, Constraint: "products_code_key"}
		}
		if p.Barcode != "" && other.Barcode == p.Barcode {
			return &domain.ConstraintError{Code: domain.CodeUniqueProductBarcode, Constraint: "products_barcode_key"}
		}
	}
	d.products[p.ID] = *p
	d.touch(p.ID)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.src().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	d := r.src()
	cur, ok := d.products[p.ID]
	if !ok {
		return nil
	}
	cur.Barcode, cur.Name, cur.Brand, cur.Category = p.Barcode, p.Name, p.Brand, p.Category
	cur.MinStock, cur.Active, cur.UpdatedAt = p.MinStock, p.Active, p.UpdatedAt
	d.products[p.ID] = cur
	return nil
}

func (r *productRepo) UpdateSellingPrice(_ context.Context, id string, price decimal.Decimal) error {
	d := r.src()
	p := d.products[id]
	p.SellingPrice = price
	d.products[id] = p
	return nil
}

func (r *productRepo) UpdateBuyingPrice(_ context.Context, id string, price decimal.Decimal) error {
	d := r.src()
	p := d.products[id]
	p.BuyingPrice = price
	d.products[id] = p
	return nil
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta int) error {
	d := r.src()
	p, ok := d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock += delta
	d.products[id] = p
	return nil
}

func (r *productRepo) SetStock(_ context.Context, id string, stock int) error {
	d := r.src()
	p, ok := d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	d.products[id] = p
	return nil
}

func (r *productRepo) StockSnapshot(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for id, p := range r.src().products {
		out[id] = p.CurrentStock
	}
	return out, nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var all []*entity.Product
	search := strings.ToLower(f.Search)
	for _, p := range r.src().products {
		p := p
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.LowStockOnly && !p.LowStock() {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Code+" "+p.Name+" "+p.Barcode), search) {
			continue
		}
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *productRepo) CountLowStock(_ context.Context) (int, error) {
	n := 0
	for _, p := range r.src().products {
		if p.LowStock() {
			n++
		}
	}
	return n, nil
}

func (r *productRepo) Count(_ context.Context) (int, error) { return len(r.src().products), nil }

type serviceRepo struct{ src func() *data }

func (r *serviceRepo) Create(_ context.Context, s *entity.ServiceItem) error {
	d := r.src()
	for _, other := range d.services {
		if other.Code == s.Code {
			return &domain.ConstraintError{Code: domain.CodeUniqueServiceCode, Constraint: "services_code_key"}
		}
	}
	d.services[s.ID] = *s
	d.touch(s.ID)
	return nil
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*entity.ServiceItem, error) {
	s, ok := r.src().services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *serviceRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceItem, error) {
	return r.GetByID(ctx, id)
}

func (r *serviceRepo) Update(_ context.Context, s *entity.ServiceItem) error {
	d := r.src()
	cur, ok := d.services[s.ID]
	if !ok {
		return nil
	}
	cur.Name, cur.Description, cur.Active, cur.UpdatedAt = s.Name, s.Description, s.Active, s.UpdatedAt
	d.services[s.ID] = cur
	return nil
}

func (r *serviceRepo) UpdateSellingPrice(_ context.Context, id string, price decimal.Decimal) error {
	d := r.src()
	s := d.services[id]
	s.SellingPrice = price
	d.services[id] = s
	return nil
}

func (r *serviceRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.ServiceItem, error) {
	var all []*entity.ServiceItem
	for _, s := range r.src().services {
		s := s
		if activeOnly && !s.Active {
			continue
		}
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (r *serviceRepo) Count(_ context.Context) (int, error) { return len(r.src().services), nil }

type priceRepo struct{ src func() *data }

func (r *priceRepo) Create(_ context.Context, e *entity.PriceHistoryEntry) error {
	d := r.src()
	if e.EndDate == nil {
		for _, other := range d.prices {
			if other.Ledger == e.Ledger && other.ItemID == e.ItemID && other.EndDate == nil {
				return &domain.ConstraintError{Code: domain.CodeUniqueOpenPrice, Constraint: "price_history_open_key"}
			}
		}
	}
	d.prices[e.ID] = *e
	d.touch(e.ID)
	return nil
}

func (r *priceRepo) GetOpenForUpdate(_ context.Context, ledger entity.PriceLedger, itemID string) (*entity.PriceHistoryEntry, error) {
	for _, e := range r.src().prices {
		if e.Ledger == ledger && e.ItemID == itemID && e.EndDate == nil {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (r *priceRepo) Close(_ context.Context, id string, endDate time.Time) error {
	d := r.src()
	e, ok := d.prices[id]
	if !ok {
		return domain.ErrNotFound
	}
	end := endDate
	e.EndDate = &end
	d.prices[id] = e
	return nil
}

func (r *priceRepo) FindEffective(_ context.Context, ledger entity.PriceLedger, itemID string, date time.Time) (*entity.PriceHistoryEntry, error) {
	var best *entity.PriceHistoryEntry
	for _, e := range r.src().prices {
		e := e
		if e.Ledger != ledger || e.ItemID != itemID || !e.Covers(date) {
			continue
		}
		if best == nil || e.StartDate.After(best.StartDate) {
			best = &e
		}
	}
	return best, nil
}

func (r *priceRepo) ListByItem(_ context.Context, ledger entity.PriceLedger, itemID string) ([]*entity.PriceHistoryEntry, error) {
	var out []*entity.PriceHistoryEntry
	for _, e := range r.src().prices {
		e := e
		if e.Ledger == ledger && e.ItemID == itemID {
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}
