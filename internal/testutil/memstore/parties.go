package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type clientRepo struct{ src func() *data }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	d := r.src()
	if c.Email != "" {
		for _, other := range d.clients {
			if other.Email == c.Email {
				return &domain.ConstraintError{Code: domain.CodeUniqueClientEmail}
			}
		}
	}
	d.clients[c.ID] = *c
	d.touch(c.ID)
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.src().clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	d := r.src()
	var out []*entity.Client
	for _, c := range d.clients {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return page(out, limit, offset), nil
}

func (r *clientRepo) Count(_ context.Context) (int, error) { return len(r.src().clients), nil }

type companyRepo struct{ src func() *data }

func (r *companyRepo) Create(_ context.Context, c *entity.Company) error {
	d := r.src()
	for _, other := range d.companies {
		if other.ICE == c.ICE {
			return &domain.ConstraintError{Code: domain.CodeUniqueCompanyICE}
		}
	}
	d.companies[c.ID] = *c
	d.touch(c.ID)
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.src().companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *companyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	d := r.src()
	var out []*entity.Company
	for _, c := range d.companies {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return d.order[out[i].ID] < d.order[out[j].ID] })
	return page(out, limit, offset), nil
}

func (r *companyRepo) Count(_ context.Context) (int, error) { return len(r.src().companies), nil }

type expenseRepo struct{ src func() *data }

func (r *expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	d := r.src()
	d.expenses[e.ID] = *e
	d.touch(e.ID)
	return nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	return to == nil || !t.After(*to)
}

func (r *expenseRepo) List(_ context.Context, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range r.src().expenses {
		e := e
		if !inRange(e.Date, f.From, f.To) || (f.Category != "" && e.Category != f.Category) {
			continue
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *expenseRepo) SumBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.src().expenses {
		if inRange(e.Date, &from, &to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type userRepo struct{ src func() *data }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	d := r.src()
	for _, other := range d.users {
		if other.Username == u.Username {
			return &domain.ConstraintError{Code: domain.CodeUniqueUsername}
		}
	}
	d.users[u.ID] = *u
	d.touch(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.src().users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.src().users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}
