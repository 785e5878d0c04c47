package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ServiceItemRepository = (*ServiceItemRepo)(nil)

var serviceColumns = []string{"id", "code", "name", "description", "selling_price", "active", "created_at", "updated_at"}

type serviceRow struct {
	ID           string          `db:"id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	Description  *string         `db:"description"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	Active       bool            `db:"active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r serviceRow) toEntity() *entity.ServiceItem {
	return &entity.ServiceItem{
		ID: r.ID, Code: r.Code, Name: r.Name, Description: deref(r.Description),
		SellingPrice: r.SellingPrice, Active: r.Active, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ServiceItemRepo servicios de catálogo sobre PostgreSQL.
type ServiceItemRepo struct {
	q Querier
}

// NewServiceItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceItemRepository(q Querier) *ServiceItemRepo {
	return &ServiceItemRepo{q: q}
}

// Create persiste un servicio.
func (r *ServiceItemRepo) Create(ctx context.Context, s *entity.ServiceItem) error {
	sql, args, err := psql.Insert("services").Columns(serviceColumns...).Values(
		s.ID, s.Code, s.Name, nullIfEmpty(s.Description), s.SellingPrice, s.Active, s.CreatedAt, s.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert service: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert service", err)
}

func (r *ServiceItemRepo) getOne(ctx context.Context, id string, lock bool) (*entity.ServiceItem, error) {
	b := psql.Select(serviceColumns...).From("services").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select service: %w", err)
	}
	var row serviceRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get service", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un servicio por ID.
func (r *ServiceItemRepo) GetByID(ctx context.Context, id string) (*entity.ServiceItem, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene el servicio bloqueando la fila.
func (r *ServiceItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceItem, error) {
	return r.getOne(ctx, id, true)
}

// Update modifica los datos descriptivos (no el precio).
func (r *ServiceItemRepo) Update(ctx context.Context, s *entity.ServiceItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE services SET code = $2, name = $3, description = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Code, s.Name, nullIfEmpty(s.Description), s.Active, s.UpdatedAt,
	)
	return translateError("update service", err)
}

// UpdateSellingPrice actualiza el precio cacheado.
func (r *ServiceItemRepo) UpdateSellingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE services SET selling_price = $2, updated_at = now() WHERE id = $1`, id, price)
	return translateError("update service price", err)
}

func (r *ServiceItemRepo) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "services") }

// List lista servicios por código.
func (r *ServiceItemRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.ServiceItem, error) {
	b := psql.Select(serviceColumns...).From("services").OrderBy("code ASC")
	if activeOnly {
		b = b.Where(squirrel.Eq{"active": true})
	}
	sql, args, err := applyPage(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services: %w", err)
	}
	var rows []serviceRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list services", err)
	}
	list := make([]*entity.ServiceItem, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
