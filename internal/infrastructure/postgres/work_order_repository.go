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

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

var workOrderColumns = []string{
	"id", "client_id", "vehicle_id", "description", "status", "total_amount",
	"opened_at", "closed_at", "created_at", "updated_at",
}

type workOrderRow struct {
	ID          string          `db:"id"`
	ClientID    string          `db:"client_id"`
	VehicleID   *string         `db:"vehicle_id"`
	Description *string         `db:"description"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	OpenedAt    time.Time       `db:"opened_at"`
	ClosedAt    *time.Time      `db:"closed_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r workOrderRow) toEntity() *entity.WorkOrder {
	return &entity.WorkOrder{
		ID: r.ID, ClientID: r.ClientID, VehicleID: deref(r.VehicleID), Description: deref(r.Description),
		Status: entity.WorkOrderStatus(r.Status), TotalAmount: r.TotalAmount,
		OpenedAt: r.OpenedAt, ClosedAt: r.ClosedAt, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// WorkOrderRepo órdenes de trabajo y sus líneas sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste la orden.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	sql, args, err := psql.Insert("work_orders").Columns(workOrderColumns...).Values(
		wo.ID, wo.ClientID, nullIfEmpty(wo.VehicleID), nullIfEmpty(wo.Description), string(wo.Status),
		wo.TotalAmount, wo.OpenedAt, wo.ClosedAt, wo.CreatedAt, wo.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert work order: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert work order", err)
}

func (r *WorkOrderRepo) getOne(ctx context.Context, id string, lock bool) (*entity.WorkOrder, error) {
	b := psql.Select(workOrderColumns...).From("work_orders").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select work order: %w", err)
	}
	var row workOrderRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get work order", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene una orden.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene la orden bloqueando la fila.
func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, id, true)
}

// Update persiste estado, datos descriptivos y fecha de cierre.
func (r *WorkOrderRepo) Update(ctx context.Context, wo *entity.WorkOrder) error {
	_, err := r.q.Exec(ctx, `
		UPDATE work_orders
		SET vehicle_id = $2, description = $3, status = $4, closed_at = $5, updated_at = $6
		WHERE id = $1`,
		wo.ID, nullIfEmpty(wo.VehicleID), nullIfEmpty(wo.Description), string(wo.Status), wo.ClosedAt, wo.UpdatedAt,
	)
	return translateError("update work order", err)
}

// UpdateTotal fija el total cacheado.
func (r *WorkOrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE work_orders SET total_amount = $2, updated_at = now() WHERE id = $1`, id, total)
	return translateError("update work order total", err)
}

func statusStrings(statuses []entity.WorkOrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// List órdenes filtradas por estado y cliente, más recientes primero.
func (r *WorkOrderRepo) List(ctx context.Context, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	b := psql.Select(workOrderColumns...).From("work_orders")
	if len(f.Statuses) > 0 {
		b = b.Where(squirrel.Eq{"status": statusStrings(f.Statuses)})
	}
	if f.ClientID != "" {
		b = b.Where(squirrel.Eq{"client_id": f.ClientID})
	}
	sql, args, err := applyPage(b.OrderBy("opened_at DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list work orders: %w", err)
	}
	var rows []workOrderRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list work orders", err)
	}
	list := make([]*entity.WorkOrder, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// Count cuenta las órdenes en cualquiera de los estados dados (todas si no se pasa ninguno).
func (r *WorkOrderRepo) Count(ctx context.Context, statuses ...entity.WorkOrderStatus) (int, error) {
	b := psql.Select("COUNT(*)").From("work_orders")
	if len(statuses) > 0 {
		b = b.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count work orders: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, translateError("count work orders", err)
	}
	return n, nil
}

// CreateLine persiste una línea (foto de precio inmutable).
func (r *WorkOrderRepo) CreateLine(ctx context.Context, l *entity.WorkOrderLine) error {
	values := append([]any{l.ID, l.WorkOrderID}, pricedLineValues(l.PricedLine, l.CreatedAt)...)
	sql, args, err := psql.Insert("work_order_lines").
		Columns(append([]string{"id", "work_order_id"}, pricedLineColumns...)...).
		Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert work order line: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert work order line", err)
}

func toWorkOrderLine(row pricedLineRow) *entity.WorkOrderLine {
	return &entity.WorkOrderLine{ID: row.ID, WorkOrderID: row.ParentID, PricedLine: row.pricedLine(), CreatedAt: row.CreatedAt}
}

// GetLine obtiene una línea por ID.
func (r *WorkOrderRepo) GetLine(ctx context.Context, lineID string) (*entity.WorkOrderLine, error) {
	sql, args, err := psql.Select(selectPricedLines("work_order_id")...).From("work_order_lines").
		Where(squirrel.Eq{"id": lineID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select work order line: %w", err)
	}
	var row pricedLineRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get work order line", err)
	}
	return toWorkOrderLine(row), nil
}

// DeleteLine elimina una línea.
func (r *WorkOrderRepo) DeleteLine(ctx context.Context, lineID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM work_order_lines WHERE id = $1`, lineID)
	return translateError("delete work order line", err)
}

// ListLines líneas de la orden en orden de alta.
func (r *WorkOrderRepo) ListLines(ctx context.Context, workOrderID string) ([]*entity.WorkOrderLine, error) {
	sql, args, err := psql.Select(selectPricedLines("work_order_id")...).From("work_order_lines").
		Where(squirrel.Eq{"work_order_id": workOrderID}).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list work order lines: %w", err)
	}
	var rows []pricedLineRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list work order lines", err)
	}
	list := make([]*entity.WorkOrderLine, 0, len(rows))
	for _, row := range rows {
		list = append(list, toWorkOrderLine(row))
	}
	return list, nil
}
