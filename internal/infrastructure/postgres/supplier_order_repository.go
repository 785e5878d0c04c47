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

var _ repository.SupplierOrderRepository = (*SupplierOrderRepo)(nil)

var supplierOrderColumns = []string{
	"id", "supplier_id", "order_date", "status", "total_amount", "notes", "received_at", "created_at", "updated_at",
}

type supplierOrderRow struct {
	ID          string          `db:"id"`
	SupplierID  string          `db:"supplier_id"`
	OrderDate   time.Time       `db:"order_date"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Notes       *string         `db:"notes"`
	ReceivedAt  *time.Time      `db:"received_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type supplierOrderLineRow struct {
	ID        string          `db:"id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitCost  decimal.Decimal `db:"unit_cost"`
	LineTotal decimal.Decimal `db:"line_total"`
}

// SupplierOrderRepo pedidos a proveedor sobre PostgreSQL.
type SupplierOrderRepo struct {
	q Querier
}

// NewSupplierOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierOrderRepository(q Querier) *SupplierOrderRepo {
	return &SupplierOrderRepo{q: q}
}

// Create persiste la cabecera y sus líneas en un solo INSERT por tabla.
func (r *SupplierOrderRepo) Create(ctx context.Context, o *entity.SupplierOrder, lines []*entity.SupplierOrderLine) error {
	sql, args, err := psql.Insert("supplier_orders").Columns(supplierOrderColumns...).Values(
		o.ID, o.SupplierID, o.OrderDate, string(o.Status), o.TotalAmount, nullIfEmpty(o.Notes),
		o.ReceivedAt, o.CreatedAt, o.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert supplier order: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return translateError("insert supplier order", err)
	}
	if len(lines) == 0 {
		return nil
	}
	ins := psql.Insert("supplier_order_lines").Columns("id", "order_id", "product_id", "quantity", "unit_cost", "line_total")
	for _, l := range lines {
		ins = ins.Values(l.ID, o.ID, l.ProductID, l.Quantity, l.UnitCost, l.LineTotal)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert supplier order lines: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert supplier order lines", err)
}

func (r *SupplierOrderRepo) getOne(ctx context.Context, id string, lock bool) (*entity.SupplierOrder, error) {
	b := psql.Select(supplierOrderColumns...).From("supplier_orders").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select supplier order: %w", err)
	}
	var row supplierOrderRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get supplier order", err)
	}
	return &entity.SupplierOrder{
		ID: row.ID, SupplierID: row.SupplierID, OrderDate: entity.DateOf(row.OrderDate),
		Status: entity.SupplierOrderStatus(row.Status), TotalAmount: row.TotalAmount, Notes: deref(row.Notes),
		ReceivedAt: row.ReceivedAt, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

// GetByID obtiene un pedido.
func (r *SupplierOrderRepo) GetByID(ctx context.Context, id string) (*entity.SupplierOrder, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene el pedido bloqueando la fila (evita la doble recepción).
func (r *SupplierOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SupplierOrder, error) {
	return r.getOne(ctx, id, true)
}

// ListLines líneas del pedido en orden de alta.
func (r *SupplierOrderRepo) ListLines(ctx context.Context, orderID string) ([]*entity.SupplierOrderLine, error) {
	var rows []supplierOrderLineRow
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT id, order_id, product_id, quantity, unit_cost, line_total
		FROM supplier_order_lines WHERE order_id = $1 ORDER BY seq`, orderID)
	if err != nil {
		return nil, translateError("list supplier order lines", err)
	}
	list := make([]*entity.SupplierOrderLine, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.SupplierOrderLine{
			ID: row.ID, OrderID: row.OrderID, ProductID: row.ProductID,
			Quantity: row.Quantity, UnitCost: row.UnitCost, LineTotal: row.LineTotal,
		})
	}
	return list, nil
}

// Update persiste estado, fecha de recepción y notas.
func (r *SupplierOrderRepo) Update(ctx context.Context, o *entity.SupplierOrder) error {
	_, err := r.q.Exec(ctx, `
		UPDATE supplier_orders SET status = $2, received_at = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		o.ID, string(o.Status), o.ReceivedAt, nullIfEmpty(o.Notes), o.UpdatedAt,
	)
	return translateError("update supplier order", err)
}
