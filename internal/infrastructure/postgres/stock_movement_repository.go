package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var movementColumns = []string{
	"id", "product_id", "quantity_delta", "type", "date", "reason", "source_type", "source_id", "created_by", "created_at",
}

type movementRow struct {
	ID            string    `db:"id"`
	ProductID     string    `db:"product_id"`
	QuantityDelta int       `db:"quantity_delta"`
	Type          string    `db:"type"`
	Date          time.Time `db:"date"`
	Reason        *string   `db:"reason"`
	SourceType    *string   `db:"source_type"`
	SourceID      *string   `db:"source_id"`
	CreatedBy     *string   `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r movementRow) toEntity() *entity.StockMovement {
	return &entity.StockMovement{
		ID: r.ID, ProductID: r.ProductID, QuantityDelta: r.QuantityDelta, Type: entity.MovementType(r.Type),
		Date: r.Date, Reason: deref(r.Reason), SourceType: deref(r.SourceType), SourceID: deref(r.SourceID),
		CreatedBy: deref(r.CreatedBy), CreatedAt: r.CreatedAt,
	}
}

// StockMovementRepo ledger de stock sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	sql, args, err := psql.Insert("stock_movements").Columns(movementColumns...).Values(
		m.ID, m.ProductID, m.QuantityDelta, string(m.Type), m.Date, nullIfEmpty(m.Reason),
		nullIfEmpty(m.SourceType), nullIfEmpty(m.SourceID), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert movement", err)
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	sql, args, err := psql.Select(movementColumns...).From("stock_movements").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select movement: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get movement", err)
	}
	return row.toEntity(), nil
}

// Delete elimina un movimiento (reversión).
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	return translateError("delete movement", err)
}

// SumByProduct Σ quantity_delta del producto.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity_delta), 0) FROM stock_movements WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, translateError("sum movements", err)
	}
	return sum, nil
}

// SumAll Σ quantity_delta agrupado por producto.
func (r *StockMovementRepo) SumAll(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		ProductID string `db:"product_id"`
		Total     int    `db:"total"`
	}
	err := pgxscan.Select(ctx, r.q, &rows,
		`SELECT product_id, SUM(quantity_delta) AS total FROM stock_movements GROUP BY product_id`)
	if err != nil {
		return nil, translateError("sum all movements", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Total
	}
	return out, nil
}

// List movimientos filtrados, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	b := psql.Select(movementColumns...).From("stock_movements")
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.Type != "" {
		b = b.Where(squirrel.Eq{"type": string(f.Type)})
	}
	if f.SourceType != "" {
		b = b.Where(squirrel.Eq{"source_type": f.SourceType})
	}
	if f.SourceID != "" {
		b = b.Where(squirrel.Eq{"source_id": f.SourceID})
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.Lt{"date": *f.To})
	}
	sql, args, err := applyPage(b.OrderBy("date DESC", "seq DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list movements", err)
	}
	list := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
