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

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

var priceColumns = []string{"id", "ledger", "item_id", "start_date", "end_date", "price", "created_at"}

type priceRow struct {
	ID        string          `db:"id"`
	Ledger    string          `db:"ledger"`
	ItemID    string          `db:"item_id"`
	StartDate time.Time       `db:"start_date"`
	EndDate   *time.Time      `db:"end_date"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r priceRow) toEntity() *entity.PriceHistoryEntry {
	e := &entity.PriceHistoryEntry{
		ID: r.ID, Ledger: entity.PriceLedger(r.Ledger), ItemID: r.ItemID,
		StartDate: entity.DateOf(r.StartDate), Price: r.Price, CreatedAt: r.CreatedAt,
	}
	if r.EndDate != nil {
		end := entity.DateOf(*r.EndDate)
		e.EndDate = &end
	}
	return e
}

// PriceHistoryRepo ledger de precios sobre PostgreSQL. Append-only salvo el cierre de la entrada abierta.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create inserta una entrada. Una segunda entrada abierta viola price_history_open_idx.
func (r *PriceHistoryRepo) Create(ctx context.Context, e *entity.PriceHistoryEntry) error {
	sql, args, err := psql.Insert("price_history").Columns(priceColumns...).Values(
		e.ID, string(e.Ledger), e.ItemID, e.StartDate, e.EndDate, e.Price, e.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert price: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert price", err)
}

func (r *PriceHistoryRepo) selectOne(ctx context.Context, op string, b squirrel.SelectBuilder) (*entity.PriceHistoryEntry, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var row priceRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError(op, err)
	}
	return row.toEntity(), nil
}

// GetOpenForUpdate devuelve la entrada abierta del ítem bloqueada, o nil.
func (r *PriceHistoryRepo) GetOpenForUpdate(ctx context.Context, ledger entity.PriceLedger, itemID string) (*entity.PriceHistoryEntry, error) {
	b := psql.Select(priceColumns...).From("price_history").
		Where(squirrel.Eq{"ledger": string(ledger), "item_id": itemID, "end_date": nil}).
		Suffix("FOR UPDATE")
	return r.selectOne(ctx, "get open price", b)
}

// Close fija la fecha de fin de una entrada.
func (r *PriceHistoryRepo) Close(ctx context.Context, id string, endDate time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE price_history SET end_date = $2 WHERE id = $1 AND end_date IS NULL`, id, endDate)
	return translateError("close price", err)
}

// FindEffective devuelve la entrada cuyo rango contiene date, o nil.
func (r *PriceHistoryRepo) FindEffective(ctx context.Context, ledger entity.PriceLedger, itemID string, date time.Time) (*entity.PriceHistoryEntry, error) {
	b := psql.Select(priceColumns...).From("price_history").
		Where(squirrel.Eq{"ledger": string(ledger), "item_id": itemID}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.Or{squirrel.Eq{"end_date": nil}, squirrel.GtOrEq{"end_date": date}}).
		OrderBy("start_date DESC").Limit(1)
	return r.selectOne(ctx, "find effective price", b)
}

// ListByItem historial completo ordenado por fecha de inicio.
func (r *PriceHistoryRepo) ListByItem(ctx context.Context, ledger entity.PriceLedger, itemID string) ([]*entity.PriceHistoryEntry, error) {
	sql, args, err := psql.Select(priceColumns...).From("price_history").
		Where(squirrel.Eq{"ledger": string(ledger), "item_id": itemID}).
		OrderBy("start_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list prices: %w", err)
	}
	var rows []priceRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list prices", err)
	}
	list := make([]*entity.PriceHistoryEntry, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
