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

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

type expenseRow struct {
	ID            string          `db:"id"`
	Date          time.Time       `db:"date"`
	Category      string          `db:"category"`
	Label         string          `db:"label"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	Notes         *string         `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
}

// ExpenseRepo gastos operativos sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (id, date, category, label, amount, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Date, e.Category, e.Label, e.Amount, string(e.PaymentMethod), nullIfEmpty(e.Notes), e.CreatedAt,
	)
	return translateError("insert expense", err)
}

// List gastos en el rango [From, To] (ambos inclusivos), más recientes primero.
func (r *ExpenseRepo) List(ctx context.Context, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	b := psql.Select("id", "date", "category", "label", "amount", "payment_method", "notes", "created_at").From("expenses")
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"date": *f.To})
	}
	if f.Category != "" {
		b = b.Where(squirrel.Eq{"category": f.Category})
	}
	sql, args, err := applyPage(b.OrderBy("date DESC", "created_at DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expenses: %w", err)
	}
	var rows []expenseRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list expenses", err)
	}
	list := make([]*entity.Expense, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.Expense{
			ID: row.ID, Date: entity.DateOf(row.Date), Category: row.Category, Label: row.Label, Amount: row.Amount,
			PaymentMethod: entity.PaymentMethod(row.PaymentMethod), Notes: deref(row.Notes), CreatedAt: row.CreatedAt,
		})
	}
	return list, nil
}

// SumBetween Σ montos con fecha en [from, to].
func (r *ExpenseRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date BETWEEN $1 AND $2`, from, to,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, translateError("sum expenses", err)
	}
	return sum, nil
}
