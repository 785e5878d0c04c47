package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ExpenseFilter rango de fechas inclusivo y categoría opcional.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	Limit    int
	Offset   int
}

// ExpenseRepository puerto de persistencia de gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	List(ctx context.Context, f ExpenseFilter) ([]*entity.Expense, error)
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
