package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ExpenseUseCase registro de gastos operativos.
type ExpenseUseCase struct {
	repo     repository.ExpenseRepository
	cache    ports.CacheInvalidator
	exporter ports.SpreadsheetExporter
	now      func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, cache ports.CacheInvalidator, exporter ports.SpreadsheetExporter) *ExpenseUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &ExpenseUseCase{repo: repo, cache: cache, exporter: exporter, now: time.Now}
}

// Create registra un gasto. Sin fecha se toma hoy.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor que cero")
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, domain.Invalid("paymentMethod", "medio de pago desconocido %q", in.PaymentMethod)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, domain.Invalid("category", "requerido")
	}
	now := uc.now()
	date := entity.DateOf(now)
	if in.Date != "" {
		d, err := entity.ParseDate(in.Date)
		if err != nil {
			return nil, domain.Invalid("date", "fecha inválida")
		}
		date = d
	}
	e := &entity.Expense{
		ID:            uuid.New().String(),
		Date:          date,
		Category:      category,
		Label:         strings.TrimSpace(in.Label),
		Amount:        pricing.Money(in.Amount),
		PaymentMethod: method,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromExpense(e)
	return &out, nil
}

func expenseFilter(q dto.ExpenseListQuery) (repository.ExpenseFilter, error) {
	f := repository.ExpenseFilter{Category: q.Category, Limit: q.Limit, Offset: q.Offset}
	if q.From != "" {
		d, err := entity.ParseDate(q.From)
		if err != nil {
			return f, domain.Invalid("from", "fecha inválida")
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := entity.ParseDate(q.To)
		if err != nil {
			return f, domain.Invalid("to", "fecha inválida")
		}
		f.To = &d
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.Invalid("to", "anterior a from")
	}
	return f, nil
}

// List lista gastos por rango de fechas (ambos extremos inclusivos) y categoría.
func (uc *ExpenseUseCase) List(ctx context.Context, q dto.ExpenseListQuery) ([]dto.ExpenseResponse, error) {
	q.DefaultPage()
	f, err := expenseFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.FromExpense(e))
	}
	return out, nil
}

// Export escribe en w la hoja de cálculo de gastos filtrados, sin paginar.
func (uc *ExpenseUseCase) Export(ctx context.Context, q dto.ExpenseListQuery, w io.Writer) error {
	if uc.exporter == nil {
		return fmt.Errorf("exportación de gastos no configurada")
	}
	f, err := expenseFilter(q)
	if err != nil {
		return err
	}
	f.Limit, f.Offset = 0, 0
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return err
	}
	return uc.exporter.WriteExpenses(w, list)
}
