package usecase

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

type countingCache struct{ bumps int }

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return nil
}

type fakeExporter struct{ expenses int }

func (f *fakeExporter) WriteMovements(io.Writer, []*entity.StockMovement) error { return nil }

func (f *fakeExporter) WriteExpenses(w io.Writer, e []*entity.Expense) error {
	f.expenses = len(e)
	_, err := w.Write([]byte("xlsx"))
	return err
}

func newExpenseUC(store *memstore.Store) (*ExpenseUseCase, *countingCache, *fakeExporter) {
	cache := &countingCache{}
	exp := &fakeExporter{}
	uc := NewExpenseUseCase(store.Repos().Expenses, cache, exp)
	uc.now = func() time.Time { return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC) }
	return uc, cache, exp
}

func TestExpense_Create(t *testing.T) {
	ctx := context.Background()
	uc, cache, _ := newExpenseUC(memstore.New())

	out, err := uc.Create(ctx, dto.CreateExpenseRequest{
		Category: " Alquiler ", Label: "Local mayo", Amount: decimal.RequireFromString("1500.005"), PaymentMethod: "TRANSFER",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", out.Date)
	assert.Equal(t, "Alquiler", out.Category)
	assert.Equal(t, "1500.01", out.Amount)
	assert.Equal(t, 1, cache.bumps)
}

func TestExpense_Create_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, cache, _ := newExpenseUC(memstore.New())

	cases := map[string]dto.CreateExpenseRequest{
		"monto cero":     {Category: "x", Label: "x", Amount: decimal.Zero, PaymentMethod: "CASH"},
		"monto negativo": {Category: "x", Label: "x", Amount: decimal.NewFromInt(-1), PaymentMethod: "CASH"},
		"medio de pago":  {Category: "x", Label: "x", Amount: decimal.NewFromInt(1), PaymentMethod: "BITCOIN"},
		"fecha":          {Category: "x", Label: "x", Amount: decimal.NewFromInt(1), PaymentMethod: "CASH", Date: "20-05-2024"},
		"sin categoría":  {Category: "  ", Label: "x", Amount: decimal.NewFromInt(1), PaymentMethod: "CASH"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, cache.bumps)
}

func TestExpense_ListYExport(t *testing.T) {
	ctx := context.Background()
	uc, _, exp := newExpenseUC(memstore.New())

	for _, in := range []dto.CreateExpenseRequest{
		{Date: "2024-04-30", Category: "Alquiler", Label: "abril", Amount: decimal.NewFromInt(1000), PaymentMethod: "TRANSFER"},
		{Date: "2024-05-01", Category: "Herramientas", Label: "llaves", Amount: decimal.NewFromInt(80), PaymentMethod: "CARD"},
		{Date: "2024-05-31", Category: "Alquiler", Label: "mayo", Amount: decimal.NewFromInt(1000), PaymentMethod: "TRANSFER"},
	} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	may, err := uc.List(ctx, dto.ExpenseListQuery{From: "2024-05-01", To: "2024-05-31"})
	require.NoError(t, err)
	require.Len(t, may, 2)
	assert.Equal(t, "2024-05-31", may[0].Date)

	rent, err := uc.List(ctx, dto.ExpenseListQuery{Category: "Alquiler"})
	require.NoError(t, err)
	assert.Len(t, rent, 2)

	_, err = uc.List(ctx, dto.ExpenseListQuery{From: "2024-05-31", To: "2024-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(ctx, dto.ExpenseListQuery{From: "2024-05-01"}, &buf))
	assert.Equal(t, 2, exp.expenses)
	assert.Equal(t, "xlsx", buf.String())
}
