package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestWriteMovements(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := NewExcelExporter().WriteMovements(&buf, []*entity.StockMovement{
		{ProductID: "p1", QuantityDelta: 50, Type: entity.MovementPurchase, Date: day, Reason: "Supplier Order #o1 received", SourceType: entity.SourceSupplierOrder, SourceID: "o1"},
		{ProductID: "p1", QuantityDelta: -3, Type: entity.MovementConsumption, Date: day},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, []string{"2024-03-01", "p1", "PURCHASE", "50", "Supplier Order #o1 received", "SUPPLIER_ORDER", "o1"}, rows[1])
	assert.Equal(t, "-3", rows[2][3])
}

func TestWriteExpenses(t *testing.T) {
	var buf bytes.Buffer
	err := NewExcelExporter().WriteExpenses(&buf, []*entity.Expense{
		{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Category: "Alquiler", Label: "mayo", Amount: decimal.RequireFromString("1500.50"), PaymentMethod: entity.PaymentTransfer},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(expensesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alquiler", rows[1][1])
	assert.Equal(t, "1500.5", rows[1][3])
}
