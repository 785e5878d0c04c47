package inventory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

func seedProduct(t *testing.T, store *memstore.Store, id string, minStock int, buying string) {
	t.Helper()
	p := &entity.Product{ID: id, Code: "C-" + id, Name: "Producto " + id, MinStock: minStock, Active: true}
	if buying != "" {
		p.BuyingPrice = decimal.RequireFromString(buying)
	}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
}

func assertConsistent(t *testing.T, uc *StockLedgerUseCase, productID string, want int) {
	t.Helper()
	got, err := uc.ComputeCurrentStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, want, got.ComputedStock)
	assert.Equal(t, want, got.CachedStock)
	assert.True(t, got.Consistent)
}

func TestRecordMovement_CompraYVenta(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	uc := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	_, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "p1", QuantityDelta: 50, Type: "PURCHASE"})
	require.NoError(t, err)
	assertConsistent(t, uc, "p1", 50)

	m, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "p1", QuantityDelta: -10, Type: "SALE", Reason: "mostrador"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceManual, m.SourceType)
	assertConsistent(t, uc, "p1", 40)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	uc := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	cases := []dto.RecordMovementRequest{
		{ProductID: "p1", QuantityDelta: -5, Type: "PURCHASE"},
		{ProductID: "p1", QuantityDelta: 5, Type: "SALE"},
		{ProductID: "p1", QuantityDelta: 0, Type: "ADJUSTMENT"},
		{ProductID: "p1", QuantityDelta: 5, Type: "REGALO"},
		{QuantityDelta: 5, Type: "PURCHASE"},
	}
	for _, in := range cases {
		_, err := uc.RecordMovement(ctx, "u1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}

	_, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "nope", QuantityDelta: 1, Type: "PURCHASE"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, store.Runs)
	assertConsistent(t, uc, "p1", 0)
}

func TestReverseMovement(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	uc := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	_, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "p1", QuantityDelta: 8, Type: "PURCHASE"})
	require.NoError(t, err)
	m, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "p1", QuantityDelta: -3, Type: "ADJUSTMENT"})
	require.NoError(t, err)

	require.NoError(t, uc.ReverseMovement(ctx, m.ID))
	assertConsistent(t, uc, "p1", 8)

	assert.ErrorIs(t, uc.ReverseMovement(ctx, m.ID), domain.ErrNotFound)
}

func TestReconcileAll_CorrigeDeriva(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	seedProduct(t, store, "p2", 0, "")
	uc := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	_, err := uc.RecordMovement(ctx, "u1", dto.RecordMovementRequest{ProductID: "p1", QuantityDelta: 5, Type: "PURCHASE"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Products.SetStock(ctx, "p1", 7))
	require.NoError(t, store.Repos().Products.SetStock(ctx, "p2", 3))

	res, err := uc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked)
	require.Len(t, res.Corrections, 2)
	assert.Equal(t, dto.StockCorrection{ProductID: "p1", Cached: 7, Computed: 5}, res.Corrections[0])
	assert.Equal(t, dto.StockCorrection{ProductID: "p2", Cached: 3, Computed: 0}, res.Corrections[1])
	assertConsistent(t, uc, "p1", 5)
	assertConsistent(t, uc, "p2", 0)

	again, err := uc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Corrections)
}

type fakeExporter struct{ movements int }

func (f *fakeExporter) WriteMovements(w io.Writer, m []*entity.StockMovement) error {
	f.movements = len(m)
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (f *fakeExporter) WriteExpenses(io.Writer, []*entity.Expense) error { return nil }

func TestListAndExportMovements(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	seedProduct(t, store, "p2", 0, "")
	exp := &fakeExporter{}
	uc := NewStockLedgerUseCase(store, store.Repos(), nil, exp)

	for _, in := range []dto.RecordMovementRequest{
		{ProductID: "p1", QuantityDelta: 4, Type: "PURCHASE"},
		{ProductID: "p2", QuantityDelta: 2, Type: "PURCHASE"},
		{ProductID: "p1", QuantityDelta: -1, Type: "SALE"},
	} {
		_, err := uc.RecordMovement(ctx, "u1", in)
		require.NoError(t, err)
	}

	list, err := uc.ListMovements(ctx, dto.MovementListQuery{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, -1, list[0].QuantityDelta, "más recientes primero")

	_, err = uc.ListMovements(ctx, dto.MovementListQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var buf bytes.Buffer
	require.NoError(t, uc.ExportMovements(ctx, dto.MovementListQuery{Type: "PURCHASE"}, &buf))
	assert.Equal(t, 2, exp.movements)
	assert.Equal(t, "xlsx", buf.String())
}
