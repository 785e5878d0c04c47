package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

func newOrder(t *testing.T, uc *SupplierOrderUseCase) *dto.SupplierOrderResponse {
	t.Helper()
	o, err := uc.Create(context.Background(), dto.CreateSupplierOrderRequest{
		SupplierID: "prov-1",
		Lines: []dto.SupplierOrderLineRequest{
			{ProductID: "p1", Quantity: 10, UnitCost: decimal.RequireFromString("2.5")},
			{ProductID: "p2", Quantity: 3, UnitCost: decimal.RequireFromString("10.333")},
		},
	})
	require.NoError(t, err)
	return o
}

func TestSupplierOrder_RecepcionGeneraCompras(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	seedProduct(t, store, "p2", 0, "")
	uc := NewSupplierOrderUseCase(store, store.Repos(), nil)
	ledger := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	o := newOrder(t, uc)
	assert.Equal(t, "PENDING", o.Status)
	assert.Equal(t, "25.00", o.Lines[0].LineTotal)
	assert.Equal(t, "31.00", o.Lines[1].LineTotal)
	assert.Equal(t, "56.00", o.TotalAmount)

	got, err := uc.Receive(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", got.Status)
	assert.NotNil(t, got.ReceivedAt)
	assertConsistent(t, ledger, "p1", 10)
	assertConsistent(t, ledger, "p2", 3)

	moves, err := store.Repos().Movements.List(ctx, repository.MovementFilter{SourceID: o.ID})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, entity.MovementPurchase, m.Type)
		assert.Equal(t, entity.SourceSupplierOrder, m.SourceType)
		assert.Equal(t, "Supplier Order #"+o.ID+" received", m.Reason)
	}
}

func TestSupplierOrder_DobleRecepcionRechazada(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	seedProduct(t, store, "p2", 0, "")
	uc := NewSupplierOrderUseCase(store, store.Repos(), nil)
	ledger := NewStockLedgerUseCase(store, store.Repos(), nil, nil)

	o := newOrder(t, uc)
	_, err := uc.Receive(ctx, "u1", o.ID)
	require.NoError(t, err)

	_, err = uc.Receive(ctx, "u1", o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assertConsistent(t, ledger, "p1", 10)

	_, err = uc.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestSupplierOrder_CanceladoNoSeRecibe(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "p1", 0, "")
	seedProduct(t, store, "p2", 0, "")
	uc := NewSupplierOrderUseCase(store, store.Repos(), nil)

	o := newOrder(t, uc)
	c, err := uc.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", c.Status)

	_, err = uc.Receive(ctx, "u1", o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	p, _ := store.Repos().Products.GetByID(ctx, "p1")
	assert.Equal(t, 0, p.CurrentStock)

	_, err = uc.Receive(ctx, "u1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierOrder_ProductoInexistente(t *testing.T) {
	store := memstore.New()
	uc := NewSupplierOrderUseCase(store, store.Repos(), nil)
	_, err := uc.Create(context.Background(), dto.CreateSupplierOrderRequest{
		SupplierID: "prov-1",
		Lines:      []dto.SupplierOrderLineRequest{{ProductID: "fantasma", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment_Suggest(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedProduct(t, store, "a", 10, "4.00")
	seedProduct(t, store, "b", 3, "100.00")
	seedProduct(t, store, "c", 0, "1.00")
	require.NoError(t, store.Repos().Products.SetStock(ctx, "a", 2))
	require.NoError(t, store.Repos().Products.SetStock(ctx, "b", 3))
	require.NoError(t, store.Repos().Products.SetStock(ctx, "c", 5))

	got, err := NewReplenishmentUseCase(store.Repos().Products).Suggest(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2, "c tiene stock sobre el mínimo")

	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, 15, got[0].IdealStock)
	assert.Equal(t, 13, got[0].SuggestedQty)
	assert.Equal(t, "52.00", got[0].EstimatedCost)
	assert.Equal(t, 1, got[0].Priority)

	assert.Equal(t, "b", got[1].ProductID)
	assert.Equal(t, 5, got[1].IdealStock)
	assert.Equal(t, 2, got[1].SuggestedQty)
	assert.Equal(t, "200.00", got[1].EstimatedCost)
}
