package workorder

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

type fixture struct {
	store   *memstore.Store
	uc      *UseCase
	prices  *catalog.PriceLedgerUseCase
	product string
	service string
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Repos().Clients.Create(ctx, &entity.Client{ID: "cli-1", FirstName: "Ana", LastName: "Ruiz"}))

	price := dec("100")
	p, err := catalog.NewProductUseCase(store, store.Repos(), nil).Create(ctx, dto.CreateProductRequest{Code: "ACE-1", Name: "Aceite 5W30", SellingPrice: &price})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Products.SetStock(ctx, p.ID, 5))

	svcPrice := dec("45.50")
	s, err := catalog.NewServiceUseCase(store, store.Repos()).Create(ctx, dto.CreateServiceRequest{Code: "MO", Name: "Mano de obra", SellingPrice: &svcPrice})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		uc:      NewUseCase(store, store.Repos(), nil),
		prices:  catalog.NewPriceLedgerUseCase(store, store.Repos(), nil),
		product: p.ID,
		service: s.ID,
	}
}

func (f *fixture) order(t *testing.T) string {
	t.Helper()
	wo, err := f.uc.Create(context.Background(), dto.CreateWorkOrderRequest{ClientID: "cli-1", VehicleID: "veh-9", Description: "Cambio de aceite"})
	require.NoError(t, err)
	return wo.ID
}

func TestAddProductLine_DescuentoYTotal(t *testing.T) {
	f := newFixture(t)
	id := f.order(t)
	ten := dec("10")

	wo, err := f.uc.AddProductLine(context.Background(), id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 3, DiscountPercent: &ten})
	require.NoError(t, err)
	require.Len(t, wo.ProductLines, 1)
	l := wo.ProductLines[0]
	assert.Equal(t, "100.00", l.StandardPrice)
	assert.Equal(t, "90.00", l.FinalUnitPrice)
	assert.Equal(t, "270.00", l.LineTotal)
	assert.Equal(t, "Aceite 5W30", l.Description)
	assert.Equal(t, "270.00", wo.TotalAmount)
}

func TestLinea_FotoInmutableTrasCambioDePrecio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)

	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 1})
	require.NoError(t, err)

	tomorrow := time.Now().AddDate(0, 0, 1)
	_, err = f.prices.RecordNewPrice(ctx, entity.LedgerProductSelling, f.product, dec("150"), &tomorrow)
	require.NoError(t, err)
	f.uc.now = func() time.Time { return tomorrow }

	wo, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, wo.ProductLines, 2)
	assert.Equal(t, "100.00", wo.ProductLines[0].LineTotal)
	assert.Equal(t, "150.00", wo.ProductLines[1].LineTotal)
	assert.Equal(t, "250.00", wo.TotalAmount)
}

func TestDeleteLine_RestaSuTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)

	_, err := f.uc.AddServiceLine(ctx, id, dto.AddServiceLineRequest{ServiceID: f.service, Quantity: 2})
	require.NoError(t, err)
	wo, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "291.00", wo.TotalAmount)

	wo, err = f.uc.DeleteLine(ctx, id, wo.ServiceLines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", wo.TotalAmount)
	assert.Empty(t, wo.ServiceLines)

	_, err = f.uc.DeleteLine(ctx, id, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecalculateTotal_Idempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)
	d := dec("33.333")
	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 7, DiscountPercent: &d})
	require.NoError(t, err)

	first, err := f.uc.RecalculateTotal(ctx, id)
	require.NoError(t, err)
	second, err := f.uc.RecalculateTotal(ctx, id)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.Equal(t, "466.69", first.StringFixed(2))
}

func TestAddLine_ItemInexistenteNoDejaRastro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)

	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: "fantasma", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.AddServiceLine(ctx, "otra", dto.AddServiceLineRequest{ServiceID: f.service, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	wo, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, wo.ProductLines)
	assert.Equal(t, "0.00", wo.TotalAmount)
}

func TestGetTotals_Desglose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)
	ten := dec("10")

	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 3, DiscountPercent: &ten})
	require.NoError(t, err)
	_, err = f.uc.AddServiceLine(ctx, id, dto.AddServiceLineRequest{ServiceID: f.service, Quantity: 1})
	require.NoError(t, err)

	got, err := f.uc.GetTotals(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, dto.TotalsResponse{
		ServicesSubtotal:       "45.50",
		ProductsBeforeDiscount: "300.00",
		ProductsDiscountTotal:  "30.00",
		ProductsAfterDiscount:  "270.00",
		GrandTotal:             "315.50",
	}, *got)
}

func TestChangeStatus_CompletarConsumeStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)
	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 3})
	require.NoError(t, err)
	_, err = f.uc.AddServiceLine(ctx, id, dto.AddServiceLineRequest{ServiceID: f.service, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.ChangeStatus(ctx, "u1", id, "COMPLETED")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "DRAFT no puede completarse")

	for _, s := range []string{"OPEN", "IN_PROGRESS", "COMPLETED"} {
		_, err = f.uc.ChangeStatus(ctx, "u1", id, s)
		require.NoError(t, err, s)
	}

	p, _ := f.store.Repos().Products.GetByID(ctx, f.product)
	assert.Equal(t, 2, p.CurrentStock)
	moves, err := f.store.Repos().Movements.List(ctx, repository.MovementFilter{SourceType: entity.SourceWorkOrder, SourceID: id})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, entity.MovementConsumption, moves[0].Type)
	assert.Equal(t, -3, moves[0].QuantityDelta)

	_, err = f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.uc.ChangeStatus(ctx, "u1", id, "INVOICED")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.uc.ChangeStatus(ctx, "u1", id, "FINISHED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_CopiaLineas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.order(t)
	_, err := f.uc.AddProductLine(ctx, id, dto.AddProductLineRequest{ProductID: f.product, Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.AddServiceLine(ctx, id, dto.AddServiceLineRequest{ServiceID: f.service, Quantity: 2})
	require.NoError(t, err)

	_, err = f.uc.CreateInvoice(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "sólo se factura una orden completada")

	for _, s := range []string{"OPEN", "COMPLETED"} {
		_, err = f.uc.ChangeStatus(ctx, "u1", id, s)
		require.NoError(t, err)
	}
	inv, err := f.uc.CreateInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", inv.Status)
	assert.Equal(t, "CLIENT", inv.PayerType)
	assert.Equal(t, "cli-1", inv.PayerID)
	assert.Equal(t, id, inv.WorkOrderID)
	assert.Equal(t, "191.00", inv.TotalAmount)
	assert.Equal(t, "191.00", inv.RemainingBalance)
	require.Len(t, inv.Lines, 2)

	wo, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "INVOICED", wo.Status)

	_, err = f.uc.CreateInvoice(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), dto.CreateWorkOrderRequest{ClientID: "nadie"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
