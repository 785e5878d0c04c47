// Package workorder gestiona órdenes de trabajo: líneas con foto de precio, totales,
// estados y su paso a factura.
package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// UseCase casos de uso de órdenes de trabajo.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator) *UseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &UseCase{txRunner: txRunner, repos: repos, cache: cache, now: time.Now}
}

// Create abre una orden en DRAFT para un cliente existente.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.ClientID == "" {
		return nil, domain.Invalid("clientId", "es obligatorio")
	}
	now := uc.now()
	wo := &entity.WorkOrder{
		ID:          uuid.New().String(),
		ClientID:    in.ClientID,
		VehicleID:   in.VehicleID,
		Description: in.Description,
		Status:      entity.WorkOrderDraft,
		TotalAmount: decimal.Zero,
		OpenedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		c, err := r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("cliente %s: %w", in.ClientID, domain.ErrNotFound)
		}
		return r.WorkOrders.Create(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromWorkOrder(wo, nil)
	return &out, nil
}

// Get obtiene la orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repos.WorkOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.WorkOrders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromWorkOrder(wo, lines)
	return &out, nil
}

// List lista órdenes filtrando por estado y cliente, más recientes primero.
func (uc *UseCase) List(ctx context.Context, statuses []string, clientID string, page dto.PageRequest) ([]dto.WorkOrderResponse, error) {
	page.DefaultPage()
	f := repository.WorkOrderFilter{ClientID: clientID, Limit: page.Limit, Offset: page.Offset}
	for _, s := range statuses {
		st := entity.WorkOrderStatus(s)
		if !st.Valid() {
			return nil, domain.Invalid("status", "estado desconocido %q", s)
		}
		f.Statuses = append(f.Statuses, st)
	}
	list, err := uc.repos.WorkOrders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkOrderResponse, 0, len(list))
	for _, wo := range list {
		out = append(out, dto.FromWorkOrder(wo, nil))
	}
	return out, nil
}

// lockEditable bloquea la orden y verifica que admita cambios de líneas.
func lockEditable(ctx context.Context, r repository.Repos, id string) (*entity.WorkOrder, error) {
	wo, err := r.WorkOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if !wo.Status.Editable() {
		return nil, fmt.Errorf("%w: la orden está en %s", domain.ErrInvalidStateTransition, wo.Status)
	}
	return wo, nil
}

// recalcInTx relee las líneas y reescribe totalAmount.
func recalcInTx(ctx context.Context, r repository.Repos, id string) (decimal.Decimal, error) {
	lines, err := r.WorkOrders.ListLines(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	total := pricing.Sum(priced(lines))
	if err := r.WorkOrders.UpdateTotal(ctx, id, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func priced(lines []*entity.WorkOrderLine) []entity.PricedLine {
	out := make([]entity.PricedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.PricedLine)
	}
	return out
}

func (uc *UseCase) addLine(ctx context.Context, id string, item entity.CatalogRef, quantity int, discount *decimal.Decimal) (*dto.WorkOrderResponse, error) {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := lockEditable(ctx, r, id); err != nil {
			return err
		}
		now := uc.now()
		pl, err := catalog.PriceLine(ctx, r, item, quantity, discount, now)
		if err != nil {
			return err
		}
		line := &entity.WorkOrderLine{
			ID:          uuid.New().String(),
			WorkOrderID: id,
			PricedLine:  pl,
			CreatedAt:   now,
		}
		if err := r.WorkOrders.CreateLine(ctx, line); err != nil {
			return err
		}
		_, err = recalcInTx(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

// AddProductLine agrega una línea de producto al precio de venta vigente y recalcula el total.
func (uc *UseCase) AddProductLine(ctx context.Context, id string, in dto.AddProductLineRequest) (*dto.WorkOrderResponse, error) {
	return uc.addLine(ctx, id, entity.ProductRef(in.ProductID), in.Quantity, in.DiscountPercent)
}

// AddServiceLine agrega una línea de servicio; el descuento sigue la misma regla que en productos.
func (uc *UseCase) AddServiceLine(ctx context.Context, id string, in dto.AddServiceLineRequest) (*dto.WorkOrderResponse, error) {
	return uc.addLine(ctx, id, entity.ServiceRef(in.ServiceID), in.Quantity, in.DiscountPercent)
}

// DeleteLine quita una línea de la orden y recalcula el total.
func (uc *UseCase) DeleteLine(ctx context.Context, id, lineID string) (*dto.WorkOrderResponse, error) {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := lockEditable(ctx, r, id); err != nil {
			return err
		}
		line, err := r.WorkOrders.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil || line.WorkOrderID != id {
			return domain.ErrNotFound
		}
		if err := r.WorkOrders.DeleteLine(ctx, lineID); err != nil {
			return err
		}
		_, err = recalcInTx(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

// RecalculateTotal suma los LineTotal de todas las líneas y lo guarda como totalAmount.
func (uc *UseCase) RecalculateTotal(ctx context.Context, id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		wo, err := r.WorkOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		total, err = recalcInTx(ctx, r, id)
		return err
	})
	return total, err
}

// GetTotals desglose de servicios, productos antes y después de descuento y total general.
func (uc *UseCase) GetTotals(ctx context.Context, id string) (*dto.TotalsResponse, error) {
	wo, err := uc.repos.WorkOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.WorkOrders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	t := pricing.Summarize(priced(lines))
	return &dto.TotalsResponse{
		ServicesSubtotal:       dto.Money(t.ServicesSubtotal),
		ProductsBeforeDiscount: dto.Money(t.ProductsBeforeDiscount),
		ProductsDiscountTotal:  dto.Money(t.ProductsDiscountTotal),
		ProductsAfterDiscount:  dto.Money(t.ProductsAfterDiscount),
		GrandTotal:             dto.Money(t.GrandTotal),
	}, nil
}

// ChangeStatus aplica una transición de estado. Al pasar a COMPLETED cada línea de producto
// descuenta su cantidad del stock con un movimiento CONSUMPTION. INVOICED sólo se alcanza facturando.
func (uc *UseCase) ChangeStatus(ctx context.Context, userID, id, status string) (*dto.WorkOrderResponse, error) {
	to := entity.WorkOrderStatus(status)
	if !to.Valid() {
		return nil, domain.Invalid("status", "estado desconocido %q", status)
	}
	if to == entity.WorkOrderInvoiced {
		return nil, fmt.Errorf("%w: use la facturación de la orden", domain.ErrInvalidStateTransition)
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		wo, err := r.WorkOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if err := wo.Status.TransitionTo(to); err != nil {
			return err
		}
		now := uc.now()
		if to == entity.WorkOrderCompleted {
			if err := consume(ctx, r, wo, userID, now); err != nil {
				return err
			}
		}
		if to == entity.WorkOrderCompleted || to == entity.WorkOrderCancelled {
			wo.ClosedAt = &now
		}
		wo.Status = to
		wo.UpdatedAt = now
		return r.WorkOrders.Update(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	return uc.Get(ctx, id)
}

func consume(ctx context.Context, r repository.Repos, wo *entity.WorkOrder, userID string, now time.Time) error {
	lines, err := r.WorkOrders.ListLines(ctx, wo.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if !l.Item.IsProduct() {
			continue
		}
		m := &entity.StockMovement{
			ProductID:     l.Item.ID,
			QuantityDelta: -l.Quantity,
			Type:          entity.MovementConsumption,
			Date:          now,
			Reason:        "Work Order #" + wo.ID,
			SourceType:    entity.SourceWorkOrder,
			SourceID:      wo.ID,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := inventory.RecordInTx(ctx, r, m); err != nil {
			return err
		}
	}
	return nil
}

// CreateInvoice genera una factura DRAFT para el cliente de una orden COMPLETED copiando las fotos
// de precio de sus líneas, y pasa la orden a INVOICED.
func (uc *UseCase) CreateInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var (
		inv      *entity.Invoice
		invLines []*entity.InvoiceLine
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		wo, err := r.WorkOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if err := wo.Status.TransitionTo(entity.WorkOrderInvoiced); err != nil {
			return err
		}
		lines, err := r.WorkOrders.ListLines(ctx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		total := pricing.Sum(priced(lines))
		invID := uuid.New().String()
		date := entity.DateOf(now)
		inv = &entity.Invoice{
			ID:               invID,
			Number:           entity.InvoiceNumber(date, invID),
			Payer:            entity.Payer{Type: entity.PayerClient, ID: wo.ClientID},
			WorkOrderID:      wo.ID,
			Date:             date,
			Status:           entity.InvoiceDraft,
			TotalAmount:      total,
			RemainingBalance: total,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range lines {
			il := &entity.InvoiceLine{
				ID:         uuid.New().String(),
				InvoiceID:  invID,
				PricedLine: l.PricedLine,
				CreatedAt:  now,
			}
			if err := r.Invoices.CreateLine(ctx, il); err != nil {
				return err
			}
			invLines = append(invLines, il)
		}
		wo.Status = entity.WorkOrderInvoiced
		wo.UpdatedAt = now
		return r.WorkOrders.Update(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromInvoice(inv, invLines)
	return &out, nil
}
