package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// SupplierOrderUseCase pedidos a proveedor; la recepción alimenta el ledger de stock.
type SupplierOrderUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewSupplierOrderUseCase construye el caso de uso.
func NewSupplierOrderUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator) *SupplierOrderUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &SupplierOrderUseCase{txRunner: txRunner, repos: repos, cache: cache, now: time.Now}
}

// Create registra un pedido PENDING; lineTotal = quantity × unitCost.
func (uc *SupplierOrderUseCase) Create(ctx context.Context, in dto.CreateSupplierOrderRequest) (*dto.SupplierOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.Invalid("supplierId", "es obligatorio")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("lines", "el pedido necesita al menos una línea")
	}
	now := uc.now()
	orderDate := entity.DateOf(now)
	if in.OrderDate != "" {
		d, err := entity.ParseDate(in.OrderDate)
		if err != nil {
			return nil, domain.Invalid("orderDate", "fecha inválida")
		}
		orderDate = d
	}
	order := &entity.SupplierOrder{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		OrderDate:  orderDate,
		Status:     entity.SupplierOrderPending,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]*entity.SupplierOrderLine, 0, len(in.Lines))
	total := decimal.Zero
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor que cero")
		}
		if l.UnitCost.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("lines[%d].unitCost", i), "no puede ser negativo")
		}
		line := &entity.SupplierOrderLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  pricing.Money(l.UnitCost),
			LineTotal: pricing.Money(l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		}
		total = total.Add(line.LineTotal)
		lines = append(lines, line)
	}
	order.TotalAmount = total

	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		for _, l := range lines {
			p, err := r.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
		}
		return r.SupplierOrders.Create(ctx, order, lines)
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromSupplierOrder(order, lines)
	return &out, nil
}

// Get obtiene un pedido con sus líneas.
func (uc *SupplierOrderUseCase) Get(ctx context.Context, id string) (*dto.SupplierOrderResponse, error) {
	o, err := uc.repos.SupplierOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.SupplierOrders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromSupplierOrder(o, lines)
	return &out, nil
}

// Receive genera un movimiento PURCHASE por línea y pasa el pedido a RECEIVED.
// Un pedido ya recibido (o cancelado) se rechaza con ErrInvalidStateTransition.
func (uc *SupplierOrderUseCase) Receive(ctx context.Context, userID, orderID string) (*dto.SupplierOrderResponse, error) {
	var (
		order *entity.SupplierOrder
		lines []*entity.SupplierOrderLine
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		o, err := r.SupplierOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := o.Status.TransitionTo(entity.SupplierOrderReceived); err != nil {
			return err
		}
		lines, err = r.SupplierOrders.ListLines(ctx, orderID)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, l := range lines {
			m := &entity.StockMovement{
				ProductID:     l.ProductID,
				QuantityDelta: l.Quantity,
				Type:          entity.MovementPurchase,
				Date:          now,
				Reason:        fmt.Sprintf("Supplier Order #%s received", orderID),
				SourceType:    entity.SourceSupplierOrder,
				SourceID:      orderID,
				CreatedBy:     userID,
				CreatedAt:     now,
			}
			if err := RecordInTx(ctx, r, m); err != nil {
				return err
			}
		}
		o.Status = entity.SupplierOrderReceived
		o.ReceivedAt = &now
		o.UpdatedAt = now
		order = o
		return r.SupplierOrders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromSupplierOrder(order, lines)
	return &out, nil
}

// Cancel anula un pedido pendiente.
func (uc *SupplierOrderUseCase) Cancel(ctx context.Context, orderID string) (*dto.SupplierOrderResponse, error) {
	var order *entity.SupplierOrder
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		o, err := r.SupplierOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := o.Status.TransitionTo(entity.SupplierOrderCancelled); err != nil {
			return err
		}
		o.Status = entity.SupplierOrderCancelled
		o.UpdatedAt = uc.now()
		order = o
		return r.SupplierOrders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, order.ID)
}
