package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// WorkOrderFilter filtros de listado de órdenes de trabajo.
type WorkOrderFilter struct {
	Statuses []entity.WorkOrderStatus
	ClientID string
	Limit    int
	Offset   int
}

// WorkOrderRepository puerto de persistencia de órdenes de trabajo y sus líneas.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error)
	Update(ctx context.Context, wo *entity.WorkOrder) error
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	List(ctx context.Context, f WorkOrderFilter) ([]*entity.WorkOrder, error)
	Count(ctx context.Context, statuses ...entity.WorkOrderStatus) (int, error)

	CreateLine(ctx context.Context, line *entity.WorkOrderLine) error
	GetLine(ctx context.Context, lineID string) (*entity.WorkOrderLine, error)
	DeleteLine(ctx context.Context, lineID string) error
	ListLines(ctx context.Context, workOrderID string) ([]*entity.WorkOrderLine, error)
}
