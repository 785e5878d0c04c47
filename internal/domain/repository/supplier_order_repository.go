package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// SupplierOrderRepository puerto de persistencia de pedidos a proveedor.
type SupplierOrderRepository interface {
	Create(ctx context.Context, order *entity.SupplierOrder, lines []*entity.SupplierOrderLine) error
	GetByID(ctx context.Context, id string) (*entity.SupplierOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SupplierOrder, error)
	ListLines(ctx context.Context, orderID string) ([]*entity.SupplierOrderLine, error)
	Update(ctx context.Context, order *entity.SupplierOrder) error
}
