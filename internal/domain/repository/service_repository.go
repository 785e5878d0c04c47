package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ServiceItemRepository puerto de persistencia de servicios de catálogo.
type ServiceItemRepository interface {
	Create(ctx context.Context, s *entity.ServiceItem) error
	GetByID(ctx context.Context, id string) (*entity.ServiceItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ServiceItem, error)
	Update(ctx context.Context, s *entity.ServiceItem) error
	UpdateSellingPrice(ctx context.Context, id string, price decimal.Decimal) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.ServiceItem, error)
	// Count cuenta todos los servicios, activos o no.
	Count(ctx context.Context) (int, error)
}
