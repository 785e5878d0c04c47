package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// MovementFilter filtros de listado del ledger de stock. From es inclusivo, To exclusivo.
type MovementFilter struct {
	ProductID  string
	Type       entity.MovementType
	SourceType string
	SourceID   string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockMovementRepository puerto de persistencia del ledger de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	Delete(ctx context.Context, id string) error
	SumByProduct(ctx context.Context, productID string) (int, error)
	// SumAll devuelve Σ quantityDelta por producto (sólo productos con movimientos).
	SumAll(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
