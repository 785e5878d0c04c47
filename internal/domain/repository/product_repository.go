package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search       string // código, nombre o código de barras (ILIKE)
	Category     string
	ActiveOnly   bool
	LowStockOnly bool
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica los datos descriptivos; no toca precios ni stock.
	Update(ctx context.Context, product *entity.Product) error
	UpdateSellingPrice(ctx context.Context, id string, price decimal.Decimal) error
	UpdateBuyingPrice(ctx context.Context, id string, price decimal.Decimal) error
	// AdjustStock suma delta al stock cacheado.
	AdjustStock(ctx context.Context, id string, delta int) error
	SetStock(ctx context.Context, id string, stock int) error
	StockSnapshot(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	CountLowStock(ctx context.Context) (int, error)
	// Count cuenta todos los productos, activos o no.
	Count(ctx context.Context) (int, error)
}
