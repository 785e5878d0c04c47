package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// reorderLimit tope de productos bajo mínimo considerados en una sugerencia.
const reorderLimit = 500

// ReplenishmentUseCase genera la lista de reposición a partir de los productos bajo stock mínimo.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// idealStock objetivo de reposición: 1,5 × stock mínimo, redondeado hacia arriba.
func idealStock(minStock int) int {
	return (minStock*3 + 1) / 2
}

// Suggest devuelve los productos activos con stock ≤ mínimo, la cantidad sugerida para volver
// al stock ideal y su costo estimado al precio de compra vigente.
// Orden: mayor déficit bajo el mínimo primero, luego mayor costo estimado.
func (uc *ReplenishmentUseCase) Suggest(ctx context.Context) ([]dto.ReorderSuggestion, error) {
	items, _, err := uc.products.List(ctx, repository.ProductFilter{
		ActiveOnly:   true,
		LowStockOnly: true,
		Limit:        reorderLimit,
	})
	if err != nil {
		return nil, err
	}

	type row struct {
		p       *entity.Product
		ideal   int
		qty     int
		cost    decimal.Decimal
		deficit int
	}
	rows := make([]row, 0, len(items))
	for _, p := range items {
		ideal := idealStock(p.MinStock)
		qty := ideal - p.CurrentStock
		if qty < 0 {
			qty = 0
		}
		rows = append(rows, row{
			p:       p,
			ideal:   ideal,
			qty:     qty,
			cost:    pricing.Money(p.BuyingPrice.Mul(decimal.NewFromInt(int64(qty)))),
			deficit: p.MinStock - p.CurrentStock,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.deficit != b.deficit {
			return a.deficit > b.deficit
		}
		if !a.cost.Equal(b.cost) {
			return a.cost.GreaterThan(b.cost)
		}
		return a.p.Code < b.p.Code
	})

	out := make([]dto.ReorderSuggestion, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.ReorderSuggestion{
			ProductID:     r.p.ID,
			Code:          r.p.Code,
			Name:          r.p.Name,
			CurrentStock:  r.p.CurrentStock,
			MinStock:      r.p.MinStock,
			IdealStock:    r.ideal,
			SuggestedQty:  r.qty,
			UnitCost:      dto.Money(r.p.BuyingPrice),
			EstimatedCost: dto.Money(r.cost),
			Priority:      i + 1,
		})
	}
	return out, nil
}
