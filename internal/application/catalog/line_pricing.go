package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PriceLine construye la foto de precio de una línea para item: resuelve el precio de venta
// vigente a asOf (historial, luego cacheado, luego cero) y aplica cantidad y descuento.
// Devuelve domain.ErrNotFound si el ítem no existe. Se usa dentro de la transacción del llamador.
func PriceLine(ctx context.Context, r repository.Repos, item entity.CatalogRef, quantity int, discount *decimal.Decimal, asOf time.Time) (entity.PricedLine, error) {
	if err := item.Validate(); err != nil {
		return entity.PricedLine{}, err
	}
	ledger := entity.LedgerProductSelling
	if !item.IsProduct() {
		ledger = entity.LedgerServiceSelling
	}
	standard, name, err := currentPrice(ctx, r, ledger, item.ID, asOf)
	if err != nil {
		return entity.PricedLine{}, err
	}
	line, err := pricing.PriceLine(item, standard, quantity, discount)
	if err != nil {
		return entity.PricedLine{}, err
	}
	line.Description = name
	return line, nil
}
