// Package pricing contiene la aritmética decimal de líneas y totales (redondeo HALF_UP a 2 decimales).
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

const (
	MoneyScale = 2
	rateScale  = 4
)

var hundred = decimal.NewFromInt(100)

// Money redondea HALF_UP a 2 decimales.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// NormalizeDiscount: ausente o no positivo equivale a 0.
func NormalizeDiscount(discount *decimal.Decimal) decimal.Decimal {
	if discount == nil || !discount.IsPositive() {
		return decimal.Zero
	}
	return *discount
}

// Resolve devuelve el precio de la entrada vigente o, si no hay, el precio cacheado del ítem.
// Un cacheado sin asignar es cero.
func Resolve(entry *entity.PriceHistoryEntry, cached decimal.Decimal) decimal.Decimal {
	if entry != nil {
		return entry.Price
	}
	return cached
}

// PriceLine calcula la foto de precio de una línea.
// finalUnitPrice = standard × (1 − d/100) y lineTotal = finalUnitPrice × quantity, ambos HALF_UP a 2 decimales.
func PriceLine(item entity.CatalogRef, standard decimal.Decimal, quantity int, discount *decimal.Decimal) (entity.PricedLine, error) {
	if quantity <= 0 {
		return entity.PricedLine{}, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if standard.IsNegative() {
		return entity.PricedLine{}, domain.Invalid("standardPrice", "no puede ser negativo")
	}
	d := NormalizeDiscount(discount)
	if d.GreaterThan(hundred) {
		return entity.PricedLine{}, domain.Invalid("discountPercent", "debe estar entre 0 y 100")
	}
	rate := d.Div(hundred).Round(rateScale)
	final := Money(standard.Mul(decimal.NewFromInt(1).Sub(rate)))
	return entity.PricedLine{
		Item:            item,
		Quantity:        quantity,
		StandardPrice:   Money(standard),
		DiscountPercent: d,
		FinalUnitPrice:  final,
		LineTotal:       Money(final.Mul(decimal.NewFromInt(int64(quantity)))),
	}, nil
}
