package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Totals desglose de totales de una orden de trabajo o factura.
type Totals struct {
	ServicesSubtotal       decimal.Decimal
	ProductsBeforeDiscount decimal.Decimal
	ProductsDiscountTotal  decimal.Decimal
	ProductsAfterDiscount  decimal.Decimal
	GrandTotal             decimal.Decimal
}

// Sum suma los LineTotal de las líneas.
func Sum(lines []entity.PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return Money(total)
}

// Summarize calcula el desglose: productos antes y después de descuento, servicios y total general.
func Summarize(lines []entity.PricedLine) Totals {
	services := decimal.Zero
	before := decimal.Zero
	after := decimal.Zero
	for _, l := range lines {
		if l.Item.IsProduct() {
			before = before.Add(l.StandardPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			after = after.Add(l.LineTotal)
			continue
		}
		services = services.Add(l.LineTotal)
	}
	before = Money(before)
	after = Money(after)
	services = Money(services)
	return Totals{
		ServicesSubtotal:       services,
		ProductsBeforeDiscount: before,
		ProductsDiscountTotal:  before.Sub(after),
		ProductsAfterDiscount:  after,
		GrandTotal:             services.Add(after),
	}
}
