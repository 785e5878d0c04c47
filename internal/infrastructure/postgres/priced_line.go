package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// pricedLineColumns columnas comunes de work_order_lines e invoice_lines, tras la columna del documento.
var pricedLineColumns = []string{
	"item_type", "product_id", "service_id", "description", "quantity",
	"standard_price", "discount_percent", "final_unit_price", "line_total", "created_at",
}

type pricedLineRow struct {
	ID              string          `db:"id"`
	ParentID        string          `db:"parent_id"`
	ItemType        string          `db:"item_type"`
	ProductID       *string         `db:"product_id"`
	ServiceID       *string         `db:"service_id"`
	Description     *string         `db:"description"`
	Quantity        int             `db:"quantity"`
	StandardPrice   decimal.Decimal `db:"standard_price"`
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	FinalUnitPrice  decimal.Decimal `db:"final_unit_price"`
	LineTotal       decimal.Decimal `db:"line_total"`
	CreatedAt       time.Time       `db:"created_at"`
}

func (r pricedLineRow) pricedLine() entity.PricedLine {
	ref := entity.CatalogRef{Kind: entity.CatalogKind(r.ItemType)}
	if ref.IsProduct() {
		ref.ID = deref(r.ProductID)
	} else {
		ref.ID = deref(r.ServiceID)
	}
	return entity.PricedLine{
		Item: ref, Description: deref(r.Description), Quantity: r.Quantity,
		StandardPrice: r.StandardPrice, DiscountPercent: r.DiscountPercent,
		FinalUnitPrice: r.FinalUnitPrice, LineTotal: r.LineTotal,
	}
}

// pricedLineValues valores para pricedLineColumns: la referencia va a product_id o service_id según el tipo.
func pricedLineValues(l entity.PricedLine, createdAt time.Time) []any {
	var productID, serviceID *string
	if l.Item.IsProduct() {
		productID = &l.Item.ID
	} else {
		serviceID = &l.Item.ID
	}
	return []any{
		string(l.Item.Kind), productID, serviceID, nullIfEmpty(l.Description), l.Quantity,
		l.StandardPrice, l.DiscountPercent, l.FinalUnitPrice, l.LineTotal, createdAt,
	}
}

// selectPricedLines columnas de lectura con el id del documento renombrado a parent_id.
func selectPricedLines(parentColumn string) []string {
	return append([]string{"id", parentColumn + " AS parent_id"}, pricedLineColumns...)
}
