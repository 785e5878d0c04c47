package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricedLine es la foto inmutable de precio de una línea de orden de trabajo o factura.
type PricedLine struct {
	Item            CatalogRef
	Description     string
	Quantity        int
	StandardPrice   decimal.Decimal
	DiscountPercent decimal.Decimal
	FinalUnitPrice  decimal.Decimal
	LineTotal       decimal.Decimal
}

// WorkOrderLine línea de producto o servicio de una orden de trabajo.
type WorkOrderLine struct {
	ID          string
	WorkOrderID string
	PricedLine
	CreatedAt time.Time
}

// InvoiceLine línea de producto o servicio de una factura.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	PricedLine
	CreatedAt time.Time
}
