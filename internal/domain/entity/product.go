package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una pieza o consumible del taller.
// SellingPrice, BuyingPrice y CurrentStock son proyecciones cacheadas de sus ledgers
// (historial de precios y movimientos de stock); sólo se modifican a través de ellos.
type Product struct {
	ID           string
	Code         string
	Barcode      string
	Name         string
	Brand        string
	Category     string
	SellingPrice decimal.Decimal
	BuyingPrice  decimal.Decimal
	MinStock     int
	CurrentStock int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock indica si el producto activo está en o por debajo de su stock mínimo.
func (p *Product) LowStock() bool {
	return p.Active && p.CurrentStock <= p.MinStock
}
