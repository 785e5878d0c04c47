package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierOrder pedido a proveedor; al recibirse genera movimientos PURCHASE.
type SupplierOrder struct {
	ID          string
	SupplierID  string
	OrderDate   time.Time
	Status      SupplierOrderStatus
	TotalAmount decimal.Decimal
	Notes       string
	ReceivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierOrderLine línea de un pedido a proveedor.
type SupplierOrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
	LineTotal decimal.Decimal
}
