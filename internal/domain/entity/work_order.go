package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrder orden de trabajo sobre un vehículo de un cliente.
type WorkOrder struct {
	ID          string
	ClientID    string
	VehicleID   string
	Description string
	Status      WorkOrderStatus
	TotalAmount decimal.Decimal // suma cacheada de los LineTotal
	OpenedAt    time.Time
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
