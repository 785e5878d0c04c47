package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentCheck    PaymentMethod = "CHECK"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// Valid indica si el medio es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCheck, PaymentTransfer:
		return true
	}
	return false
}

// Payment pago recibido de un cliente o empresa.
type Payment struct {
	ID          string
	Payer       Payer
	TotalAmount decimal.Decimal
	Method      PaymentMethod
	Date        time.Time
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// PaymentAllocation porción de un pago aplicada a una factura. Inmutable.
type PaymentAllocation struct {
	ID              string
	PaymentID       string
	InvoiceID       string
	AllocatedAmount decimal.Decimal
	CreatedAt       time.Time
}
