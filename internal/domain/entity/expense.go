package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto operativo del taller (alquiler, herramientas, servicios públicos).
type Expense struct {
	ID            string
	Date          time.Time
	Category      string
	Label         string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
	CreatedAt     time.Time
}
