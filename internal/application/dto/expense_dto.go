package dto

import "github.com/shopspring/decimal"

// CreateExpenseRequest alta de gasto.
type CreateExpenseRequest struct {
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Category      string          `json:"category" validate:"required,max=100"`
	Label         string          `json:"label" validate:"required,max=200"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=CASH CARD CHECK TRANSFER"`
	Notes         string          `json:"notes" validate:"omitempty,max=1000"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes,omitempty"`
}

// ExpenseListQuery filtros de listado.
type ExpenseListQuery struct {
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Category string `query:"category"`
	PageRequest
}
