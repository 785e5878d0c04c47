package dto

import "github.com/shopspring/decimal"

// AllocationRequest asignación manual de un monto a una factura.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceId" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// ApplyPaymentRequest entrada del motor de asignación de pagos.
type ApplyPaymentRequest struct {
	PayerType   string              `json:"payerType" validate:"required,oneof=CLIENT COMPANY"`
	PayerID     string              `json:"payerId" validate:"required"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Method      string              `json:"method" validate:"required,oneof=CASH CARD CHECK TRANSFER"`
	Date        string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string              `json:"notes" validate:"omitempty,max=1000"`
	Allocations []AllocationRequest `json:"allocations" validate:"omitempty,dive"`
}

// AllocationResponse asignación persistida.
type AllocationResponse struct {
	ID              string `json:"id"`
	InvoiceID       string `json:"invoiceId"`
	AllocatedAmount string `json:"allocatedAmount"`
}

// PaymentResponse salida de un pago con sus asignaciones.
type PaymentResponse struct {
	ID          string               `json:"id"`
	PayerType   string               `json:"payerType"`
	PayerID     string               `json:"payerId"`
	TotalAmount string               `json:"totalAmount"`
	Method      string               `json:"method"`
	Date        string               `json:"date"`
	Notes       string               `json:"notes,omitempty"`
	Allocations []AllocationResponse `json:"allocations"`
	Unapplied   string               `json:"unapplied,omitempty"`
}
