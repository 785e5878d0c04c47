package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest factura en borrador para un cliente o una empresa.
type CreateInvoiceRequest struct {
	PayerType string `json:"payerType" validate:"required,oneof=CLIENT COMPANY"`
	PayerID   string `json:"payerId" validate:"required"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// AddInvoiceLineRequest línea de factura: exactamente uno de productId o serviceId.
type AddInvoiceLineRequest struct {
	ProductID       string           `json:"productId" validate:"required_without=ServiceID,excluded_with=ServiceID"`
	ServiceID       string           `json:"serviceId" validate:"required_without=ProductID,excluded_with=ProductID"`
	Description     string           `json:"description" validate:"omitempty,max=500"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID               string         `json:"id"`
	Number           string         `json:"number"`
	PayerType        string         `json:"payerType"`
	PayerID          string         `json:"payerId"`
	WorkOrderID      string         `json:"workOrderId,omitempty"`
	Date             string         `json:"date"`
	Status           string         `json:"status"`
	TotalAmount      string         `json:"totalAmount"`
	RemainingBalance string         `json:"remainingBalance"`
	Notes            string         `json:"notes,omitempty"`
	Lines            []LineResponse `json:"lines,omitempty"`
}

// InvoiceListQuery filtros de listado.
type InvoiceListQuery struct {
	Status    string `query:"status" validate:"omitempty,oneof=DRAFT ISSUED SENT PARTIAL PAID CANCELLED"`
	PayerType string `query:"payerType" validate:"omitempty,oneof=CLIENT COMPANY"`
	PayerID   string `query:"payerId"`
	PageRequest
}

// OutstandingTotalResponse total por cobrar.
type OutstandingTotalResponse struct {
	Outstanding string `json:"outstanding"`
}
