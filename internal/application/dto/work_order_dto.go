package dto

import "github.com/shopspring/decimal"

// CreateWorkOrderRequest entrada para abrir una orden de trabajo.
type CreateWorkOrderRequest struct {
	ClientID    string `json:"clientId" validate:"required"`
	VehicleID   string `json:"vehicleId" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// AddProductLineRequest línea de producto.
type AddProductLineRequest struct {
	ProductID       string           `json:"productId" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
}

// AddServiceLineRequest línea de servicio.
type AddServiceLineRequest struct {
	ServiceID       string           `json:"serviceId" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
}

// ChangeStatusRequest cambio de estado.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LineResponse foto de precio de una línea (orden o factura).
type LineResponse struct {
	ID              string `json:"id"`
	ItemType        string `json:"itemType"`
	ProductID       string `json:"productId,omitempty"`
	ServiceID       string `json:"serviceId,omitempty"`
	Description     string `json:"description,omitempty"`
	Quantity        int    `json:"quantity"`
	StandardPrice   string `json:"standardPrice"`
	DiscountPercent string `json:"discountPercent"`
	FinalUnitPrice  string `json:"finalUnitPrice"`
	LineTotal       string `json:"lineTotal"`
}

// WorkOrderResponse salida de una orden de trabajo con sus líneas.
type WorkOrderResponse struct {
	ID           string         `json:"id"`
	ClientID     string         `json:"clientId"`
	VehicleID    string         `json:"vehicleId,omitempty"`
	Description  string         `json:"description,omitempty"`
	Status       string         `json:"status"`
	TotalAmount  string         `json:"totalAmount"`
	ProductLines []LineResponse `json:"productLines"`
	ServiceLines []LineResponse `json:"serviceLines"`
}

// TotalsResponse desglose de totales.
type TotalsResponse struct {
	ServicesSubtotal       string `json:"servicesSubtotal"`
	ProductsBeforeDiscount string `json:"productsBeforeDiscount"`
	ProductsDiscountTotal  string `json:"productsDiscountTotal"`
	ProductsAfterDiscount  string `json:"productsAfterDiscount"`
	GrandTotal             string `json:"grandTotal"`
}
