package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto. Los precios iniciales abren su historial.
type CreateProductRequest struct {
	Code         string           `json:"code" validate:"required,max=50"`
	Barcode      string           `json:"barcode" validate:"omitempty,max=50"`
	Name         string           `json:"name" validate:"required,max=200"`
	Brand        string           `json:"brand" validate:"omitempty,max=100"`
	Category     string           `json:"category" validate:"omitempty,max=100"`
	MinStock     int              `json:"minStock" validate:"min=0"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	BuyingPrice  *decimal.Decimal `json:"buyingPrice"`
}

// UpdateProductRequest datos descriptivos editables (precios y stock sólo vía ledgers).
type UpdateProductRequest struct {
	Barcode  *string `json:"barcode" validate:"omitempty,max=50"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Brand    *string `json:"brand" validate:"omitempty,max=100"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	MinStock *int    `json:"minStock" validate:"omitempty,min=0"`
	Active   *bool   `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Barcode      string `json:"barcode,omitempty"`
	Name         string `json:"name"`
	Brand        string `json:"brand,omitempty"`
	Category     string `json:"category,omitempty"`
	SellingPrice string `json:"sellingPrice"`
	BuyingPrice  string `json:"buyingPrice"`
	MinStock     int    `json:"minStock"`
	CurrentStock int    `json:"currentStock"`
	Active       bool   `json:"active"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateServiceRequest entrada para crear un servicio de catálogo.
type CreateServiceRequest struct {
	Code         string           `json:"code" validate:"required,max=50"`
	Name         string           `json:"name" validate:"required,max=200"`
	Description  string           `json:"description" validate:"omitempty,max=1000"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	SellingPrice string `json:"sellingPrice"`
	Active       bool   `json:"active"`
}

// RecordPriceRequest nuevo precio; startDate "YYYY-MM-DD" (por defecto hoy).
type RecordPriceRequest struct {
	Price     decimal.Decimal `json:"price"`
	StartDate string          `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

// PriceEntryResponse entrada del historial de precios.
type PriceEntryResponse struct {
	ID        string  `json:"id"`
	Ledger    string  `json:"ledger"`
	ItemID    string  `json:"itemId"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Price     string  `json:"price"`
}

// CurrentPriceResponse precio efectivo a una fecha.
type CurrentPriceResponse struct {
	ItemID string `json:"itemId"`
	Ledger string `json:"ledger"`
	AsOf   string `json:"asOf"`
	Price  string `json:"price"`
}
