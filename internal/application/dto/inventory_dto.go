package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest entrada del ledger de stock.
type RecordMovementRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	QuantityDelta int    `json:"quantityDelta" validate:"required"`
	Type          string `json:"type" validate:"required,oneof=PURCHASE SALE ADJUSTMENT RETURN CONSUMPTION"`
	Reason        string `json:"reason" validate:"omitempty,max=500"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	QuantityDelta int       `json:"quantityDelta"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason,omitempty"`
	SourceType    string    `json:"sourceType,omitempty"`
	SourceID      string    `json:"sourceId,omitempty"`
}

// MovementListQuery filtros de listado (query string).
type MovementListQuery struct {
	ProductID  string `query:"productId"`
	Type       string `query:"type" validate:"omitempty,oneof=PURCHASE SALE ADJUSTMENT RETURN CONSUMPTION"`
	SourceType string `query:"sourceType"`
	SourceID   string `query:"sourceId"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// ComputedStockResponse stock recalculado desde el ledger frente al cacheado.
type ComputedStockResponse struct {
	ProductID     string `json:"productId"`
	ComputedStock int    `json:"computedStock"`
	CachedStock   int    `json:"cachedStock"`
	Consistent    bool   `json:"consistent"`
}

// StockCorrection corrección aplicada por la reconciliación.
type StockCorrection struct {
	ProductID string `json:"productId"`
	Cached    int    `json:"cached"`
	Computed  int    `json:"computed"`
}

// ReconcileResponse resultado de reconciliar todo el stock cacheado.
type ReconcileResponse struct {
	Checked     int               `json:"checked"`
	Corrections []StockCorrection `json:"corrections"`
}

// SupplierOrderLineRequest línea de pedido a proveedor.
type SupplierOrderLineRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

// CreateSupplierOrderRequest entrada para crear un pedido a proveedor.
type CreateSupplierOrderRequest struct {
	SupplierID string                     `json:"supplierId" validate:"required"`
	OrderDate  string                     `json:"orderDate" validate:"omitempty,datetime=2006-01-02"`
	Notes      string                     `json:"notes" validate:"omitempty,max=1000"`
	Lines      []SupplierOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SupplierOrderLineResponse salida de una línea de pedido.
type SupplierOrderLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitCost  string `json:"unitCost"`
	LineTotal string `json:"lineTotal"`
}

// SupplierOrderResponse salida de un pedido.
type SupplierOrderResponse struct {
	ID          string                      `json:"id"`
	SupplierID  string                      `json:"supplierId"`
	OrderDate   string                      `json:"orderDate"`
	Status      string                      `json:"status"`
	TotalAmount string                      `json:"totalAmount"`
	Notes       string                      `json:"notes,omitempty"`
	ReceivedAt  *time.Time                  `json:"receivedAt,omitempty"`
	Lines       []SupplierOrderLineResponse `json:"lines"`
}

// ReorderSuggestion producto bajo mínimo con la cantidad sugerida de pedido.
type ReorderSuggestion struct {
	ProductID     string `json:"productId"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	CurrentStock  int    `json:"currentStock"`
	MinStock      int    `json:"minStock"`
	IdealStock    int    `json:"idealStock"`
	SuggestedQty  int    `json:"suggestedQty"`
	UnitCost      string `json:"unitCost"`
	EstimatedCost string `json:"estimatedCost"`
	Priority      int    `json:"priority"`
}
