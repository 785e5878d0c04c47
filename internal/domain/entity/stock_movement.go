package entity

import "time"

// MovementType tipo de movimiento de stock.
type MovementType string

const (
	MovementPurchase    MovementType = "PURCHASE"    // recepción de proveedor
	MovementSale        MovementType = "SALE"        // venta de mostrador
	MovementAdjustment  MovementType = "ADJUSTMENT"  // inventario físico
	MovementReturn      MovementType = "RETURN"      // devolución de cliente
	MovementConsumption MovementType = "CONSUMPTION" // consumo en orden de trabajo
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementConsumption:
		return true
	}
	return false
}

// AcceptsDelta aplica la regla de signo del tipo: entradas positivas, salidas negativas, ajustes distintos de cero.
func (t MovementType) AcceptsDelta(delta int) bool {
	switch t {
	case MovementPurchase, MovementReturn:
		return delta > 0
	case MovementSale, MovementConsumption:
		return delta < 0
	case MovementAdjustment:
		return delta != 0
	}
	return false
}

// Orígenes de un movimiento (referencia, no propiedad).
const (
	SourceSupplierOrder = "SUPPLIER_ORDER"
	SourceWorkOrder     = "WORK_ORDER"
	SourceManual        = "MANUAL"
)

// StockMovement es una entrada del ledger de stock de un producto.
type StockMovement struct {
	ID            string
	ProductID     string
	QuantityDelta int
	Type          MovementType
	Date          time.Time
	Reason        string
	SourceType    string
	SourceID      string
	CreatedBy     string
	CreatedAt     time.Time
}
