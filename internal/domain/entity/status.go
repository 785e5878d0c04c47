package entity

import (
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceIssued    InvoiceStatus = "ISSUED"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// WorkOrderStatus estado de una orden de trabajo.
type WorkOrderStatus string

const (
	WorkOrderDraft      WorkOrderStatus = "DRAFT"
	WorkOrderOpen       WorkOrderStatus = "OPEN"
	WorkOrderInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderInvoiced   WorkOrderStatus = "INVOICED"
	WorkOrderCancelled  WorkOrderStatus = "CANCELLED"
)

// SupplierOrderStatus estado de un pedido a proveedor.
type SupplierOrderStatus string

const (
	SupplierOrderPending   SupplierOrderStatus = "PENDING"
	SupplierOrderReceived  SupplierOrderStatus = "RECEIVED"
	SupplierOrderCancelled SupplierOrderStatus = "CANCELLED"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	// Una factura en borrador puede recibir pagos (FIFO) y pasa directamente a ISSUED/PARTIAL/PAID.
	InvoiceDraft:   {InvoiceIssued, InvoicePartial, InvoicePaid, InvoiceCancelled},
	InvoiceIssued:  {InvoiceSent, InvoicePartial, InvoicePaid, InvoiceCancelled},
	InvoiceSent:    {InvoiceIssued, InvoicePartial, InvoicePaid, InvoiceCancelled},
	InvoicePartial: {InvoiceIssued, InvoicePaid, InvoiceCancelled},
}

var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderDraft:      {WorkOrderOpen, WorkOrderCancelled},
	WorkOrderOpen:       {WorkOrderInProgress, WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderCompleted:  {WorkOrderInvoiced},
}

var supplierOrderTransitions = map[SupplierOrderStatus][]SupplierOrderStatus{
	SupplierOrderPending: {SupplierOrderReceived, SupplierOrderCancelled},
}

// checkTransition es la única regla de transición: to debe figurar entre los destinos de from.
// Pasar al mismo estado no es una transición.
func checkTransition[S ~string](table map[S][]S, from, to S) error {
	for _, next := range table[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidStateTransition, from, to)
}

// TransitionTo valida el cambio de estado de la factura.
func (s InvoiceStatus) TransitionTo(to InvoiceStatus) error {
	return checkTransition(invoiceTransitions, s, to)
}

// Valid indica si el estado es conocido.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoiceSent, InvoicePartial, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// Editable indica si las líneas de la factura pueden modificarse.
func (s InvoiceStatus) Editable() bool { return s == InvoiceDraft }

// Outstanding indica si la factura sigue siendo una cuenta por cobrar.
func (s InvoiceStatus) Outstanding() bool {
	return s != InvoicePaid && s != InvoiceCancelled
}

// TransitionTo valida el cambio de estado de la orden de trabajo.
func (s WorkOrderStatus) TransitionTo(to WorkOrderStatus) error {
	return checkTransition(workOrderTransitions, s, to)
}

// Valid indica si el estado es conocido.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderDraft, WorkOrderOpen, WorkOrderInProgress, WorkOrderCompleted, WorkOrderInvoiced, WorkOrderCancelled:
		return true
	}
	return false
}

// Editable indica si se pueden agregar o quitar líneas.
func (s WorkOrderStatus) Editable() bool {
	return s == WorkOrderDraft || s == WorkOrderOpen || s == WorkOrderInProgress
}

// TransitionTo valida el cambio de estado del pedido.
func (s SupplierOrderStatus) TransitionTo(to SupplierOrderStatus) error {
	return checkTransition(supplierOrderTransitions, s, to)
}
