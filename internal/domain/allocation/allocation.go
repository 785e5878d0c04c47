// Package allocation reparte el monto de un pago entre facturas pendientes.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Outstanding factura candidata con su saldo pendiente actual.
type Outstanding struct {
	InvoiceID string
	Remaining decimal.Decimal
}

// Allocation monto aplicado a una factura, con el saldo antes y después.
type Allocation struct {
	InvoiceID     string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Result resultado de repartir un pago.
type Result struct {
	Allocations []Allocation
	Allocated   decimal.Decimal
	Unapplied   decimal.Decimal
}

// FIFO asigna amount a las facturas en el orden recibido (más antigua primero).
// Se salta facturas con saldo ≤ 0 y se detiene al agotar el monto. El sobrante queda sin aplicar.
func FIFO(amount decimal.Decimal, invoices []Outstanding) Result {
	res := Result{Allocated: decimal.Zero, Unapplied: amount}
	left := amount
	for _, inv := range invoices {
		if !left.IsPositive() {
			break
		}
		if !inv.Remaining.IsPositive() {
			continue
		}
		amt := decimal.Min(left, inv.Remaining)
		left = left.Sub(amt)
		res.Allocations = append(res.Allocations, Allocation{
			InvoiceID:     inv.InvoiceID,
			Amount:        amt,
			BalanceBefore: inv.Remaining,
			BalanceAfter:  inv.Remaining.Sub(amt),
		})
		res.Allocated = res.Allocated.Add(amt)
	}
	res.Unapplied = left
	return res
}

// NextStatus estado de una factura después de registrar una asignación.
// Saldo ≤ 0 → PAID. Si no, con partial activo y saldo menor que el total → PARTIAL;
// en otro caso se normaliza a ISSUED.
func NextStatus(total, remaining decimal.Decimal, partial bool) entity.InvoiceStatus {
	if !remaining.IsPositive() {
		return entity.InvoicePaid
	}
	if partial && remaining.LessThan(total) {
		return entity.InvoicePartial
	}
	return entity.InvoiceIssued
}
