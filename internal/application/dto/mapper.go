package dto

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// FromProduct mapea un producto a su salida.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		SellingPrice: Money(p.SellingPrice),
		BuyingPrice:  Money(p.BuyingPrice),
		MinStock:     p.MinStock,
		CurrentStock: p.CurrentStock,
		Active:       p.Active,
	}
}

// FromService mapea un servicio.
func FromService(s *entity.ServiceItem) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		Code:         s.Code,
		Name:         s.Name,
		Description:  s.Description,
		SellingPrice: Money(s.SellingPrice),
		Active:       s.Active,
	}
}

// FromPriceEntry mapea una entrada del historial.
func FromPriceEntry(e *entity.PriceHistoryEntry) PriceEntryResponse {
	return PriceEntryResponse{
		ID:        e.ID,
		Ledger:    string(e.Ledger),
		ItemID:    e.ItemID,
		StartDate: Date(e.StartDate),
		EndDate:   DatePtr(e.EndDate),
		Price:     Money(e.Price),
	}
}

// FromMovement mapea un movimiento de stock.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		QuantityDelta: m.QuantityDelta,
		Type:          string(m.Type),
		Date:          m.Date,
		Reason:        m.Reason,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
	}
}

// FromPricedLine mapea la foto de precio de una línea.
func FromPricedLine(id string, l entity.PricedLine) LineResponse {
	out := LineResponse{
		ID:              id,
		ItemType:        string(l.Item.Kind),
		Description:     l.Description,
		Quantity:        l.Quantity,
		StandardPrice:   Money(l.StandardPrice),
		DiscountPercent: l.DiscountPercent.StringFixed(2),
		FinalUnitPrice:  Money(l.FinalUnitPrice),
		LineTotal:       Money(l.LineTotal),
	}
	if l.Item.IsProduct() {
		out.ProductID = l.Item.ID
	} else {
		out.ServiceID = l.Item.ID
	}
	return out
}

// FromWorkOrder mapea una orden con sus líneas separadas por tipo.
func FromWorkOrder(wo *entity.WorkOrder, lines []*entity.WorkOrderLine) WorkOrderResponse {
	out := WorkOrderResponse{
		ID:           wo.ID,
		ClientID:     wo.ClientID,
		VehicleID:    wo.VehicleID,
		Description:  wo.Description,
		Status:       string(wo.Status),
		TotalAmount:  Money(wo.TotalAmount),
		ProductLines: []LineResponse{},
		ServiceLines: []LineResponse{},
	}
	for _, l := range lines {
		if l.Item.IsProduct() {
			out.ProductLines = append(out.ProductLines, FromPricedLine(l.ID, l.PricedLine))
		} else {
			out.ServiceLines = append(out.ServiceLines, FromPricedLine(l.ID, l.PricedLine))
		}
	}
	return out
}

// FromInvoice mapea una factura; lines puede ser nil en listados.
func FromInvoice(inv *entity.Invoice, lines []*entity.InvoiceLine) InvoiceResponse {
	out := InvoiceResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		PayerType:        string(inv.Payer.Type),
		PayerID:          inv.Payer.ID,
		WorkOrderID:      inv.WorkOrderID,
		Date:             Date(inv.Date),
		Status:           string(inv.Status),
		TotalAmount:      Money(inv.TotalAmount),
		RemainingBalance: Money(inv.RemainingBalance),
		Notes:            inv.Notes,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, FromPricedLine(l.ID, l.PricedLine))
	}
	return out
}

// FromPayment mapea un pago con sus asignaciones.
func FromPayment(p *entity.Payment, allocs []*entity.PaymentAllocation) PaymentResponse {
	out := PaymentResponse{
		ID:          p.ID,
		PayerType:   string(p.Payer.Type),
		PayerID:     p.Payer.ID,
		TotalAmount: Money(p.TotalAmount),
		Method:      string(p.Method),
		Date:        Date(p.Date),
		Notes:       p.Notes,
		Allocations: make([]AllocationResponse, 0, len(allocs)),
	}
	for _, a := range allocs {
		out.Allocations = append(out.Allocations, AllocationResponse{
			ID:              a.ID,
			InvoiceID:       a.InvoiceID,
			AllocatedAmount: Money(a.AllocatedAmount),
		})
	}
	return out
}

// FromExpense mapea un gasto.
func FromExpense(e *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Date:          Date(e.Date),
		Category:      e.Category,
		Label:         e.Label,
		Amount:        Money(e.Amount),
		PaymentMethod: string(e.PaymentMethod),
		Notes:         e.Notes,
	}
}

// FromSupplierOrder mapea un pedido a proveedor con sus líneas.
func FromSupplierOrder(o *entity.SupplierOrder, lines []*entity.SupplierOrderLine) SupplierOrderResponse {
	out := SupplierOrderResponse{
		ID:          o.ID,
		SupplierID:  o.SupplierID,
		OrderDate:   Date(o.OrderDate),
		Status:      string(o.Status),
		TotalAmount: Money(o.TotalAmount),
		Notes:       o.Notes,
		ReceivedAt:  o.ReceivedAt,
		Lines:       make([]SupplierOrderLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, SupplierOrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  Money(l.UnitCost),
			LineTotal: Money(l.LineTotal),
		})
	}
	return out
}
