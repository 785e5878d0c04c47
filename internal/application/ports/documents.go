package ports

import (
	"context"
	"io"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InvoiceDocument datos necesarios para representar una factura.
type InvoiceDocument struct {
	Invoice   *entity.Invoice
	PayerName string
	PayerInfo string
	Lines     []InvoiceDocumentLine
}

// InvoiceDocumentLine línea con el nombre del ítem ya resuelto.
type InvoiceDocumentLine struct {
	Line     *entity.InvoiceLine
	ItemName string
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// SpreadsheetExporter escribe hojas de cálculo de los ledgers.
type SpreadsheetExporter interface {
	WriteMovements(w io.Writer, movements []*entity.StockMovement) error
	WriteExpenses(w io.Writer, expenses []*entity.Expense) error
}
