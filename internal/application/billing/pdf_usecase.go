package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// No se genera para borradores: el contenido aún puede cambiar.
type PDFUseCase struct {
	repos     repository.Repos
	generator ports.InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repos repository.Repos, generator ports.InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// DownloadInvoicePDF devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound                si la factura no existe.
//   - domain.ErrInvalidStateTransition  si la factura está en DRAFT.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Status == entity.InvoiceDraft {
		return nil, "", fmt.Errorf("%w: emita la factura antes de descargar el PDF", domain.ErrInvalidStateTransition)
	}

	payerName, payerInfo, err := resolvePayer(ctx, uc.repos, inv.Payer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pagador: %w", err)
	}

	lines, err := uc.repos.Invoices.ListLines(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	doc := ports.InvoiceDocument{Invoice: inv, PayerName: payerName, PayerInfo: payerInfo}
	for _, l := range lines {
		name := l.Description
		if name == "" {
			name = l.Item.String()
		}
		doc.Lines = append(doc.Lines, ports.InvoiceDocumentLine{Line: l, ItemName: name})
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
