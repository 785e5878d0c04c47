package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas.
type InvoiceFilter struct {
	Status entity.InvoiceStatus
	Payer  *entity.Payer
	Limit  int
	Offset int
}

// InvoiceRepository puerto de persistencia de facturas y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// Update persiste estado, total, saldo y notas.
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// ListOutstandingByPayer facturas no PAID ni CANCELLED del pagador, más antiguas primero.
	ListOutstandingByPayer(ctx context.Context, payer entity.Payer) ([]*entity.Invoice, error)
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)

	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	GetLine(ctx context.Context, lineID string) (*entity.InvoiceLine, error)
	DeleteLine(ctx context.Context, lineID string) error
	ListLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
}
