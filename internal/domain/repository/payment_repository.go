package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// PaymentRepository puerto de persistencia de pagos y asignaciones (ambos inmutables).
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByPayer(ctx context.Context, payer entity.Payer, limit, offset int) ([]*entity.Payment, error)
	CreateAllocation(ctx context.Context, a *entity.PaymentAllocation) error
	ListAllocationsByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentAllocation, error)
	SumAllocatedByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
