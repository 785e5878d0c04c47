package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

var paymentColumns = []string{
	"id", "payer_type", "client_id", "company_id", "total_amount", "method", "date", "notes", "created_by", "created_at",
}

type paymentRow struct {
	ID          string          `db:"id"`
	PayerType   string          `db:"payer_type"`
	ClientID    *string         `db:"client_id"`
	CompanyID   *string         `db:"company_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Method      string          `db:"method"`
	Date        time.Time       `db:"date"`
	Notes       *string         `db:"notes"`
	CreatedBy   *string         `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r paymentRow) toEntity() *entity.Payment {
	return &entity.Payment{
		ID: r.ID, Payer: payerFromColumns(r.PayerType, r.ClientID, r.CompanyID), TotalAmount: r.TotalAmount,
		Method: entity.PaymentMethod(r.Method), Date: entity.DateOf(r.Date), Notes: deref(r.Notes),
		CreatedBy: deref(r.CreatedBy), CreatedAt: r.CreatedAt,
	}
}

// PaymentRepo pagos y asignaciones sobre PostgreSQL. Ambos son inmutables: sólo se insertan.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	payerType, clientID, companyID := payerValues(p.Payer)
	sql, args, err := psql.Insert("payments").Columns(paymentColumns...).Values(
		p.ID, payerType, clientID, companyID, p.TotalAmount, string(p.Method), p.Date,
		nullIfEmpty(p.Notes), nullIfEmpty(p.CreatedBy), p.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert payment", err)
}

// GetByID obtiene un pago.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	sql, args, err := psql.Select(paymentColumns...).From("payments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select payment: %w", err)
	}
	var row paymentRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get payment", err)
	}
	return row.toEntity(), nil
}

// ListByPayer pagos del pagador, más recientes primero.
func (r *PaymentRepo) ListByPayer(ctx context.Context, payer entity.Payer, limit, offset int) ([]*entity.Payment, error) {
	b := psql.Select(paymentColumns...).From("payments").Where(payerWhere(payer)).OrderBy("date DESC", "created_at DESC")
	sql, args, err := applyPage(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payments: %w", err)
	}
	var rows []paymentRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list payments", err)
	}
	list := make([]*entity.Payment, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// CreateAllocation persiste una asignación de pago a factura.
func (r *PaymentRepo) CreateAllocation(ctx context.Context, a *entity.PaymentAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_allocations (id, payment_id, invoice_id, allocated_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.PaymentID, a.InvoiceID, a.AllocatedAmount, a.CreatedAt,
	)
	return translateError("insert allocation", err)
}

// ListAllocationsByPayment asignaciones del pago en orden de aplicación.
func (r *PaymentRepo) ListAllocationsByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentAllocation, error) {
	var rows []struct {
		ID              string          `db:"id"`
		PaymentID       string          `db:"payment_id"`
		InvoiceID       string          `db:"invoice_id"`
		AllocatedAmount decimal.Decimal `db:"allocated_amount"`
		CreatedAt       time.Time       `db:"created_at"`
	}
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT id, payment_id, invoice_id, allocated_amount, created_at
		FROM payment_allocations WHERE payment_id = $1 ORDER BY seq`, paymentID)
	if err != nil {
		return nil, translateError("list allocations", err)
	}
	list := make([]*entity.PaymentAllocation, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.PaymentAllocation{
			ID: row.ID, PaymentID: row.PaymentID, InvoiceID: row.InvoiceID,
			AllocatedAmount: row.AllocatedAmount, CreatedAt: row.CreatedAt,
		})
	}
	return list, nil
}

// SumAllocatedByInvoice Σ asignaciones recibidas por la factura.
func (r *PaymentRepo) SumAllocatedByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(allocated_amount), 0) FROM payment_allocations WHERE invoice_id = $1`, invoiceID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, translateError("sum allocations", err)
	}
	return sum, nil
}
