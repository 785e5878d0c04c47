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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

var invoiceColumns = []string{
	"id", "number", "payer_type", "client_id", "company_id", "work_order_id", "date", "status",
	"total_amount", "remaining_balance", "notes", "created_at", "updated_at",
}

// outstandingStatuses estados que siguen siendo cuenta por cobrar.
var outstandingStatuses = []string{
	string(entity.InvoiceDraft), string(entity.InvoiceIssued), string(entity.InvoiceSent), string(entity.InvoicePartial),
}

type invoiceRow struct {
	ID               string          `db:"id"`
	Number           string          `db:"number"`
	PayerType        string          `db:"payer_type"`
	ClientID         *string         `db:"client_id"`
	CompanyID        *string         `db:"company_id"`
	WorkOrderID      *string         `db:"work_order_id"`
	Date             time.Time       `db:"date"`
	Status           string          `db:"status"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	Notes            *string         `db:"notes"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r invoiceRow) toEntity() *entity.Invoice {
	return &entity.Invoice{
		ID: r.ID, Number: r.Number, Payer: payerFromColumns(r.PayerType, r.ClientID, r.CompanyID),
		WorkOrderID: deref(r.WorkOrderID), Date: entity.DateOf(r.Date), Status: entity.InvoiceStatus(r.Status),
		TotalAmount: r.TotalAmount, RemainingBalance: r.RemainingBalance, Notes: deref(r.Notes),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// InvoiceRepo facturas y sus líneas sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	payerType, clientID, companyID := payerValues(inv.Payer)
	sql, args, err := psql.Insert("invoices").Columns(invoiceColumns...).Values(
		inv.ID, inv.Number, payerType, clientID, companyID, nullIfEmpty(inv.WorkOrderID), inv.Date,
		string(inv.Status), inv.TotalAmount, inv.RemainingBalance, nullIfEmpty(inv.Notes), inv.CreatedAt, inv.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert invoice: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert invoice", err)
}

func (r *InvoiceRepo) getOne(ctx context.Context, id string, lock bool) (*entity.Invoice, error) {
	b := psql.Select(invoiceColumns...).From("invoices").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select invoice: %w", err)
	}
	var row invoiceRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get invoice", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene la factura bloqueando la fila (asignaciones de pago, cambios de estado).
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, id, true)
}

// Update persiste estado, total, saldo y notas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET status = $2, total_amount = $3, remaining_balance = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		inv.ID, string(inv.Status), inv.TotalAmount, inv.RemainingBalance, nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	return translateError("update invoice", err)
}

// Delete elimina la factura (sus líneas caen en cascada).
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return translateError("delete invoice", err)
}

func (r *InvoiceRepo) selectMany(ctx context.Context, op string, b squirrel.SelectBuilder) ([]*entity.Invoice, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var rows []invoiceRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError(op, err)
	}
	list := make([]*entity.Invoice, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// List facturas filtradas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	b := psql.Select(invoiceColumns...).From("invoices")
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": string(f.Status)})
	}
	if f.Payer != nil {
		b = b.Where(payerWhere(*f.Payer))
	}
	b = applyPage(b.OrderBy("date DESC", "seq DESC"), f.Limit, f.Offset)
	return r.selectMany(ctx, "list invoices", b)
}

// ListOutstandingByPayer facturas pendientes del pagador, más antiguas primero (orden FIFO).
func (r *InvoiceRepo) ListOutstandingByPayer(ctx context.Context, payer entity.Payer) ([]*entity.Invoice, error) {
	b := psql.Select(invoiceColumns...).From("invoices").
		Where(payerWhere(payer)).
		Where(squirrel.Eq{"status": outstandingStatuses}).
		OrderBy("date ASC", "created_at ASC", "seq ASC")
	return r.selectMany(ctx, "list outstanding invoices", b)
}

// SumOutstanding Σ remaining_balance de las facturas pendientes.
func (r *InvoiceRepo) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	sql, args, err := psql.Select("COALESCE(SUM(remaining_balance), 0)").From("invoices").
		Where(squirrel.Eq{"status": outstandingStatuses}).ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum outstanding: %w", err)
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return decimal.Zero, translateError("sum outstanding", err)
	}
	return sum, nil
}

// CreateLine persiste una línea (foto de precio inmutable).
func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	values := append([]any{l.ID, l.InvoiceID}, pricedLineValues(l.PricedLine, l.CreatedAt)...)
	sql, args, err := psql.Insert("invoice_lines").
		Columns(append([]string{"id", "invoice_id"}, pricedLineColumns...)...).
		Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert invoice line: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert invoice line", err)
}

func toInvoiceLine(row pricedLineRow) *entity.InvoiceLine {
	return &entity.InvoiceLine{ID: row.ID, InvoiceID: row.ParentID, PricedLine: row.pricedLine(), CreatedAt: row.CreatedAt}
}

// GetLine obtiene una línea por ID.
func (r *InvoiceRepo) GetLine(ctx context.Context, lineID string) (*entity.InvoiceLine, error) {
	sql, args, err := psql.Select(selectPricedLines("invoice_id")...).From("invoice_lines").
		Where(squirrel.Eq{"id": lineID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select invoice line: %w", err)
	}
	var row pricedLineRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get invoice line", err)
	}
	return toInvoiceLine(row), nil
}

// DeleteLine elimina una línea.
func (r *InvoiceRepo) DeleteLine(ctx context.Context, lineID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE id = $1`, lineID)
	return translateError("delete invoice line", err)
}

// ListLines líneas de la factura en orden de alta.
func (r *InvoiceRepo) ListLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	sql, args, err := psql.Select(selectPricedLines("invoice_id")...).From("invoice_lines").
		Where(squirrel.Eq{"invoice_id": invoiceID}).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list invoice lines: %w", err)
	}
	var rows []pricedLineRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list invoice lines", err)
	}
	list := make([]*entity.InvoiceLine, 0, len(rows))
	for _, row := range rows {
		list = append(list, toInvoiceLine(row))
	}
	return list, nil
}
