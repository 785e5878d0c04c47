package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("taller-api/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + SELECT ... FOR UPDATE).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) (err error) {
	ctx, span := tracer.Start(ctx, "postgres.tx",
		trace.WithAttributes(attribute.String("tx.isolation", string(pgx.ReadCommitted))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback con contexto propio: debe completarse aunque ctx se haya cancelado.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewRepos(spanQuerier{q: tx, span: span})); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError("commit transaction", err)
	}
	return nil
}

// spanQuerier cuelga cada sentencia de la transacción bajo el span de la tx: los casos de uso
// consultan con su propio ctx, que no conoce ese span.
type spanQuerier struct {
	q    Querier
	span trace.Span
}

func (s spanQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.q.Exec(trace.ContextWithSpan(ctx, s.span), sql, args...)
}

func (s spanQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.q.Query(trace.ContextWithSpan(ctx, s.span), sql, args...)
}

func (s spanQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.q.QueryRow(trace.ContextWithSpan(ctx, s.span), sql, args...)
}
