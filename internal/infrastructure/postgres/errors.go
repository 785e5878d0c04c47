package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// uniqueCodes traduce el nombre de la restricción única a su código estable (ver migrations/).
var uniqueCodes = map[string]string{
	"products_code_key":      domain.CodeUniqueProductCode,
	"products_barcode_key":   domain.CodeUniqueProductBarcode,
	"services_code_key":      domain.CodeUniqueServiceCode,
	"clients_email_key":      domain.CodeUniqueClientEmail,
	"companies_ice_key":      domain.CodeUniqueCompanyICE,
	"users_username_key":     domain.CodeUniqueUsername,
	"price_history_open_idx": domain.CodeUniqueOpenPrice,
}

// translateError envuelve err con op y convierte los errores de PostgreSQL en errores de dominio.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		code, ok := uniqueCodes[pgErr.ConstraintName]
		if !ok {
			code = domain.CodeUniqueViolation
		}
		return &domain.ConstraintError{Code: code, Constraint: pgErr.ConstraintName}
	case "23503": // foreign_key_violation
		return &domain.ConstraintError{Code: domain.CodeForeignKeyViolation, Constraint: pgErr.ConstraintName}
	case "23514", "23502": // check_violation, not_null_violation
		return &domain.ConstraintError{Code: domain.CodeConstraintViolation, Constraint: pgErr.ConstraintName}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
