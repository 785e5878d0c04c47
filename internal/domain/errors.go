package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
)

// ValidationError describe una entrada mal formada. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Códigos simbólicos de violación de restricciones de almacenamiento.
const (
	CodeUniqueProductCode    = "UNIQUE_PRODUCT_CODE"
	CodeUniqueProductBarcode = "UNIQUE_PRODUCT_BARCODE"
	CodeUniqueServiceCode    = "UNIQUE_SERVICE_CODE"
	CodeUniqueClientEmail    = "UNIQUE_CLIENT_EMAIL"
	CodeUniqueCompanyICE     = "UNIQUE_COMPANY_ICE"
	CodeUniqueUsername       = "UNIQUE_USERNAME"
	CodeUniqueOpenPrice      = "UNIQUE_OPEN_PRICE"
	CodeUniqueViolation      = "UNIQUE_CONSTRAINT_VIOLATION"
	CodeForeignKeyViolation  = "FOREIGN_KEY_VIOLATION"
	CodeConstraintViolation  = "DATABASE_CONSTRAINT_VIOLATION"
)

// ConstraintError es una violación de unicidad o integridad referencial traducida a un código estable.
type ConstraintError struct {
	Code       string
	Constraint string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return "violación de restricción: " + e.Code
	}
	return fmt.Sprintf("violación de restricción %s: %s", e.Constraint, e.Code)
}

// Is permite errors.Is(err, ErrDuplicate) para las violaciones de unicidad.
func (e *ConstraintError) Is(target error) bool {
	if target != ErrDuplicate {
		return false
	}
	return e.Code != CodeForeignKeyViolation && e.Code != CodeConstraintViolation
}
