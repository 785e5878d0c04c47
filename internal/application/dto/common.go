package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: código simbólico estable, mensaje legible y marca de tiempo.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewError construye un ErrorResponse con la hora actual.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// Money serializa un monto con escala fija de 2 decimales.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Date serializa una fecha de calendario ISO-8601.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DatePtr serializa una fecha opcional.
func DatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Date(*t)
	return &s
}
