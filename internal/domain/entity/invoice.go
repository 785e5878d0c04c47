package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// PayerType tipo de pagador de facturas y pagos.
type PayerType string

const (
	PayerClient  PayerType = "CLIENT"
	PayerCompany PayerType = "COMPANY"
)

// Payer identifica al cliente o empresa responsable de una factura.
type Payer struct {
	Type PayerType
	ID   string
}

// Validate verifica tipo e id del pagador.
func (p Payer) Validate() error {
	if p.Type != PayerClient && p.Type != PayerCompany {
		return domain.Invalid("payerType", "tipo de pagador desconocido: %q", p.Type)
	}
	if p.ID == "" {
		return domain.Invalid("payerId", "id de pagador vacío")
	}
	return nil
}

// Invoice cabecera de factura. RemainingBalance = TotalAmount - Σ asignaciones.
type Invoice struct {
	ID               string
	Number           string
	Payer            Payer
	WorkOrderID      string
	Date             time.Time
	Status           InvoiceStatus
	TotalAmount      decimal.Decimal
	RemainingBalance decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InvoiceNumber número legible de factura: F-AAAAMMDD-<8 primeros caracteres del id>.
func InvoiceNumber(date time.Time, id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "F-" + date.Format("20060102") + "-" + short
}
