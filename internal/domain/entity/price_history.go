package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLedger identifica cada historial de precios independiente.
type PriceLedger string

const (
	LedgerProductSelling PriceLedger = "PRODUCT_SELLING"
	LedgerProductBuying  PriceLedger = "PRODUCT_BUYING"
	LedgerServiceSelling PriceLedger = "SERVICE_SELLING"
)

// ItemKind devuelve el tipo de ítem al que pertenece el historial.
func (l PriceLedger) ItemKind() CatalogKind {
	if l == LedgerServiceSelling {
		return CatalogService
	}
	return CatalogProduct
}

// PriceHistoryEntry es un rango [StartDate, EndDate] (ambos inclusive) con un precio.
// EndDate nil significa que la entrada está abierta (vigente).
type PriceHistoryEntry struct {
	ID        string
	Ledger    PriceLedger
	ItemID    string
	StartDate time.Time
	EndDate   *time.Time
	Price     decimal.Decimal
	CreatedAt time.Time
}

// IsOpen indica si la entrada no tiene fecha de fin.
func (e *PriceHistoryEntry) IsOpen() bool { return e.EndDate == nil }

// Covers indica si la fecha cae dentro del rango de la entrada.
func (e *PriceHistoryEntry) Covers(date time.Time) bool {
	d := DateOf(date)
	if d.Before(e.StartDate) {
		return false
	}
	return e.EndDate == nil || !d.After(*e.EndDate)
}
