package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceItem es un servicio de mano de obra del catálogo (cambio de aceite, diagnóstico, ...).
type ServiceItem struct {
	ID           string
	Code         string
	Name         string
	Description  string
	SellingPrice decimal.Decimal // proyección cacheada del historial de precios
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
