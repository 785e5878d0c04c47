package entity

import "time"

// Company es una empresa cliente del taller que puede ser pagadora de facturas.
// ICE es el identificador fiscal de la empresa (único).
type Company struct {
	ID        string
	Name      string
	ICE       string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
