package entity

import "github.com/jhoicas/Taller-api/internal/domain"

// CatalogKind distingue los dos tipos de ítem de catálogo.
type CatalogKind string

const (
	CatalogProduct CatalogKind = "PRODUCT"
	CatalogService CatalogKind = "SERVICE"
)

// CatalogRef referencia un ítem de catálogo: un producto o un servicio, nunca ambos.
type CatalogRef struct {
	Kind CatalogKind
	ID   string
}

// ProductRef construye una referencia a producto.
func ProductRef(id string) CatalogRef { return CatalogRef{Kind: CatalogProduct, ID: id} }

// ServiceRef construye una referencia a servicio.
func ServiceRef(id string) CatalogRef { return CatalogRef{Kind: CatalogService, ID: id} }

// IsProduct indica si la referencia es a un producto.
func (r CatalogRef) IsProduct() bool { return r.Kind == CatalogProduct }

// Validate verifica que la referencia esté completa.
func (r CatalogRef) Validate() error {
	if r.Kind != CatalogProduct && r.Kind != CatalogService {
		return domain.Invalid("itemType", "tipo de ítem desconocido: %q", r.Kind)
	}
	if r.ID == "" {
		return domain.Invalid("itemId", "id de ítem vacío")
	}
	return nil
}

func (r CatalogRef) String() string { return string(r.Kind) + ":" + r.ID }
