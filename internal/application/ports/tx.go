package ports

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ningún efecto parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}
