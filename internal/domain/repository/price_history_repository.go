package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// PriceHistoryRepository puerto del ledger de precios. Las entradas sólo se insertan o se cierran.
type PriceHistoryRepository interface {
	Create(ctx context.Context, e *entity.PriceHistoryEntry) error
	// GetOpenForUpdate devuelve la entrada abierta del ítem bloqueada, o nil.
	GetOpenForUpdate(ctx context.Context, ledger entity.PriceLedger, itemID string) (*entity.PriceHistoryEntry, error)
	Close(ctx context.Context, id string, endDate time.Time) error
	// FindEffective devuelve la entrada cuyo rango contiene date, o nil.
	FindEffective(ctx context.Context, ledger entity.PriceLedger, itemID string, date time.Time) (*entity.PriceHistoryEntry, error)
	// ListByItem ordena por StartDate ascendente.
	ListByItem(ctx context.Context, ledger entity.PriceLedger, itemID string) ([]*entity.PriceHistoryEntry, error)
}
