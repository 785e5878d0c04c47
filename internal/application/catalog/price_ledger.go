package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PriceLedgerUseCase mantiene los historiales de precios (venta/compra de productos, venta de servicios)
// y el precio cacheado de cada ítem.
type PriceLedgerUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewPriceLedgerUseCase construye el caso de uso.
func NewPriceLedgerUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator) *PriceLedgerUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &PriceLedgerUseCase{txRunner: txRunner, repos: repos, cache: cache, now: time.Now}
}

// RecordNewPrice registra un precio a partir de startDate (hoy si es nil).
// Cierra la entrada abierta en startDate - 1 día, abre la nueva y actualiza el precio cacheado,
// todo en una transacción con la fila del ítem bloqueada.
func (uc *PriceLedgerUseCase) RecordNewPrice(ctx context.Context, ledger entity.PriceLedger, itemID string, price decimal.Decimal, startDate *time.Time) (*dto.PriceEntryResponse, error) {
	start := entity.DateOf(uc.now())
	if startDate != nil {
		start = entity.DateOf(*startDate)
	}
	var created *entity.PriceHistoryEntry
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := lockItem(ctx, r, ledger, itemID); err != nil {
			return err
		}
		e, err := recordInTx(ctx, r, ledger, itemID, price, start, uc.now())
		created = e
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromPriceEntry(created)
	return &out, nil
}

// recordInTx asume la fila del ítem ya bloqueada por el llamador.
func recordInTx(ctx context.Context, r repository.Repos, ledger entity.PriceLedger, itemID string, price decimal.Decimal, start, now time.Time) (*entity.PriceHistoryEntry, error) {
	if !price.IsPositive() {
		return nil, domain.Invalid("price", "debe ser mayor que cero")
	}
	open, err := r.Prices.GetOpenForUpdate(ctx, ledger, itemID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		if !start.After(open.StartDate) {
			return nil, domain.Invalid("startDate", "debe ser posterior al inicio del precio vigente (%s)", open.StartDate.Format(entity.DateLayout))
		}
		if err := r.Prices.Close(ctx, open.ID, start.AddDate(0, 0, -1)); err != nil {
			return nil, err
		}
	}
	entry := &entity.PriceHistoryEntry{
		ID:        uuid.New().String(),
		Ledger:    ledger,
		ItemID:    itemID,
		StartDate: start,
		Price:     pricing.Money(price),
		CreatedAt: now,
	}
	if err := r.Prices.Create(ctx, entry); err != nil {
		return nil, err
	}
	switch ledger {
	case entity.LedgerProductSelling:
		err = r.Products.UpdateSellingPrice(ctx, itemID, entry.Price)
	case entity.LedgerProductBuying:
		err = r.Products.UpdateBuyingPrice(ctx, itemID, entry.Price)
	case entity.LedgerServiceSelling:
		err = r.Services.UpdateSellingPrice(ctx, itemID, entry.Price)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func lockItem(ctx context.Context, r repository.Repos, ledger entity.PriceLedger, itemID string) error {
	switch ledger {
	case entity.LedgerProductSelling, entity.LedgerProductBuying:
		p, err := r.Products.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
	case entity.LedgerServiceSelling:
		s, err := r.Services.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
	default:
		return domain.Invalid("ledger", "historial desconocido %q", ledger)
	}
	return nil
}

// cachedPrice devuelve el precio cacheado del ítem; ErrNotFound si no existe.
func cachedPrice(ctx context.Context, r repository.Repos, ledger entity.PriceLedger, itemID string) (decimal.Decimal, string, error) {
	switch ledger {
	case entity.LedgerProductSelling, entity.LedgerProductBuying:
		p, err := r.Products.GetByID(ctx, itemID)
		if err != nil {
			return decimal.Zero, "", err
		}
		if p == nil {
			return decimal.Zero, "", domain.ErrNotFound
		}
		if ledger == entity.LedgerProductBuying {
			return p.BuyingPrice, p.Name, nil
		}
		return p.SellingPrice, p.Name, nil
	case entity.LedgerServiceSelling:
		s, err := r.Services.GetByID(ctx, itemID)
		if err != nil {
			return decimal.Zero, "", err
		}
		if s == nil {
			return decimal.Zero, "", domain.ErrNotFound
		}
		return s.SellingPrice, s.Name, nil
	}
	return decimal.Zero, "", domain.Invalid("ledger", "historial desconocido %q", ledger)
}

// currentPrice resuelve el precio efectivo a asOf: entrada que cubre la fecha, si no el cacheado, si no cero.
func currentPrice(ctx context.Context, r repository.Repos, ledger entity.PriceLedger, itemID string, asOf time.Time) (decimal.Decimal, string, error) {
	cached, name, err := cachedPrice(ctx, r, ledger, itemID)
	if err != nil {
		return decimal.Zero, "", err
	}
	entry, err := r.Prices.FindEffective(ctx, ledger, itemID, entity.DateOf(asOf))
	if err != nil {
		return decimal.Zero, "", err
	}
	return pricing.Resolve(entry, cached), name, nil
}

// GetCurrentPrice precio efectivo del ítem a asOf (hoy si es nil).
func (uc *PriceLedgerUseCase) GetCurrentPrice(ctx context.Context, ledger entity.PriceLedger, itemID string, asOf *time.Time) (*dto.CurrentPriceResponse, error) {
	date := entity.DateOf(uc.now())
	if asOf != nil {
		date = entity.DateOf(*asOf)
	}
	price, _, err := currentPrice(ctx, uc.repos, ledger, itemID, date)
	if err != nil {
		return nil, err
	}
	return &dto.CurrentPriceResponse{
		ItemID: itemID,
		Ledger: string(ledger),
		AsOf:   dto.Date(date),
		Price:  dto.Money(price),
	}, nil
}

// History lista el historial completo del ítem, más antiguo primero.
func (uc *PriceLedgerUseCase) History(ctx context.Context, ledger entity.PriceLedger, itemID string) ([]dto.PriceEntryResponse, error) {
	if _, _, err := cachedPrice(ctx, uc.repos, ledger, itemID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Prices.ListByItem(ctx, ledger, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.FromPriceEntry(e))
	}
	return out, nil
}
