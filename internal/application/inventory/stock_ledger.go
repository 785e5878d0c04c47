package inventory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// StockLedgerUseCase registra movimientos de stock de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) sobre el producto, y mantiene currentStock como proyección del ledger.
type StockLedgerUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	exporter ports.SpreadsheetExporter
	now      func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewStockLedgerUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator, exporter ports.SpreadsheetExporter) *StockLedgerUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &StockLedgerUseCase{txRunner: txRunner, repos: repos, cache: cache, exporter: exporter, now: time.Now}
}

// RecordInTx valida el movimiento, bloquea el producto, guarda el movimiento y ajusta el stock cacheado.
// Debe llamarse dentro de TxRunner.Run; lo usan la recepción de pedidos y el cierre de órdenes de trabajo.
func RecordInTx(ctx context.Context, r repository.Repos, m *entity.StockMovement) error {
	if !m.Type.Valid() {
		return domain.Invalid("type", "tipo de movimiento desconocido %q", m.Type)
	}
	if !m.Type.AcceptsDelta(m.QuantityDelta) {
		return domain.Invalid("quantityDelta", "signo no válido para %s: %d", m.Type, m.QuantityDelta)
	}
	p, err := r.Products.GetForUpdate(ctx, m.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", m.ProductID, domain.ErrNotFound)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := r.Movements.Create(ctx, m); err != nil {
		return err
	}
	return r.Products.AdjustStock(ctx, m.ProductID, m.QuantityDelta)
}

// RecordMovement registra un movimiento manual.
func (uc *StockLedgerUseCase) RecordMovement(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("productId", "es obligatorio")
	}
	now := uc.now()
	m := &entity.StockMovement{
		ProductID:     in.ProductID,
		QuantityDelta: in.QuantityDelta,
		Type:          entity.MovementType(in.Type),
		Date:          now,
		Reason:        in.Reason,
		SourceType:    entity.SourceManual,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return RecordInTx(ctx, r, m)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromMovement(m)
	return &out, nil
}

// ReverseMovement elimina el movimiento y aplica el delta inverso al stock cacheado.
func (uc *StockLedgerUseCase) ReverseMovement(ctx context.Context, movementID string) error {
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		m, err := r.Movements.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		p, err := r.Products.GetForUpdate(ctx, m.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := r.Movements.Delete(ctx, m.ID); err != nil {
			return err
		}
		return r.Products.AdjustStock(ctx, m.ProductID, -m.QuantityDelta)
	})
	if err != nil {
		return err
	}
	_ = uc.cache.Bump(ctx)
	return nil
}

// ComputeCurrentStock recalcula el stock sumando el ledger y lo compara con el cacheado.
func (uc *StockLedgerUseCase) ComputeCurrentStock(ctx context.Context, productID string) (*dto.ComputedStockResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.repos.Movements.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ComputedStockResponse{
		ProductID:     productID,
		ComputedStock: sum,
		CachedStock:   p.CurrentStock,
		Consistent:    sum == p.CurrentStock,
	}, nil
}

// ReconcileAll reescribe el stock cacheado de cada producto con la suma de su ledger.
func (uc *StockLedgerUseCase) ReconcileAll(ctx context.Context) (*dto.ReconcileResponse, error) {
	out := &dto.ReconcileResponse{Corrections: []dto.StockCorrection{}}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		cached, err := r.Products.StockSnapshot(ctx)
		if err != nil {
			return err
		}
		computed, err := r.Movements.SumAll(ctx)
		if err != nil {
			return err
		}
		out.Checked = len(cached)
		for _, c := range inventory.Drift(cached, computed) {
			if err := r.Products.SetStock(ctx, c.ProductID, c.Computed); err != nil {
				return err
			}
			out.Corrections = append(out.Corrections, dto.StockCorrection{
				ProductID: c.ProductID,
				Cached:    c.Cached,
				Computed:  c.Computed,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out.Corrections) > 0 {
		_ = uc.cache.Bump(ctx)
	}
	return out, nil
}

func movementFilter(q dto.MovementListQuery) (repository.MovementFilter, error) {
	q.DefaultPage()
	f := repository.MovementFilter{
		ProductID:  q.ProductID,
		Type:       entity.MovementType(q.Type),
		SourceType: q.SourceType,
		SourceID:   q.SourceID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, domain.Invalid("type", "tipo de movimiento desconocido %q", q.Type)
	}
	if q.From != "" {
		from, err := entity.ParseDate(q.From)
		if err != nil {
			return f, domain.Invalid("from", "fecha inválida")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := entity.ParseDate(q.To)
		if err != nil {
			return f, domain.Invalid("to", "fecha inválida")
		}
		// to es inclusivo: hasta el final del día
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	return f, nil
}

// ListMovements lista movimientos filtrados, más recientes primero.
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	f, err := movementFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMovement(m))
	}
	return out, nil
}

// ExportMovements escribe en w la hoja de cálculo de los movimientos filtrados (sin paginar).
func (uc *StockLedgerUseCase) ExportMovements(ctx context.Context, q dto.MovementListQuery, w io.Writer) error {
	if uc.exporter == nil {
		return fmt.Errorf("exportación no configurada")
	}
	f, err := movementFilter(q)
	if err != nil {
		return err
	}
	f.Limit, f.Offset = 0, 0
	list, err := uc.repos.Movements.List(ctx, f)
	if err != nil {
		return err
	}
	return uc.exporter.WriteMovements(w, list)
}
