// Package analytics contiene el dashboard del back office.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

const (
	dashboardLowStock = 10 // productos bajo mínimo listados en el widget
	dashboardCacheKey = "dashboard:summary"
)

// DashboardUseCase genera el resumen del back office: órdenes abiertas, saldo por cobrar,
// stock bajo, gastos del mes y totales del catálogo y de pagadores. El resultado se cachea hasta la próxima escritura o el TTL.
type DashboardUseCase struct {
	repos repository.Repos
	cache ports.JSONCache
	ttl   time.Duration
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil (sin Redis).
func NewDashboardUseCase(repos repository.Repos, cache ports.JSONCache, ttl time.Duration) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, cache: cache, ttl: ttl, now: time.Now}
}

// GetSummary devuelve el resumen, desde caché si está vigente.
// Un fallo de caché no es un fallo del dashboard: se recalcula desde la base.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	if uc.cache != nil {
		var cached dto.DashboardResponse
		if ok, err := uc.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}
	out, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, dashboardCacheKey, out, uc.ttl) // la caché registra el fallo
	}
	return out, nil
}

// compute lanza las consultas en paralelo.
func (uc *DashboardUseCase) compute(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var (
		openOrders  int
		outstanding decimal.Decimal
		lowCount    int
		lowList     []*entity.Product
		expenses    decimal.Decimal
		totals      dto.DashboardTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.repos.WorkOrders.Count(gctx, entity.WorkOrderOpen, entity.WorkOrderInProgress)
		if err != nil {
			return fmt.Errorf("dashboard: órdenes abiertas: %w", err)
		}
		openOrders = n
		return nil
	})
	g.Go(func() error {
		sum, err := uc.repos.Invoices.SumOutstanding(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: saldo por cobrar: %w", err)
		}
		outstanding = sum
		return nil
	})
	g.Go(func() error {
		n, err := uc.repos.Products.CountLowStock(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: conteo stock bajo: %w", err)
		}
		lowCount = n
		return nil
	})
	g.Go(func() error {
		list, _, err := uc.repos.Products.List(gctx, repository.ProductFilter{ActiveOnly: true, LowStockOnly: true, Limit: dashboardLowStock})
		if err != nil {
			return fmt.Errorf("dashboard: productos stock bajo: %w", err)
		}
		lowList = list
		return nil
	})
	g.Go(func() error {
		sum, err := uc.repos.Expenses.SumBetween(gctx, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: gastos del mes: %w", err)
		}
		expenses = sum
		return nil
	})
	for _, c := range []struct {
		name  string
		count func(context.Context) (int, error)
		dst   *int
	}{
		{"clientes", uc.repos.Clients.Count, &totals.Clients},
		{"empresas", uc.repos.Companies.Count, &totals.Companies},
		{"productos", uc.repos.Products.Count, &totals.Products},
		{"servicios", uc.repos.Services.Count, &totals.Services},
	} {
		c := c
		g.Go(func() error {
			n, err := c.count(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: total de %s: %w", c.name, err)
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardResponse{
		OpenWorkOrders:    openOrders,
		OutstandingAmount: dto.Money(outstanding),
		LowStockCount:     lowCount,
		LowStockProducts:  make([]dto.ProductResponse, 0, len(lowList)),
		MonthlyExpenses:   dto.Money(expenses),
		Month:             monthLabel(now),
		Totals:            totals,
	}
	for _, p := range lowList {
		out.LowStockProducts = append(out.LowStockProducts, dto.FromProduct(p))
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
