// Command reconcile recalcula el stock cacheado de todos los productos desde el ledger
// de movimientos y corrige los que no coinciden. Se configura con las mismas variables que la API.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name}).Component("reconcile")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// sin caché: el dashboard expira solo por TTL
	ledger := inventory.NewStockLedgerUseCase(postgres.NewTxRunner(pool), postgres.NewRepos(pool), nil, nil)

	start := time.Now()
	out, err := ledger.ReconcileAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconciliación fallida")
		pool.Close()
		os.Exit(1)
	}
	for _, c := range out.Corrections {
		log.Warn().
			Str("product_id", c.ProductID).
			Int("cached", c.Cached).
			Int("computed", c.Computed).
			Msg("stock corregido")
	}
	log.Info().
		Int("checked", out.Checked).
		Int("corrected", len(out.Corrections)).
		Dur("elapsed", time.Since(start)).
		Msg("reconciliación terminada")
}
