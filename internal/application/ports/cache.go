package ports

import (
	"context"
	"time"
)

// CacheInvalidator invalida las lecturas agregadas cacheadas (dashboard) tras una escritura.
// Un fallo de invalidación no debe revertir la operación de negocio ya confirmada:
// la implementación lo registra y el llamador lo descarta.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// NopInvalidator no invalida nada (sin Redis configurado).
type NopInvalidator struct{}

// Bump no hace nada.
func (NopInvalidator) Bump(context.Context) error { return nil }

// JSONCache caché de lecturas agregadas serializadas como JSON.
// Las claves quedan invalidadas en bloque por CacheInvalidator.Bump.
type JSONCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}
