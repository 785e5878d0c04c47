// Package cache implementa la caché del dashboard sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Taller-api/internal/application/ports"
)

const versionKey = "taller:cache:version"

var (
	_ ports.CacheInvalidator = (*RedisCache)(nil)
	_ ports.JSONCache        = (*RedisCache)(nil)
)

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisCache caché versionada: cada clave lleva la versión global como sufijo,
// y Bump la incrementa dejando huérfanas todas las entradas anteriores (caducan por TTL).
// Los fallos se registran aquí y además se devuelven; los casos de uso los tratan como no fatales.
type RedisCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisCache construye la caché sobre un cliente ya conectado.
func NewRedisCache(client *redis.Client, log zerolog.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

func (c *RedisCache) key(ctx context.Context, key string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", fmt.Errorf("cache version: %w", err)
	}
	return fmt.Sprintf("taller:%s:%d", key, ver), nil
}

// Get carga en dst el valor de key. Devuelve false si no está en la versión vigente.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	ok, err := c.get(ctx, key, dst)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	}
	return ok, err
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	k, err := c.key(ctx, key)
	if err != nil {
		return false, err
	}
	payload, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set guarda v serializado con el TTL indicado.
func (c *RedisCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	err := c.set(ctx, key, v, ttl)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
	return err
}

func (c *RedisCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	k, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, k, raw, ttl).Err()
}

// Bump invalida todas las lecturas cacheadas. Si falla, el dashboard puede quedar
// desactualizado hasta que caduque el TTL.
func (c *RedisCache) Bump(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("invalidación de caché fallida, datos servidos hasta el TTL")
		return fmt.Errorf("cache bump: %w", err)
	}
	return nil
}
