// Package cache implementa el puerto ports.Cache sobre Redis.
// Los errores de Redis se degradan a no-op: el cache nunca tumba un request.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/pkg/logger"
)

var _ ports.Cache = (*RedisCache)(nil)

// RedisCache cache y locks best-effort sobre Redis.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache construye el cache y verifica la conexión.
func NewRedisCache(ctx context.Context, addr, password string, db int, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, log: log}, nil
}

// Close cierra la conexión.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get devuelve el valor crudo o ("", false) si no existe o Redis falla.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache get falló")
		}
		return "", false
	}
	return val, true
}

// Set guarda el valor con TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set falló")
	}
}

// Delete invalida una clave.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache delete falló")
	}
}

// TryLock toma un lock con SET NX. False si ya está tomado o Redis falla.
func (c *RedisCache) TryLock(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := c.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache lock falló")
		return false
	}
	return ok
}

// Unlock libera el lock.
func (c *RedisCache) Unlock(ctx context.Context, key string) {
	c.Delete(ctx, key)
}
