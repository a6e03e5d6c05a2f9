// Package cache adaptadores del puerto SummaryCache: Redis para despliegues
// con varias réplicas y una implementación nula cuando no hay Redis configurado.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

var (
	_ ports.SummaryCache = (*RedisCache)(nil)
	_ ports.SummaryCache = (*NoopCache)(nil)
)

// RedisCache caché de resúmenes sobre Redis. Los fallos de Redis se degradan a
// cache-miss: el dashboard recalcula, nunca falla por la caché.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache conecta el cliente. ttl no positivo usa 1 minuto.
func NewRedisCache(addr, password string, db int, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
		log:    log,
	}
}

// Ping verifica la conexión al arrancar.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("Fallo leyendo de Redis, se recalcula")
		}
		return nil, false
	}
	return payload, true
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Fallo escribiendo en Redis")
	}
}

// Close cierra la conexión.
func (c *RedisCache) Close() error { return c.client.Close() }

// NoopCache caché nula: todo Get falla, todo Set se descarta.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (NoopCache) Set(ctx context.Context, key string, payload []byte) {}
