package decision

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// RedisCache shares decisions between replicas. Redis enforces the TTL; any
// failure is logged and treated as a miss.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

type redisEntry struct {
	Decision  domain.Decision `json:"decision"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewRedisCache wraps client. An empty prefix defaults to "decision:".
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = "decision:"
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (domain.Decision, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("decision cache read failed", zap.String("key", key), zap.Error(err))
		}
		return domain.Decision{}, false
	}
	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("decision cache entry corrupt", zap.String("key", key), zap.Error(err))
		return domain.Decision{}, false
	}
	return entry.Decision, true
}

func (c *RedisCache) Set(ctx context.Context, key string, decision domain.Decision) {
	raw, err := json.Marshal(redisEntry{Decision: decision, CreatedAt: time.Now().UTC()})
	if err != nil {
		c.logger.Warn("decision cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("decision cache write failed", zap.String("key", key), zap.Error(err))
	}
}
