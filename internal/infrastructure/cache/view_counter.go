package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appcatalog "github.com/shoemarket/backend/internal/application/catalog"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const viewKeyPrefix = "product:views:"

// RedisViewCounter accumulates product view counts in Redis and flushes them
// to the database in batches. Recording a view is a single INCR, so the hot
// read path never writes to Postgres.
type RedisViewCounter struct {
	client   *redis.Client
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewRedisViewCounter creates a new RedisViewCounter
func NewRedisViewCounter(client *redis.Client, products catalog.ProductRepository, logger *zap.Logger) *RedisViewCounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisViewCounter{
		client:   client,
		products: products,
		logger:   logger,
	}
}

// RecordView bumps the pending view count for a product
func (c *RedisViewCounter) RecordView(ctx context.Context, productID uuid.UUID) error {
	key := viewKeyPrefix + productID.String()
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, key)
	// Expiry bounds stale counters if flushing stops
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// Flush drains the pending counters into the product table. Counters that
// fail to persist are re-added so the views are not lost.
func (c *RedisViewCounter) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := c.flushKey(ctx, key); err != nil {
			c.logger.Warn("Failed to flush view counter",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	return iter.Err()
}

func (c *RedisViewCounter) flushKey(ctx context.Context, key string) error {
	productID, err := uuid.Parse(strings.TrimPrefix(key, viewKeyPrefix))
	if err != nil {
		// Not one of ours; drop it
		return c.client.Del(ctx, key).Err()
	}

	val, err := c.client.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil || count <= 0 {
		return nil
	}

	if err := c.products.IncrementViewCount(ctx, productID, count); err != nil {
		c.client.IncrBy(ctx, key, count)
		return err
	}
	return nil
}

// Run flushes at the given interval until ctx is cancelled. A final flush
// runs on shutdown so pending counters reach the database.
func (c *RedisViewCounter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := c.Flush(flushCtx); err != nil {
				c.logger.Warn("Final view counter flush failed", zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				c.logger.Warn("View counter flush failed", zap.Error(err))
			}
		}
	}
}

var _ appcatalog.ViewCounter = (*RedisViewCounter)(nil)
