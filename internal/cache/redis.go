package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
)

// Redis shares the cache between service replicas. Redis failures are logged
// and reported as misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func durationKey(accountID int) string {
	return fmt.Sprintf("account:%d:status_duration", accountID)
}

func previousKey(accountID int) string {
	return fmt.Sprintf("account:%d:previous_status", accountID)
}

func (c *Redis) Duration(ctx context.Context, accountID int) (time.Duration, bool) {
	val, err := c.client.Get(ctx, durationKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		zap.L().Warn("redis get failed", zap.Int("account_id", accountID), zap.Error(err))
		return 0, false
	}
	millis, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		zap.L().Warn("corrupt cached duration", zap.Int("account_id", accountID), zap.String("value", val))
		return 0, false
	}
	return time.Duration(millis) * time.Millisecond, true
}

// SetDuration stores d in whole milliseconds.
func (c *Redis) SetDuration(ctx context.Context, accountID int, d time.Duration) {
	err := c.client.Set(ctx, durationKey(accountID), strconv.FormatInt(d.Milliseconds(), 10), c.ttl).Err()
	if err != nil {
		zap.L().Warn("redis set failed", zap.Int("account_id", accountID), zap.Error(err))
	}
}

func (c *Redis) PreviousStatus(ctx context.Context, accountID int) (domain.Status, bool) {
	val, err := c.client.Get(ctx, previousKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		zap.L().Warn("redis get failed", zap.Int("account_id", accountID), zap.Error(err))
		return "", false
	}
	return domain.Status(val), true
}

func (c *Redis) SetPreviousStatus(ctx context.Context, accountID int, status domain.Status) {
	err := c.client.Set(ctx, previousKey(accountID), string(status), c.ttl).Err()
	if err != nil {
		zap.L().Warn("redis set failed", zap.Int("account_id", accountID), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context, accountID int) {
	if err := c.client.Del(ctx, durationKey(accountID), previousKey(accountID)).Err(); err != nil {
		zap.L().Error("redis invalidate failed", zap.Int("account_id", accountID), zap.Error(err))
	}
}
