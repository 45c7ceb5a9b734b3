package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/muzz-realtime/internal/config"
)

// likeCountTTL bounds how stale a cached liked-you counter may get when an
// invalidation is lost.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForLikeCount generates Redis key for a user's liked-you count.
func (c *RedisCache) KeyForLikeCount(identity string) string {
	return fmt.Sprintf("likes:count:%s", identity)
}

// SetLikeCount stores the counter and refreshes its TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, identity string, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(identity), count, likeCountTTL).Err()
}

// GetLikeCount returns (count, true) on a hit and (0, false) on a miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, identity string) (int64, bool, error) {
	key := c.KeyForLikeCount(identity)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// garbage in the cache is a miss, the caller will overwrite it
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	return n, true, nil
}

// KeyForLikeCountVersion is bumped on every invalidation of the counter.
func (c *RedisCache) KeyForLikeCountVersion(identity string) string {
	return fmt.Sprintf("likes:ver:%s", identity)
}

// LikeCountVersion reads the invalidation version; a missing key is 0.
func (c *RedisCache) LikeCountVersion(ctx context.Context, identity string) (int64, error) {
	n, err := c.Client.Get(ctx, c.KeyForLikeCountVersion(identity)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// SetLikeCountIfVersion stores count only while the version still equals
// version, i.e. no invalidation happened since the caller read it. It
// reports whether the value was stored.
func (c *RedisCache) SetLikeCountIfVersion(ctx context.Context, identity string, count, version int64) (bool, error) {
	verKey := c.KeyForLikeCountVersion(identity)
	stored := false
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.KeyForLikeCount(identity), count, likeCountTTL)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		// an invalidation slipped in between the check and the write
		return false, nil
	}
	return stored, err
}

// InvalidateLikeCount drops the cached counter so the next read goes to the
// DB, and bumps the version so an in-flight load cannot write back the old
// value.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, identity string) error {
	verKey := c.KeyForLikeCountVersion(identity)
	pipe := c.Client.TxPipeline()
	pipe.Incr(ctx, verKey)
	pipe.Expire(ctx, verKey, 2*likeCountTTL)
	pipe.Del(ctx, c.KeyForLikeCount(identity))
	_, err := pipe.Exec(ctx)
	return err
}
