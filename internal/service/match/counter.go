package match

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oggyb/muzz-realtime/internal/cache"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

// countLoadTimeout bounds a shared DB load. The load is detached from the
// caller that started it, since other callers wait on the same result.
const countLoadTimeout = 5 * time.Second

// LikerCounter is the store query behind the liked-you counter.
type LikerCounter interface {
	CountLikers(ctx context.Context, liked string) (int64, error)
}

// LikeCounter serves "how many people liked me" cache-first.
//
// Strategy:
//  1. Read likes:count:<identity> from Redis.
//  2. On miss, count in the DB once per identity (singleflight) and cache it,
//     unless an invalidation happened while counting.
//  3. Likes and unlikes invalidate the key through LikesChanged.
//
// Redis failures degrade to the DB and are only logged.
type LikeCounter struct {
	store LikerCounter
	redis *cache.RedisCache
	log   *slog.Logger
	group singleflight.Group
}

// NewLikeCounter accepts a nil cache, in which case every read hits the DB.
func NewLikeCounter(store LikerCounter, redis *cache.RedisCache, log *slog.Logger) *LikeCounter {
	return &LikeCounter{store: store, redis: redis, log: log}
}

func (c *LikeCounter) Count(ctx context.Context, identity string) (int64, error) {
	if c.redis != nil {
		n, ok, err := c.redis.GetLikeCount(ctx, identity)
		if err != nil {
			c.log.Warn("like count cache read failed", "identity", identity, "err", err)
		} else if ok {
			return n, nil
		}
	}

	v, err, _ := c.group.Do(identity, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), countLoadTimeout)
		defer cancel()
		return c.load(loadCtx, identity)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (c *LikeCounter) load(ctx context.Context, identity string) (int64, error) {
	// the version is read before counting so a concurrent LikesChanged
	// makes the write below a no-op
	var (
		version int64
		verErr  error
	)
	if c.redis != nil {
		version, verErr = c.redis.LikeCountVersion(ctx, identity)
	}

	n, err := c.store.CountLikers(ctx, identity)
	if err != nil {
		return 0, svcErr.Storage(err)
	}

	switch {
	case c.redis == nil:
	case verErr != nil:
		c.log.Warn("like count version read failed", "identity", identity, "err", verErr)
	default:
		stored, err := c.redis.SetLikeCountIfVersion(ctx, identity, n, version)
		if err != nil {
			c.log.Warn("like count cache write failed", "identity", identity, "err", err)
		} else if !stored {
			c.log.Debug("like count changed while loading, not cached", "identity", identity)
		}
	}
	return n, nil
}

// LikesChanged drops the cached count of liked.
func (c *LikeCounter) LikesChanged(ctx context.Context, liked string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.InvalidateLikeCount(ctx, liked); err != nil {
		c.log.Warn("like count invalidate failed", "identity", liked, "err", err)
	}
}
