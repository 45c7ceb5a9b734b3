package cache

import (
	"context"
	"fmt"
)

// Every instance mirrors its local presence into its own set so a crashed
// instance can be cleaned up without touching the others.
const presenceInstancesKey = "presence:instances"

func presenceKey(instanceID string) string {
	return fmt.Sprintf("presence:instance:%s", instanceID)
}

// PresenceMirror publishes one instance's online identities to Redis.
// The in-memory registry stays the source of truth for delivery; the mirror
// only answers "who is online anywhere".
type PresenceMirror struct {
	cache      *RedisCache
	instanceID string
}

func NewPresenceMirror(c *RedisCache, instanceID string) *PresenceMirror {
	return &PresenceMirror{cache: c, instanceID: instanceID}
}

func (m *PresenceMirror) InstanceID() string { return m.instanceID }

// MarkOnline adds identity to this instance's set.
func (m *PresenceMirror) MarkOnline(ctx context.Context, identity string) error {
	pipe := m.cache.Client.TxPipeline()
	pipe.SAdd(ctx, presenceInstancesKey, m.instanceID)
	pipe.SAdd(ctx, presenceKey(m.instanceID), identity)
	_, err := pipe.Exec(ctx)
	return err
}

// MarkOffline removes identity from this instance's set.
func (m *PresenceMirror) MarkOffline(ctx context.Context, identity string) error {
	return m.cache.Client.SRem(ctx, presenceKey(m.instanceID), identity).Err()
}

// OnlineAcrossInstances returns the union of every instance's set.
func (m *PresenceMirror) OnlineAcrossInstances(ctx context.Context) ([]string, error) {
	instances, err := m.cache.Client.SMembers(ctx, presenceInstancesKey).Result()
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(instances))
	for _, id := range instances {
		keys = append(keys, presenceKey(id))
	}
	return m.cache.Client.SUnion(ctx, keys...).Result()
}

// Clear forgets this instance. Called on startup (stale state from a previous
// run) and on shutdown.
func (m *PresenceMirror) Clear(ctx context.Context) error {
	pipe := m.cache.Client.TxPipeline()
	pipe.Del(ctx, presenceKey(m.instanceID))
	pipe.SRem(ctx, presenceInstancesKey, m.instanceID)
	_, err := pipe.Exec(ctx)
	return err
}
