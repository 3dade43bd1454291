package booking

import (
	"context"
	"time"

	"fitgate/utils"

	"github.com/go-redis/redis/v8"
)

// SlotLocker serializes booking creation per (schedule, date) pair so
// the capacity check and the insert behave as one atomic step.
type SlotLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisSlotLocker implements SlotLocker on redis SETNX with a TTL, so a
// crashed holder cannot wedge a slot.
type RedisSlotLocker struct {
	Client *redis.Client
}

// NewRedisSlotLocker creates a SlotLocker on the shared lock client.
func NewRedisSlotLocker() *RedisSlotLocker {
	return &RedisSlotLocker{Client: utils.GetLockClient()}
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, utils.SlotLockPrefix+key, 1, ttl).Result()
}

func (l *RedisSlotLocker) Release(ctx context.Context, key string) error {
	return l.Client.Del(ctx, utils.SlotLockPrefix+key).Err()
}
