package roomid

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const reservedSetKey = "chat:rooms:reserved"

// RedisStore keeps reservations in a Redis set so they survive restarts and
// are shared across instances.
type RedisStore struct {
	rdc *redis.Client
}

func NewRedisStore(rdc *redis.Client) *RedisStore {
	return &RedisStore{rdc: rdc}
}

func (s *RedisStore) Activate(ctx context.Context, roomID string) error {
	return s.rdc.SAdd(ctx, reservedSetKey, roomID).Err()
}

func (s *RedisStore) Release(ctx context.Context, roomID string) error {
	return s.rdc.SRem(ctx, reservedSetKey, roomID).Err()
}

func (s *RedisStore) InUse(ctx context.Context, roomID string) (bool, error) {
	return s.rdc.SIsMember(ctx, reservedSetKey, roomID).Result()
}
