package implementation

import (
	"context"
	"errors"
	"time"

	"bioez-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// RedisStateRepositoryImpl stores envelopes as plain string values. A zero TTL
// keeps them forever.
type RedisStateRepositoryImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateRepository(client *redis.Client, ttl time.Duration) contract.StateRepository {
	return &RedisStateRepositoryImpl{client: client, ttl: ttl}
}

func (r *RedisStateRepositoryImpl) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (r *RedisStateRepositoryImpl) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisStateRepositoryImpl) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
