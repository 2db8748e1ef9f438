package kvstore

import (
	"context"
	"errors"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis under an optional key prefix
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get " + key, Retryable: true, Err: err}
	}
	return []byte(val), nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, string(value), 0).Err(); err != nil {
		return &models.PersistenceError{Op: "set " + key, Retryable: true, Err: err}
	}
	return nil
}
