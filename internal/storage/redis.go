package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "records:v1:"

// RedisStore keeps records as plain redis strings. SET NX/XX give the
// per-key create/update atomicity the contract requires.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a store backed by a redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(collection, key string) string {
	return redisKeyPrefix + collection + ":" + key
}

func (s *RedisStore) Create(ctx context.Context, collection, key string, record []byte) error {
	// Records never expire here; token expiry is enforced on read so the
	// behavior matches the other backends.
	ok, err := s.client.SetNX(ctx, redisKey(collection, key), record, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx record: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, collection, key string) ([]byte, error) {
	record, err := s.client.Get(ctx, redisKey(collection, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

func (s *RedisStore) Update(ctx context.Context, collection, key string, record []byte) error {
	ok, err := s.client.SetXX(ctx, redisKey(collection, key), record, 0).Result()
	if err != nil {
		return fmt.Errorf("setxx record: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, key string) error {
	removed, err := s.client.Del(ctx, redisKey(collection, key)).Result()
	if err != nil {
		return fmt.Errorf("del record: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
