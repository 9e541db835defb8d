package cache

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// RedisBackend keeps artifacts as plain string keys without TTL
type RedisBackend struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisBackend creates a backend using keys "<prefix>:cache:<artifact>"
func NewRedisBackend(rdb *goredis.Client, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) key(a Artifact) string {
	return fmt.Sprintf("%s:cache:%s", b.prefix, a)
}

func (b *RedisBackend) Exists(ctx context.Context, a Artifact) (bool, error) {
	n, err := b.rdb.Exists(ctx, b.key(a)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisBackend) Read(ctx context.Context, a Artifact) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key(a)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *RedisBackend) Write(ctx context.Context, a Artifact, data []byte) error {
	return b.rdb.Set(ctx, b.key(a), data, 0).Err()
}
