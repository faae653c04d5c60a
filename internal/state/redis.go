package state

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, e.g. "webdojo:".
	Prefix string
}

type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedis(ctx context.Context, opts RedisOptions) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, storageErr("connect redis", opts.Addr, err)
	}
	prefix := opts.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisKV{client: client, prefix: prefix}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, storageErr("get", key, err)
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return storageErr("set", key, r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return storageErr("delete", key, r.client.Del(ctx, r.prefix+key).Err())
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
