package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.KVStorage = (*RedisStore)(nil)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL of a stored value, zero keeps values forever.
	TTL time.Duration
}

type RedisStore struct {
	cl  redisClient
	ttl time.Duration
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (RedisStore, error) {
	const op = "RedisStore"
	log := slog.With("op", op)

	cl := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s := RedisStore{cl: cl, ttl: cfg.TTL}
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return RedisStore{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	log.Info("redis is available", "addr", cfg.Addr)
	return s, nil
}

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisStore.Get"

	v, err := s.cl.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s RedisStore) Put(ctx context.Context, key string, value []byte) error {
	const op = "RedisStore.Put"

	if err := s.cl.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisStore) Delete(ctx context.Context, key string) error {
	const op = "RedisStore.Delete"

	if err := s.cl.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisStore) Close() {
	const op = "RedisStore.Close"
	log := slog.With("op", op)

	if err := s.cl.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
