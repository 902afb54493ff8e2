package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := r.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *fakeRedis) Set(
	_ context.Context, key string, value any, expiration time.Duration,
) *redis.StatusCmd {
	if r.setErr != nil {
		return redis.NewStatusResult("", r.setErr)
	}
	r.data[key] = string(value.([]byte))
	r.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (r *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := r.data[k]; ok {
			delete(r.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (r *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (r *fakeRedis) Close() error {
	return nil
}

func TestRedisStore(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		cl := newFakeRedis()
		s := RedisStore{cl: cl, ttl: time.Hour}

		_, err := s.Get(t.Context(), "k")
		require.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, s.Put(t.Context(), "k", []byte("v")))
		assert.Equal(t, time.Hour, cl.ttls["k"])

		got, err := s.Get(t.Context(), "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, s.Delete(t.Context(), "k"))
		_, err = s.Get(t.Context(), "k")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PutFailure", func(t *testing.T) {
		cl := newFakeRedis()
		cl.setErr = errors.New("READONLY")
		s := RedisStore{cl: cl}

		err := s.Put(t.Context(), "k", []byte("v"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}
