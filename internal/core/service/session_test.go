package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceSessionEviction(t *testing.T) {
	t.Run("IdleSessionEvictedAndRestored", func(t *testing.T) {
		now := testNow
		env := newTestEnv(t, service.ClockOpt(func() time.Time { return now }))

		_, err := env.svc.AddToCart(t.Context(), sid, 1, 2)
		require.NoError(t, err)
		require.Len(t, env.sched.active(), 1)

		now = now.Add(10 * time.Minute)
		_, err = env.svc.Browse(t.Context(), "recent")
		require.NoError(t, err)
		require.Equal(t, 2, env.svc.SessionCount())

		now = testNow.Add(31 * time.Minute)
		_, err = env.svc.Browse(t.Context(), "fresh")
		require.NoError(t, err)

		assert.Equal(t, 2, env.svc.SessionCount())
		assert.Empty(t, env.sched.active())

		cart, err := env.svc.Cart(t.Context(), sid)
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)

		ns, err := env.svc.Notifications(t.Context(), sid)
		require.NoError(t, err)
		assert.Empty(t, ns)
	})

	t.Run("AccessKeepsSessionAlive", func(t *testing.T) {
		now := testNow
		env := newTestEnv(t, service.ClockOpt(func() time.Time { return now }))

		_, err := env.svc.Browse(t.Context(), sid)
		require.NoError(t, err)

		now = now.Add(20 * time.Minute)
		_, err = env.svc.Cart(t.Context(), sid)
		require.NoError(t, err)

		now = now.Add(20 * time.Minute)
		_, err = env.svc.Browse(t.Context(), "other")
		require.NoError(t, err)
		assert.Equal(t, 2, env.svc.SessionCount())
	})

	t.Run("FreshIDsDoNotAccumulate", func(t *testing.T) {
		now := testNow
		env := newTestEnv(t, service.ClockOpt(func() time.Time { return now }))

		for i := range 1000 {
			now = now.Add(time.Minute)
			_, err := env.svc.Browse(t.Context(), fmt.Sprintf("anon-%d", i))
			require.NoError(t, err)
		}
		assert.LessOrEqual(t, env.svc.SessionCount(), 61)
	})
}
