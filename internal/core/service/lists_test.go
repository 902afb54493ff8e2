package service_test

import (
	"testing"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceWishlist(t *testing.T) {
	env := newTestEnv(t)

	set, err := env.svc.AddToWishlist(t.Context(), sid, 2)
	require.NoError(t, err)
	set, err = env.svc.AddToWishlist(t.Context(), sid, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	_, err = env.svc.AddToWishlist(t.Context(), sid, 77)
	require.ErrorIs(t, err, domain.ErrNotFound)

	set, err = env.svc.RemoveFromWishlist(t.Context(), sid, 2)
	require.NoError(t, err)
	assert.Zero(t, set.Len())

	_, err = env.svc.RemoveFromWishlist(t.Context(), sid, 2)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceComparison(t *testing.T) {
	t.Run("CappedAtFour", func(t *testing.T) {
		env := newTestEnv(t)
		for id := 1; id <= 5; id++ {
			_, err := env.svc.AddToComparison(t.Context(), sid, id)
			require.NoError(t, err)
		}

		set, err := env.svc.Comparison(t.Context(), sid)
		require.NoError(t, err)
		assert.Equal(t, 4, set.Len())
		assert.False(t, set.Contains(5))

		ns, err := env.svc.Notifications(t.Context(), sid)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		assert.Equal(t, domain.NotificationWarning, ns[0].Type)
	})

	t.Run("DuplicateIsNoop", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.AddToComparison(t.Context(), sid, 1)
		require.NoError(t, err)
		set, err := env.svc.AddToComparison(t.Context(), sid, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("RemoveAndClear", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.AddToComparison(t.Context(), sid, 1)
		require.NoError(t, err)
		_, err = env.svc.AddToComparison(t.Context(), sid, 2)
		require.NoError(t, err)

		set, err := env.svc.RemoveFromComparison(t.Context(), sid, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())

		set, err = env.svc.ClearComparison(t.Context(), sid)
		require.NoError(t, err)
		assert.Zero(t, set.Len())
	})
}
