package service_test

import (
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func info(title string) domain.NotificationInput {
	return domain.NotificationInput{Type: domain.NotificationInfo, Title: title}
}

func TestServiceNotifications(t *testing.T) {
	t.Run("ExpireAfterDuration", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := env.svc.Notify(t.Context(), sid, info("hello"))
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultNotificationDuration, n.Duration)

		env.sched.fire(domain.DefaultNotificationDuration)

		ns, err := env.svc.Notifications(t.Context(), sid)
		require.NoError(t, err)
		assert.Empty(t, ns)
	})

	t.Run("StickyNeverExpires", func(t *testing.T) {
		env := newTestEnv(t)
		in := info("sticky")
		zero := time.Duration(0)
		in.Duration = &zero
		_, err := env.svc.Notify(t.Context(), sid, in)
		require.NoError(t, err)
		assert.Empty(t, env.sched.active())

		ns, err := env.svc.Notifications(t.Context(), sid)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		assert.True(t, ns[0].Sticky())
	})

	t.Run("IncreasingIDs", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.svc.Notify(t.Context(), sid, info("a"))
		require.NoError(t, err)
		b, err := env.svc.Notify(t.Context(), sid, info("b"))
		require.NoError(t, err)
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("Dismiss", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := env.svc.Notify(t.Context(), sid, info("a"))
		require.NoError(t, err)

		require.NoError(t, env.svc.DismissNotification(t.Context(), sid, n.ID))
		assert.Empty(t, env.sched.active())

		err = env.svc.DismissNotification(t.Context(), sid, n.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Clear", func(t *testing.T) {
		env := newTestEnv(t)
		for _, title := range []string{"a", "b"} {
			_, err := env.svc.Notify(t.Context(), sid, info(title))
			require.NoError(t, err)
		}
		require.NoError(t, env.svc.ClearNotifications(t.Context(), sid))

		ns, err := env.svc.Notifications(t.Context(), sid)
		require.NoError(t, err)
		assert.Empty(t, ns)
		assert.Empty(t, env.sched.active())
	})

	t.Run("Invalid", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Notify(t.Context(), sid, domain.NotificationInput{Type: "loud"})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("CloseStopsTimers", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Notify(t.Context(), sid, info("a"))
		require.NoError(t, err)

		env.svc.Close()
		assert.Empty(t, env.sched.active())

		_, err = env.svc.Notifications(t.Context(), sid)
		require.ErrorIs(t, err, domain.ErrUnavailable)
	})
}

func TestServiceRecordFailure(t *testing.T) {
	env := newTestEnv(t)
	for want := 1; want <= 3; want++ {
		assert.Equal(t, want, env.svc.RecordFailure(t.Context(), sid))
	}

	ns, err := env.svc.Notifications(t.Context(), sid)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "Multiple errors detected. Please refresh the page or contact support.", ns[0].Message)
}
