package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

func (s *Service) Notify(
	ctx context.Context, sessionID string, in domain.NotificationInput,
) (domain.Notification, error) {
	const op = "Service.Notify"

	if err := in.Validate(); err != nil {
		return domain.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	return s.pushNotification(sess, in), nil
}

// Notifications returns the active notifications oldest first.
func (s *Service) Notifications(ctx context.Context, sessionID string) ([]domain.Notification, error) {
	const op = "Service.Notifications"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	return slices.Clone(sess.notifications), nil
}

func (s *Service) DismissNotification(ctx context.Context, sessionID string, id int64) error {
	const op = "Service.DismissNotification"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	if !s.dropNotification(sess, id) {
		return fmt.Errorf("%s: notification %d: %w", op, id, domain.ErrNotFound)
	}
	return nil
}

func (s *Service) ClearNotifications(ctx context.Context, sessionID string) error {
	const op = "Service.ClearNotifications"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	for id, t := range sess.timers {
		t.Stop()
		delete(sess.timers, id)
	}
	sess.notifications = nil
	return nil
}

func (s *Service) notify(sess *session, typ domain.NotificationType, title, message string) {
	s.pushNotification(sess, domain.NotificationInput{
		Type:    typ,
		Title:   title,
		Message: message,
	})
}

// pushNotification appends a notification and schedules its expiry.
// Ids grow strictly within a session. Must be called under sess.mu.
func (s *Service) pushNotification(sess *session, in domain.NotificationInput) domain.Notification {
	d := s.cfg.NotificationDuration
	if in.Duration != nil {
		d = *in.Duration
	}

	now := s.clock()
	id := max(now.UnixMilli(), sess.lastNotificationID+1)
	sess.lastNotificationID = id

	n := domain.Notification{
		ID:        id,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Duration:  d,
		CreatedAt: now,
	}
	sess.notifications = append(sess.notifications, n)

	if d > 0 && !sess.closed {
		sess.timers[id] = s.schedule(d, func() {
			s.expireNotification(sess, id)
		})
	}
	return n
}

func (s *Service) expireNotification(sess *session, id int64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return
	}
	s.dropNotification(sess, id)
}

// dropNotification removes the notification and stops its timer.
// Must be called under sess.mu.
func (s *Service) dropNotification(sess *session, id int64) bool {
	if t, ok := sess.timers[id]; ok {
		t.Stop()
		delete(sess.timers, id)
	}
	i := slices.IndexFunc(sess.notifications, func(n domain.Notification) bool {
		return n.ID == id
	})
	if i < 0 {
		return false
	}
	sess.notifications = slices.Delete(sess.notifications, i, i+1)
	return true
}

