package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/niksmo/shopsphere/pkg/retry"
)

// Persisted container names.
const (
	keyCart       = "cart"
	keyFilters    = "filters"
	keyPagination = "pagination"
	keyWishlist   = "wishlist"
	keyComparison = "comparison"
)

type session struct {
	mu sync.Mutex
	id string

	filters    domain.FilterState
	pagination domain.PaginationState
	cart       domain.Cart
	wishlist   domain.ProductSet
	comparison domain.ProductSet

	order    *domain.Order
	redirect port.Stopper

	notifications      []domain.Notification
	timers             map[int64]port.Stopper
	lastNotificationID int64

	failures   int
	lastAccess time.Time
	closed     bool
}

func (s *Service) newSession(id string) *session {
	return &session{
		id:         id,
		filters:    domain.DefaultFilters(s.cfg.PriceBounds),
		pagination: domain.DefaultPagination(s.cfg.DefaultPageSize),
		timers:     make(map[int64]port.Stopper),
	}
}

// close stops the session timers. Must be called under sess.mu.
func (sess *session) close() {
	for id, t := range sess.timers {
		t.Stop()
		delete(sess.timers, id)
	}
	if sess.redirect != nil {
		sess.redirect.Stop()
		sess.redirect = nil
	}
	sess.closed = true
}

// acquire returns the locked session, creating and restoring it on
// first use. The caller must unlock sess.mu.
func (s *Service) acquire(ctx context.Context, sessionID string) (*session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}

	for {
		sess, created, err := s.lookup(sessionID)
		if err != nil {
			return nil, err
		}
		if created {
			s.restoreSession(ctx, sess)
		} else {
			sess.mu.Lock()
			if sess.closed {
				// evicted or shut down between lookup and lock
				sess.mu.Unlock()
				continue
			}
		}
		sess.lastAccess = s.clock()
		return sess, nil
	}
}

// lookup returns the session registered under id. A created session is
// returned locked.
func (s *Service) lookup(id string) (*session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, domain.ErrUnavailable
	}
	if sess, ok := s.sessions[id]; ok {
		return sess, false, nil
	}

	s.evictIdle()

	sess := s.newSession(id)
	sess.mu.Lock()
	s.sessions[id] = sess
	return sess, true, nil
}

// evictIdle drops the sessions not accessed for SessionIdleTTL, at most
// once per SessionIdleTTL. Sessions busy in an operation are kept.
// Must be called under s.mu.
func (s *Service) evictIdle() {
	const op = "Service.evictIdle"

	now := s.clock()
	ttl := s.cfg.SessionIdleTTL
	if now.Sub(s.lastSweep) < ttl {
		return
	}
	s.lastSweep = now

	var evicted int
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if now.Sub(sess.lastAccess) >= ttl {
			sess.close()
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	if evicted != 0 {
		slog.Debug("idle sessions evicted", "op", op,
			"nEvicted", evicted, "nSessions", len(s.sessions))
	}
}

// SessionCount returns the number of sessions held in memory.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) restoreSession(ctx context.Context, sess *session) {
	if s.storage == nil {
		return
	}
	restore(ctx, s, s.key(sess.id, keyFilters), &sess.filters)
	restore(ctx, s, s.key(sess.id, keyPagination), &sess.pagination)
	restore(ctx, s, s.key(sess.id, keyCart), &sess.cart)
	restore(ctx, s, s.key(sess.id, keyWishlist), &sess.wishlist)
	restore(ctx, s, s.key(sess.id, keyComparison), &sess.comparison)

	sess.filters = sess.filters.Normalize(s.cfg.PriceBounds)
	sess.pagination = sess.pagination.Normalize(s.cfg.PageSizes, s.cfg.DefaultPageSize)
	sess.cart = sess.cart.Normalize()
	sess.wishlist = sess.wishlist.Normalize(0)
	sess.comparison = sess.comparison.Normalize(s.cfg.ComparisonCap)
}

// restore overwrites dst with the stored value. A missing, unreadable
// or malformed value leaves dst untouched.
func restore[T any](ctx context.Context, s *Service, key string, dst *T) {
	const op = "Service.restore"
	log := slog.With("op", op, "key", key)

	data, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("failed to read stored value, using default", "err", err)
		}
		return
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn("malformed stored value, using default", "err", err)
		return
	}
	*dst = v
}

// persist writes v under the session key. Failures are logged only.
func (s *Service) persist(ctx context.Context, sessionID, name string, v any) {
	const op = "Service.persist"

	if s.storage == nil {
		return
	}

	key := s.key(sessionID, name)
	log := slog.With("op", op, "key", key)

	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode value", "err", err)
		return
	}

	err = retry.Do(ctx, s.retryCfg, func() error {
		return s.storage.Put(ctx, key, data)
	})
	if err != nil {
		log.Warn("failed to persist value", "err", err)
	}
}

// forget deletes the session key. Failures are logged only.
func (s *Service) forget(ctx context.Context, sessionID, name string) {
	const op = "Service.forget"

	if s.storage == nil {
		return
	}

	key := s.key(sessionID, name)
	err := retry.Do(ctx, s.retryCfg, func() error {
		return s.storage.Delete(ctx, key)
	})
	if err != nil {
		slog.Warn("failed to delete value", "op", op, "key", key, "err", err)
	}
}

func (s *Service) key(sessionID, name string) string {
	return fmt.Sprintf("%s:%s:%s", s.cfg.KeyPrefix, sessionID, name)
}

// RecordFailure counts a failure caught at the request boundary and
// returns the session's failure count so far.
func (s *Service) RecordFailure(ctx context.Context, sessionID string) int {
	const op = "Service.RecordFailure"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		slog.With("op", op).Warn("failure not attributed to a session", "err", err)
		return 1
	}
	defer sess.mu.Unlock()

	sess.failures++
	if sess.failures > 2 {
		s.pushNotification(sess, domain.NotificationInput{
			Type:    domain.NotificationError,
			Title:   "Something went wrong",
			Message: "Multiple errors detected. Please refresh the page or contact support.",
		})
	}
	return sess.failures
}
