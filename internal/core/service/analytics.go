package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

// track records an analytics event. Sink failures are logged and
// never reach the caller.
func (s *Service) track(
	ctx context.Context, sessionID string, name domain.EventName, payload map[string]any,
) {
	const op = "Service.track"

	if s.sink == nil {
		return
	}

	e := domain.Event{
		Name:      name,
		SessionID: sessionID,
		Timestamp: s.clock(),
		Payload:   payload,
	}
	if err := s.sink.Track(ctx, e); err != nil {
		slog.With("op", op).Warn(
			"failed to record event", "event", name, "err", err,
		)
	}
}

// EventsSummary summarizes the events retained by this instance.
func (s *Service) EventsSummary(ctx context.Context) (domain.EventsSummary, error) {
	const op = "Service.EventsSummary"

	if s.eventsLog == nil {
		return domain.EventsSummary{}, fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}
	return s.eventsLog.Summary(), nil
}

// EventCount returns the cluster-wide count of the named event.
func (s *Service) EventCount(ctx context.Context, name domain.EventName) (int64, error) {
	const op = "Service.EventCount"

	if s.counter == nil {
		return 0, fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}
	n, err := s.counter.Count(name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
