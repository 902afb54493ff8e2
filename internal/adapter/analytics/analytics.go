package analytics

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

var (
	_ port.EventSink = (*EventsLog)(nil)
	_ port.EventsLog = (*EventsLog)(nil)
	_ port.EventSink = Fanout{}
	_ port.EventSink = LogSink{}
)

const DefaultCapacity = 100

// EventsLog retains the most recent events of this process.
type EventsLog struct {
	mu       sync.Mutex
	capacity int
	events   []domain.Event
}

func NewEventsLog(capacity int) *EventsLog {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &EventsLog{
		capacity: capacity,
		events:   make([]domain.Event, 0, capacity),
	}
}

// Track appends e, dropping the oldest event when the log is full.
func (l *EventsLog) Track(ctx context.Context, e domain.Event) error {
	e.Payload = maps.Clone(e.Payload)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.events) == l.capacity {
		l.events = slices.Delete(l.events, 0, 1)
	}
	l.events = append(l.events, e)
	return nil
}

// Events returns the retained events oldest first.
func (l *EventsLog) Events() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *EventsLog) Summary() domain.EventsSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := domain.EventsSummary{
		Total:  len(l.events),
		ByType: make(map[domain.EventName]int),
	}
	if len(l.events) == 0 {
		return s
	}
	for _, e := range l.events {
		s.ByType[e.Name]++
	}
	s.Start = l.events[0].Timestamp
	s.End = l.events[len(l.events)-1].Timestamp
	return s
}

// Fanout delivers every event to each sink. All sinks are tried.
type Fanout []port.EventSink

func (f Fanout) Track(ctx context.Context, e domain.Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Track(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes every event to the default logger at debug level.
type LogSink struct{}

func (LogSink) Track(ctx context.Context, e domain.Event) error {
	slog.DebugContext(ctx, "analytics event",
		"op", "LogSink.Track",
		"event", e.Name,
		"session", e.SessionID,
		"payload", e.Payload,
	)
	return nil
}
