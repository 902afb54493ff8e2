package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/niksmo/shopsphere/pkg/retry"
	"github.com/shopspring/decimal"
)

var (
	_ port.CatalogBrowser      = (*Service)(nil)
	_ port.FilterSetter        = (*Service)(nil)
	_ port.CartManager         = (*Service)(nil)
	_ port.Checkouter          = (*Service)(nil)
	_ port.ListManager         = (*Service)(nil)
	_ port.ReviewManager       = (*Service)(nil)
	_ port.NotificationManager = (*Service)(nil)
	_ port.FailureRecorder     = (*Service)(nil)
	_ port.AnalyticsReader     = (*Service)(nil)
)

const (
	defaultKeyPrefix      = "shopsphere"
	defaultRedirectDelay  = 3 * time.Second
	defaultSessionIdleTTL = 30 * time.Minute
)

type Config struct {
	PriceBounds          domain.PriceBounds
	PageSizes            []int
	DefaultPageSize      int
	ComparisonCap        int
	NotificationDuration time.Duration
	RedirectDelay        time.Duration
	SessionIdleTTL       time.Duration
	KeyPrefix            string
}

func (c *Config) normalize() {
	if c.PriceBounds.Max.IsZero() {
		c.PriceBounds.Max = decimal.NewFromInt(300)
	}
	if len(c.PageSizes) == 0 {
		c.PageSizes = domain.DefaultPageSizes
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = c.PageSizes[0]
	}
	if c.ComparisonCap == 0 {
		c.ComparisonCap = domain.ComparisonCap
	}
	if c.NotificationDuration == 0 {
		c.NotificationDuration = domain.DefaultNotificationDuration
	}
	if c.RedirectDelay == 0 {
		c.RedirectDelay = defaultRedirectDelay
	}
	if c.SessionIdleTTL <= 0 {
		c.SessionIdleTTL = defaultSessionIdleTTL
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
}

////////////////////////////////////////////////////////
///////////////           OPTS            //////////////
////////////////////////////////////////////////////////

type Opt func(*options) error

type options struct {
	storage    port.KVStorage
	sink       port.EventSink
	eventsLog  port.EventsLog
	counter    port.EventCounter
	scheduler  port.Scheduler
	clock      func() time.Time
	newID      func() string
	reviews    []domain.Review
	processors []runner
}

type runner interface {
	Run(context.Context, context.CancelFunc, *sync.WaitGroup)
}

type closer interface {
	Close()
}

func StorageOpt(s port.KVStorage) Opt {
	return func(o *options) error {
		if s == nil {
			return errors.New("storage is nil")
		}
		o.storage = s
		return nil
	}
}

func EventSinkOpt(s port.EventSink) Opt {
	return func(o *options) error {
		if s == nil {
			return errors.New("event sink is nil")
		}
		o.sink = s
		return nil
	}
}

func EventsLogOpt(l port.EventsLog) Opt {
	return func(o *options) error {
		if l == nil {
			return errors.New("events log is nil")
		}
		o.eventsLog = l
		return nil
	}
}

// EventCounterOpt attaches the cluster-wide counter view. The view
// is run by [Service.Run].
func EventCounterOpt(v port.EventCountsView) Opt {
	return func(o *options) error {
		if v == nil {
			return errors.New("event counts view is nil")
		}
		o.counter = v
		o.processors = append(o.processors, v)
		return nil
	}
}

func EventCounterProcOpt(p port.EventCounterProcessor) Opt {
	return func(o *options) error {
		if p == nil {
			return errors.New("event counter processor is nil")
		}
		o.processors = append(o.processors, p)
		return nil
	}
}

func SchedulerOpt(s port.Scheduler) Opt {
	return func(o *options) error {
		if s == nil {
			return errors.New("scheduler is nil")
		}
		o.scheduler = s
		return nil
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(o *options) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		o.clock = now
		return nil
	}
}

func IDGeneratorOpt(fn func() string) Opt {
	return func(o *options) error {
		if fn == nil {
			return errors.New("id generator is nil")
		}
		o.newID = fn
		return nil
	}
}

// ReviewsOpt seeds the review list.
func ReviewsOpt(rs []domain.Review) Opt {
	return func(o *options) error {
		o.reviews = rs
		return nil
	}
}

func (o *options) apply(opts ...Opt) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

////////////////////////////////////////////////////////
///////////////          SERVICE          //////////////
////////////////////////////////////////////////////////

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) port.Stopper {
	return time.AfterFunc(d, f)
}

// A Service owns every session's state containers and the shared
// review list. Each session is mutated under its own lock.
type Service struct {
	cfg        Config
	catalog    domain.Catalog
	storage    port.KVStorage
	sink       port.EventSink
	eventsLog  port.EventsLog
	counter    port.EventCounter
	scheduler  port.Scheduler
	clock      func() time.Time
	newID      func() string
	processors []runner
	retryCfg   retry.RetryConfig

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
	closed    bool

	reviewsMu sync.Mutex
	reviews   domain.Reviews
}

func New(cfg Config, catalog domain.Catalog, opts ...Opt) (*Service, error) {
	const op = "service.New"

	var options options
	if err := options.apply(opts...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.normalize()

	s := &Service{
		cfg:        cfg,
		catalog:    catalog,
		storage:    options.storage,
		sink:       options.sink,
		eventsLog:  options.eventsLog,
		counter:    options.counter,
		scheduler:  options.scheduler,
		clock:      options.clock,
		newID:      options.newID,
		processors: options.processors,
		sessions:   make(map[string]*session),
		reviews:    domain.Reviews{Items: options.reviews},
		retryCfg: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(50 * time.Millisecond),
		},
	}

	if s.scheduler == nil {
		s.scheduler = timeScheduler{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// Run runs the service components in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s *Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	var wg sync.WaitGroup
	wg.Add(len(s.processors))
	for _, p := range s.processors {
		go p.Run(ctx, stopFn, &wg)
	}
	wg.Wait()
}

// Close cancels every pending timer and closes the processors.
func (s *Service) Close() {
	const op = "Service.Close"
	log := slog.With("op", op)

	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		sess.close()
		sess.mu.Unlock()
	}
	log.Info("sessions are closed", "nSessions", len(sessions))

	for _, p := range s.processors {
		if c, ok := p.(closer); ok {
			c.Close()
		}
	}
}

func (s *Service) Categories() []string {
	return s.catalog.Categories()
}

func (s *Service) RedirectDelay() time.Duration {
	return s.cfg.RedirectDelay
}

func (s *Service) ComparisonCap() int {
	return s.cfg.ComparisonCap
}

func (s *Service) PageSizes() []int {
	return s.cfg.PageSizes
}

func (s *Service) product(id int) (domain.Product, error) {
	p, err := s.catalog.Product(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// schedule runs fn after d on the scheduler.
func (s *Service) schedule(d time.Duration, fn func()) port.Stopper {
	return s.scheduler.AfterFunc(d, fn)
}
