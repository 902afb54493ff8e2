package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/shopsphere/config"
	"github.com/niksmo/shopsphere/internal/adapter"
	"github.com/niksmo/shopsphere/internal/adapter/analytics"
	"github.com/niksmo/shopsphere/internal/adapter/catalog"
	"github.com/niksmo/shopsphere/internal/adapter/httphandler"
	"github.com/niksmo/shopsphere/internal/adapter/kafka"
	"github.com/niksmo/shopsphere/internal/adapter/storage"
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/niksmo/shopsphere/internal/core/service"
	"github.com/niksmo/shopsphere/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/sr"
)

type broker struct {
	tlsCfg    *tls.Config
	serde     schema.Serde
	producer  kafka.EventsProducer
	consumer  *kafka.EventsConsumer
	processor *kafka.EventCounterProcessor
	view      *kafka.EventCountsView
}

type App struct {
	ctx          context.Context
	cfg          config.Config
	storage      port.KVStorage
	closeStorage func()
	eventsLog    *analytics.EventsLog
	sink         port.EventSink
	broker       *broker
	service      *service.Service
	httpServer   httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initAnalytics()
	if cfg.BrokerEnabled() {
		app.initBroker()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	cfg := app.cfg.Storage
	switch cfg.Driver {
	case config.StoragePostgres:
		db, err := storage.NewSQLDB(app.ctx, cfg.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = storage.NewSQLStore(db)
		app.closeStorage = db.Close
	case config.StorageRedis:
		rs, err := storage.NewRedisStore(app.ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = rs
		app.closeStorage = rs.Close
	default:
		app.storage = storage.NewMemoryStore()
		app.closeStorage = func() {}
	}

	slog.Info("storage is ready", "op", op, "driver", cfg.Driver)
}

// initAnalytics keeps the recent events of this process. The broker
// setup replaces the sink and feeds the log from the topic instead.
func (app *App) initAnalytics() {
	app.eventsLog = analytics.NewEventsLog(app.cfg.Analytics.LocalCapacity)
	app.sink = analytics.Fanout{analytics.LogSink{}, app.eventsLog}
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	app.broker = &broker{}
	app.initBrokerTLS()
	app.initSerde()

	seedBrokers := app.cfg.Broker.SeedBrokers
	topic := app.cfg.Broker.Topics.AnalyticsEvents
	group := app.cfg.Broker.Consumers.EventCounterGroup
	tlsCfg := app.broker.tlsCfg
	serde := app.broker.serde

	producer, err := kafka.NewEventsProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, topic, tlsCfg),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	consumer, err := kafka.NewEventsConsumer(
		kafka.ConsumerClientOpt(seedBrokers, topic, tlsCfg),
		kafka.ConsumerDecoderOpt(serde),
		kafka.ConsumerEventSinkOpt(app.eventsLog),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	kafka.ApplyTLS(tlsCfg)

	processor, err := kafka.NewEventCounterProc(seedBrokers, topic, group, serde)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewEventCountsView(kafka.EventCountsViewConfig{
		SeedBrokers: seedBrokers,
		Group:       group,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.producer = producer
	app.broker.consumer = consumer
	app.broker.processor = processor
	app.broker.view = view
	app.sink = analytics.Fanout{analytics.LogSink{}, producer}
}

func (app *App) initBrokerTLS() {
	const op = "App.initBrokerTLS"

	if !app.cfg.BrokerTLSEnabled() {
		return
	}

	t := app.cfg.Broker.TLS
	tlsCfg, err := adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.tlsCfg = tlsCfg
}

func (app *App) initSerde() {
	const op = "App.initSerde"

	opts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.broker.tlsCfg != nil {
		opts = append(opts, sr.DialTLSConfig(app.broker.tlsCfg))
	}
	srClient, err := sr.NewClient(opts...)
	if err != nil {
		app.fallDown(op, err)
	}

	subject := schema.TopicSubject(app.cfg.Broker.Topics.AnalyticsEvents)
	serde, err := schema.NewSerdeAnalyticsEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schema.NewSchemaRegistry(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.serde = serde
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	c := app.cfg
	cfg := service.Config{
		PriceBounds: domain.PriceBounds{
			Min: decimal.NewFromFloat(c.Catalog.PriceMin),
			Max: decimal.NewFromFloat(c.Catalog.PriceMax),
		},
		PageSizes:            c.Catalog.PageSizes,
		DefaultPageSize:      c.Catalog.DefaultPageSize,
		ComparisonCap:        c.Catalog.ComparisonCap,
		NotificationDuration: c.Notifications.DefaultDuration,
		RedirectDelay:        c.Checkout.RedirectDelay,
		SessionIdleTTL:       c.Sessions.IdleTTL,
		KeyPrefix:            c.Storage.KeyPrefix,
	}

	opts := []service.Opt{
		service.StorageOpt(app.storage),
		service.EventSinkOpt(app.sink),
		service.EventsLogOpt(app.eventsLog),
		service.ReviewsOpt(catalog.Reviews()),
	}
	if app.broker != nil {
		opts = append(opts,
			service.EventCounterProcOpt(app.broker.processor),
			service.EventCounterOpt(app.broker.view),
		)
	}

	s, err := service.New(cfg, catalog.Catalog(), opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.service = s
}

func (app *App) initInboundAdapters() {
	handler := httphandler.NewRouter(app.service)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler, 0)
}

// Run blocks until the stream processors are ready, then serves.
func (app *App) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx, stopFn)
	if app.broker != nil {
		go app.broker.consumer.Run(app.ctx)
	}
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.broker != nil {
		app.broker.consumer.Close()
		app.broker.producer.Close()
	}
	app.closeStorage()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
