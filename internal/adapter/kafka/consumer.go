package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/niksmo/shopsphere/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

type ConsumerOpt func(*consumerOpts) error

// ConsumerClientOpt creates a groupless client which starts reading
// the topic from its end, so every instance sees every new record.
func ConsumerClientOpt(
	seedBrokers []string, topic string, tlsCfg *tls.Config,
) ConsumerOpt {
	return func(opts *consumerOpts) error {
		kopts := append(clientOpts(seedBrokers, tlsCfg),
			kgo.ConsumeTopics(topic),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
		)
		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(opts *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		opts.decoder = decoder
		return nil
	}
}

func ConsumerEventSinkOpt(sink port.EventSink) ConsumerOpt {
	return func(opts *consumerOpts) error {
		if sink == nil {
			return errors.New("event sink is nil")
		}
		opts.sink = sink
		return nil
	}
}

type consumerOpts struct {
	cl      ConsumerClient
	decoder Decoder
	sink    port.EventSink
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	return nil
}

type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].
type consumer struct {
	opPrefix      string
	parent        consumerParent
	cl            ConsumerClient
	slowDownTimer *time.Timer
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown(ctx)
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.parent.processFetches(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown(ctx context.Context) {
	c.slowDownTimer.Reset(1 * time.Second)
	select {
	case <-ctx.Done():
	case <-c.slowDownTimer.C:
	}
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("closing consumer...")
	c.slowDownTimer.Stop()
	c.cl.Close()
	log.Info("consumer is closed")
}

// An EventsConsumer reads the analytics topic and replays each event
// into the sink. It feeds the local events log with the events of
// every running instance.
type EventsConsumer struct {
	opPrefix string
	consumer consumer
	decoder  Decoder
	sink     port.EventSink
}

func NewEventsConsumer(opts ...ConsumerOpt) (*EventsConsumer, error) {
	const op = "NewEventsConsumer"

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return nil, opErr(err, op)
	}
	if options.cl == nil || options.decoder == nil || options.sink == nil {
		return nil, opErr(ErrTooFewOpts, op)
	}

	c := &EventsConsumer{
		opPrefix: "EventsConsumer",
		decoder:  options.decoder,
		sink:     options.sink,
	}
	c.consumer = consumer{
		opPrefix:      c.opPrefix,
		parent:        c,
		cl:            options.cl,
		slowDownTimer: time.NewTimer(0),
	}
	return c, nil
}

func (c *EventsConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c *EventsConsumer) Close() {
	c.consumer.close()
}

// processFetches skips records it cannot decode. They are logged and
// never block the records behind them.
func (c *EventsConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"
	log := slog.With("op", makeOp(c.opPrefix, op))

	var errs []error
	fetches.EachRecord(func(r *kgo.Record) {
		var s schema.AnalyticsEventV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			log.Error(
				"failed to decode record",
				"offset", r.Offset, "partition", r.Partition, "err", err,
			)
			return
		}

		e, err := schemaV1ToEvent(s)
		if err != nil {
			log.Error("malformed event payload", "name", s.Name, "err", err)
			return
		}

		if err := c.sink.Track(ctx, e); err != nil {
			errs = append(errs, err)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}
