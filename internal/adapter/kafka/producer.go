package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.EventSink = EventsProducer{}

const flushTimeout = 5 * time.Second

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := append(clientOpts(seedBrokers, tlsCfg),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.ProducerLinger(50*time.Millisecond),
		)
		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing producer...")

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := p.cl.Flush(ctx); err != nil {
		log.Error("failed to flush buffered records", "err", err)
	}

	p.cl.Close()
	log.Info("producer is closed")
}

// produceAsync buffers the records without blocking. A record that
// does not fit the client buffer is dropped. Delivery failures are logged.
func (p producer) produceAsync(ctx context.Context, rs ...*kgo.Record) {
	const op = "produceAsync"
	log := slog.With("op", makeOp(p.opPrefix, op))

	for _, r := range rs {
		p.cl.TryProduce(ctx, r, func(r *kgo.Record, err error) {
			switch {
			case err == nil:
			case errors.Is(err, kgo.ErrMaxBuffered):
				log.Warn("producer buffer is full, record dropped", "key", string(r.Key))
			default:
				log.Error(
					"failed to deliver record",
					"key", string(r.Key), "err", err,
				)
			}
		})
	}
}

// An EventsProducer publishes [domain.Event] to the analytics topic
// keyed by session id.
type EventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewEventsProducer(opts ...ProducerOpt) (EventsProducer, error) {
	const op = "NewEventsProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return EventsProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return EventsProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "EventsProducer"
	return EventsProducer{
		producer: producer{opPrefix: opPrefix, cl: options.cl},
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p EventsProducer) Close() {
	p.producer.close()
}

// Track hands the event to the client buffer and returns. The record
// outlives the caller's context.
func (p EventsProducer) Track(ctx context.Context, e domain.Event) error {
	const op = "Track"

	r, err := p.createRecord(e)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	p.producer.produceAsync(context.WithoutCancel(ctx), r)
	return nil
}

func (p EventsProducer) createRecord(e domain.Event) (*kgo.Record, error) {
	const op = "createRecord"

	s, err := eventToSchemaV1(e)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}

	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}

	return &kgo.Record{
		Key:       []byte(s.SessionID),
		Value:     b,
		Timestamp: e.Timestamp,
	}, nil
}
