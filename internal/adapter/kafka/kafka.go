package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerClient interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// clientOpts returns the options shared by every franz-go client.
func clientOpts(seedBrokers []string, tlsCfg *tls.Config) []kgo.Opt {
	opts := []kgo.Opt{kgo.SeedBrokers(seedBrokers...)}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	return opts
}

// ApplyTLS makes every goka processor and view created afterwards
// dial the brokers over TLS. A nil config changes nothing.
func ApplyTLS(tlsCfg *tls.Config) {
	if tlsCfg == nil {
		return
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsCfg
	goka.ReplaceGlobalConfig(cfg)
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNonlogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func eventToSchemaV1(v domain.Event) (s schema.AnalyticsEventV1, err error) {
	payload := []byte("{}")
	if len(v.Payload) != 0 {
		payload, err = json.Marshal(v.Payload)
		if err != nil {
			return s, err
		}
	}
	s.Name = string(v.Name)
	s.SessionID = v.SessionID
	s.Timestamp = v.Timestamp
	s.Payload = string(payload)
	return s, nil
}

func schemaV1ToEvent(s schema.AnalyticsEventV1) (v domain.Event, err error) {
	v.Name = domain.EventName(s.Name)
	v.SessionID = s.SessionID
	v.Timestamp = s.Timestamp
	if s.Payload != "" {
		if err := json.Unmarshal([]byte(s.Payload), &v.Payload); err != nil {
			return domain.Event{}, err
		}
	}
	return v, nil
}
