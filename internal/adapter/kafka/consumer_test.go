package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeConsumerClient struct {
	mu      sync.Mutex
	batches []kgo.Fetches
	closed  bool
}

func (c *fakeConsumerClient) PollFetches(ctx context.Context) kgo.Fetches {
	c.mu.Lock()
	if len(c.batches) != 0 {
		f := c.batches[0]
		c.batches = c.batches[1:]
		c.mu.Unlock()
		return f
	}
	c.mu.Unlock()

	<-ctx.Done()
	return kgo.NewErrFetch(ctx.Err())
}

func (c *fakeConsumerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (s *recordingSink) Track(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func encodedEvent(t *testing.T, name, sessionID string) []byte {
	t.Helper()
	b, err := json.Marshal(schema.AnalyticsEventV1{
		Name:      name,
		SessionID: sessionID,
		Timestamp: testTime,
		Payload:   `{"page":1}`,
	})
	require.NoError(t, err)
	return b
}

func makeFetches(values ...[]byte) kgo.Fetches {
	records := make([]*kgo.Record, 0, len(values))
	for i, v := range values {
		records = append(records, &kgo.Record{
			Topic: "analytics-events", Value: v, Offset: int64(i),
		})
	}
	return kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic: "analytics-events",
			Partitions: []kgo.FetchPartition{{
				Partition: 0, Records: records,
			}},
		}},
	}}
}

func newTestConsumer(
	t *testing.T, cl ConsumerClient, sink *recordingSink,
) *EventsConsumer {
	t.Helper()
	c, err := NewEventsConsumer(
		func(opts *consumerOpts) error {
			opts.cl = cl
			return nil
		},
		ConsumerDecoderOpt(jsonSerde{}),
		ConsumerEventSinkOpt(sink),
	)
	require.NoError(t, err)
	return c
}

func TestNewEventsConsumer(t *testing.T) {
	_, err := NewEventsConsumer(ConsumerDecoderOpt(jsonSerde{}))
	assert.ErrorIs(t, err, ErrTooFewOpts)

	_, err = NewEventsConsumer(ConsumerEventSinkOpt(nil))
	assert.Error(t, err)
}

func TestEventsConsumerProcessFetches(t *testing.T) {
	t.Run("SkipsUndecodableRecords", func(t *testing.T) {
		sink := new(recordingSink)
		c := newTestConsumer(t, new(fakeConsumerClient), sink)

		err := c.processFetches(context.Background(), makeFetches(
			encodedEvent(t, "page_view", "sess-1"),
			[]byte("garbage"),
			encodedEvent(t, "search", "sess-2"),
		))
		require.NoError(t, err)

		require.Len(t, sink.events, 2)
		assert.Equal(t, domain.EventPageView, sink.events[0].Name)
		assert.Equal(t, float64(1), sink.events[0].Payload["page"])
		assert.Equal(t, "sess-2", sink.events[1].SessionID)
	})

	t.Run("SinkFailure", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("full")}
		c := newTestConsumer(t, new(fakeConsumerClient), sink)

		err := c.processFetches(
			context.Background(),
			makeFetches(encodedEvent(t, "page_view", "sess-1")),
		)
		assert.Error(t, err)
	})
}

func TestEventsConsumerRun(t *testing.T) {
	cl := &fakeConsumerClient{batches: []kgo.Fetches{
		makeFetches(encodedEvent(t, "page_view", "sess-1")),
		makeFetches(
			encodedEvent(t, "add_to_cart", "sess-1"),
			encodedEvent(t, "checkout_start", "sess-1"),
		),
	}}
	sink := new(recordingSink)
	c := newTestConsumer(t, cl, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return sink.len() == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	c.Close()
	assert.True(t, cl.closed)
}
