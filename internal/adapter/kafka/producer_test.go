package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) TryProduce(
	ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error),
) {
	args := m.Called(ctx, r)
	promise(r, args.Error(0))
}

func (m *MockProducerClient) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

type failingEncoder struct{}

func (failingEncoder) Encode(any) ([]byte, error) {
	return nil, errors.New("registry is down")
}

func clientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.cl = cl
		return nil
	}
}

func TestNewEventsProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		_, err := NewEventsProducer(ProducerEncoderOpt(jsonSerde{}))
		assert.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewEventsProducer(ProducerEncoderOpt(nil))
		assert.Error(t, err)
	})
}

func TestEventsProducerTrack(t *testing.T) {
	e := domain.Event{
		Name:      domain.EventPageView,
		SessionID: "sess-1",
		Timestamp: testTime,
	}

	t.Run("ProducesRecordKeyedBySession", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("TryProduce", mock.Anything, mock.MatchedBy(func(r *kgo.Record) bool {
			return string(r.Key) == "sess-1" && r.Timestamp.Equal(testTime)
		})).Return(nil).Once()

		p, err := NewEventsProducer(clientOpt(cl), ProducerEncoderOpt(jsonSerde{}))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, p.Track(ctx, e))
		cl.AssertExpectations(t)

		r := cl.Calls[0].Arguments.Get(1).(*kgo.Record)
		assert.JSONEq(t,
			`{"Name":"page_view","SessionID":"sess-1","Timestamp":"2024-01-20T10:00:00Z","Payload":"{}"}`,
			string(r.Value),
		)
		recordCtx := cl.Calls[0].Arguments.Get(0).(context.Context)
		assert.NoError(t, recordCtx.Err())
	})

	t.Run("DeliveryFailureIsNotReturned", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("TryProduce", mock.Anything, mock.Anything).
			Return(errors.New("broker unavailable")).Once()

		p, err := NewEventsProducer(clientOpt(cl), ProducerEncoderOpt(jsonSerde{}))
		require.NoError(t, err)

		assert.NoError(t, p.Track(context.Background(), e))
		cl.AssertExpectations(t)
	})

	t.Run("FullBufferDropsRecord", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("TryProduce", mock.Anything, mock.Anything).
			Return(kgo.ErrMaxBuffered).Once()

		p, err := NewEventsProducer(clientOpt(cl), ProducerEncoderOpt(jsonSerde{}))
		require.NoError(t, err)

		assert.NoError(t, p.Track(context.Background(), e))
		cl.AssertExpectations(t)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewEventsProducer(
			clientOpt(cl), ProducerEncoderOpt(failingEncoder{}),
		)
		require.NoError(t, err)

		assert.Error(t, p.Track(context.Background(), e))
		cl.AssertNotCalled(t, "TryProduce", mock.Anything, mock.Anything)
	})
}

func TestEventsProducerClose(t *testing.T) {
	cl := new(MockProducerClient)
	cl.On("Flush", mock.Anything).Return(errors.New("timeout")).Once()
	cl.On("Close").Return().Once()

	p, err := NewEventsProducer(clientOpt(cl), ProducerEncoderOpt(jsonSerde{}))
	require.NoError(t, err)

	p.Close()
	cl.AssertExpectations(t)
}
