package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/shopsphere/internal/core/port"
	"github.com/niksmo/shopsphere/pkg/schema"
)

var _ port.EventCounterProcessor = (*EventCounterProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An eventCodec used for serde [schema.AnalyticsEventV1]
type eventCodec struct {
	serde Serde
}

func newEventCodec(s Serde) eventCodec {
	return eventCodec{s}
}

func (c eventCodec) Encode(v any) ([]byte, error) {
	const op = "eventCodec.Encode"
	if _, ok := v.(schema.AnalyticsEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c eventCodec) Decode(data []byte) (any, error) {
	const op = "eventCodec.Decode"
	var s schema.AnalyticsEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An EventCounterProcessor counts analytics events per event name.
//
// The input stream is keyed by session id, so every event is looped
// back keyed by its name and the loop callback owns the counter row.
// Counts are persisted in the group table.
type EventCounterProcessor struct {
	opPrefix string
	proc     processor
}

func NewEventCounterProc(
	seedBrokers []string,
	inputStream string,
	group string,
	eventSerde Serde,
	opts ...goka.ProcessorOption,
) (*EventCounterProcessor, error) {
	const op = "NewEventCounterProc"

	p := &EventCounterProcessor{opPrefix: "EventCounterProcessor"}

	ec := newEventCodec(eventSerde)
	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(goka.Stream(inputStream), ec, p.processFn),
		goka.Loop(ec, p.countFn),
		goka.Persist(new(codec.Int64)),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return p, nil
}

func (p *EventCounterProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *EventCounterProcessor) Close() {
	p.proc.close()
}

func (p *EventCounterProcessor) processFn(ctx goka.Context, msg any) {
	event, ok := msg.(schema.AnalyticsEventV1)
	if !ok || event.Name == "" {
		return
	}
	ctx.Loopback(event.Name, event)
}

func (p *EventCounterProcessor) countFn(ctx goka.Context, msg any) {
	const op = "countFn"

	var n int64
	if v, ok := ctx.Value().(int64); ok {
		n = v
	}
	n++
	ctx.SetValue(n)

	slog.Debug("event counted",
		"op", makeOp(p.opPrefix, op), "name", ctx.Key(), "count", n,
	)
}
