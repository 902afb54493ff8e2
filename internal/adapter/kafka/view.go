package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

var _ port.EventCountsView = (*EventCountsView)(nil)

// An EventCountsViewConfig used for setup [EventCountsView].
//
// SeedBrokers and Group are required.
type EventCountsViewConfig struct {
	SeedBrokers []string
	Group       string
	Opts        []goka.ViewOption
}

// An EventCountsView serves the counts kept by [EventCounterProcessor].
type EventCountsView struct {
	opPrefix string
	gv       *goka.View
}

func NewEventCountsView(config EventCountsViewConfig) (*EventCountsView, error) {
	const op = "NewEventCountsView"

	if len(config.SeedBrokers) == 0 || config.Group == "" {
		return nil, opErr(ErrTooFewOpts, op)
	}

	opts := append([]goka.ViewOption{withNonlogViewOpt()}, config.Opts...)
	gv, err := goka.NewView(
		config.SeedBrokers,
		goka.GroupTable(goka.Group(config.Group)),
		new(codec.Int64),
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &EventCountsView{opPrefix: "EventCountsView", gv: gv}, nil
}

// Run starts the view and returns once it has caught up with the table
// or ctx is done. A view failure calls stopFn.
func (v *EventCountsView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer wg.Done()

	go func() {
		defer stopFn()
		if err := v.gv.Run(ctx); err != nil {
			log.Error("stopped", "err", err)
			return
		}
		log.Info("stopped")
	}()

	log.Info("preparing...")
	select {
	case <-ctx.Done():
		return
	case <-v.gv.WaitRunning():
	}
	log.Info("running")
}

func (v *EventCountsView) Count(name domain.EventName) (int64, error) {
	const op = "Count"

	value, err := v.gv.Get(string(name))
	if err != nil {
		return 0, opErr(err, v.opPrefix, op)
	}

	if value == nil {
		return 0, nil
	}

	n, ok := value.(int64)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), v.opPrefix, op,
		)
	}
	return n, nil
}
