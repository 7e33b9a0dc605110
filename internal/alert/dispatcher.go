package alert

import (
	"context"
	"fmt"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

// Sink delivers an alert event to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt common.AlertEvent) error
}

type Option func(d *Dispatcher)

// WithQueueSize sets the pending-event capacity. Values below 1 keep the
// default.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan common.AlertEvent, n)
		}
	}
}

// Dispatcher fans alert events out to its sinks from a single consumer
// goroutine, preserving publish order. Publish never blocks the hot path:
// when the queue is full the event is dropped and logged.
type Dispatcher struct {
	queue  chan common.AlertEvent
	sinks  []Sink
	logger *log.Logger
}

func NewDispatcher(sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:  make(chan common.AlertEvent, constants.AlertDefaultQueueSize),
		sinks:  sinks,
		logger: log.Default().Named("alert_dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish enqueues an event for delivery and reports whether it was
// accepted. Invalid events and events arriving on a full queue are dropped.
func (d *Dispatcher) Publish(evt common.AlertEvent) bool {
	if err := evt.Validate(); err != nil {
		d.logger.Error(fmt.Sprintf("Dropping malformed alert event: %s", err.Error()))
		return false
	}
	select {
	case d.queue <- evt:
		return true
	default:
		d.logger.Error(fmt.Sprintf("Alert queue full, dropping %s event %s", evt.Type, evt.Header.EventID))
		return false
	}
}

// Run consumes the queue until ctx is cancelled. The delivery in progress
// when shutdown begins is allowed to finish; anything still queued is
// dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down alert dispatcher")
			return nil
		case evt := <-d.queue:
			d.deliver(evt)
		}
	}
}

func (d *Dispatcher) deliver(evt common.AlertEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.AlertDefaultDeliverTimeout)
	defer cancel()
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, evt); err != nil {
			d.logger.Error(fmt.Sprintf("Failed to deliver %s alert via %s: %s", evt.Type, sink.Name(), err.Error()))
		}
	}
}

// Pending returns the number of queued, undelivered events.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}
