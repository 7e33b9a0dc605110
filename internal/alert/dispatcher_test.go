package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
)

type captureSink struct {
	mu     sync.Mutex
	name   string
	err    error
	events []common.AlertEvent
}

func (c *captureSink) Name() string {
	return c.name
}

func (c *captureSink) Deliver(_ context.Context, evt common.AlertEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return c.err
}

func (c *captureSink) all() []common.AlertEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]common.AlertEvent, len(c.events))
	copy(out, c.events)
	return out
}

func TestDispatcher_DeliversInPublishOrder(t *testing.T) {
	sink := &captureSink{name: "capture"}
	d := NewDispatcher([]Sink{sink}, WithQueueSize(8))

	assert.True(t, d.Publish(common.NewFailoverEvent("agent-1", "blue", "green")))
	assert.True(t, d.Publish(common.NewErrorRateEvent("agent-1", 5.0, 2.0, "green", 200)))
	assert.True(t, d.Publish(common.NewRecoveryEvent("agent-1", "blue", time.Minute)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		return len(sink.all()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)

	events := sink.all()
	assert.Equal(t, constants.AlertTypeFailover, events[0].Type)
	assert.Equal(t, constants.AlertTypeErrorRate, events[1].Type)
	assert.Equal(t, constants.AlertTypeRecovery, events[2].Type)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(nil, WithQueueSize(1))

	assert.True(t, d.Publish(common.NewFailoverEvent("agent-1", "blue", "green")))
	assert.False(t, d.Publish(common.NewFailoverEvent("agent-1", "green", "blue")))
	assert.Equal(t, 1, d.Pending())
}

func TestDispatcher_RejectsMalformedEvents(t *testing.T) {
	d := NewDispatcher(nil)

	assert.False(t, d.Publish(common.AlertEvent{}))
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_SinkFailureDoesNotStopOthers(t *testing.T) {
	failing := &captureSink{name: "failing", err: errors.New("connection refused")}
	healthy := &captureSink{name: "healthy"}
	d := NewDispatcher([]Sink{failing, healthy})

	assert.True(t, d.Publish(common.NewFailoverEvent("agent-1", "blue", "green")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		return len(healthy.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, failing.all(), 1)

	cancel()
	assert.NoError(t, <-done)
}
