package access_log_watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
)

type fakeGate struct {
	mu    sync.Mutex
	deny  map[constants.AlertType]bool
	calls []constants.AlertType
}

func newFakeGate() *fakeGate {
	return &fakeGate{deny: make(map[constants.AlertType]bool)}
}

func (f *fakeGate) CanSend(alertType constants.AlertType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, alertType)
	return !f.deny[alertType]
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []common.AlertEvent
}

func (f *fakeNotifier) Publish(evt common.AlertEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return true
}

func (f *fakeNotifier) all() []common.AlertEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]common.AlertEvent, len(f.events))
	copy(out, f.events)
	return out
}

func TestDetector_FirstObservationSetsPoolSilently(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	assert.Equal(t, "", d.ActivePool())
	assert.False(t, d.Observe("green-pool"))
	assert.Equal(t, "green-pool", d.ActivePool())
	assert.Empty(t, gate.calls)
	assert.Empty(t, notifier.all())
}

func TestDetector_SamePoolIsQuiet(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	d.Observe("blue-pool")
	assert.False(t, d.Observe("blue-pool"))
	assert.False(t, d.Observe("blue-pool"))
	assert.Empty(t, notifier.all())
}

func TestDetector_FailoverRaisesAlert(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	d.Observe("blue-pool")
	assert.True(t, d.Observe("green-pool"))
	assert.Equal(t, "green-pool", d.ActivePool())

	events := notifier.all()
	assert.Len(t, events, 1)
	assert.Equal(t, constants.AlertTypeFailover, events[0].Type)
	assert.Equal(t, "blue-pool", events[0].Payload.Failover.FromPool)
	assert.Equal(t, "green-pool", events[0].Payload.Failover.ToPool)
}

func TestDetector_ReturnToPrimaryRaisesRecovery(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	current := time.Now()
	d.now = func() time.Time { return current }

	d.Observe("blue-pool")
	d.Observe("green-pool")

	// The return transition's own failover alert is on cooldown, so the
	// recovery duration is measured from the original failover.
	gate.deny[constants.AlertTypeFailover] = true
	current = current.Add(90 * time.Second)
	assert.True(t, d.Observe("blue-pool"))

	events := notifier.all()
	assert.Len(t, events, 2)
	assert.Equal(t, constants.AlertTypeFailover, events[0].Type)
	assert.Equal(t, constants.AlertTypeRecovery, events[1].Type)
	assert.Equal(t, "blue-pool", events[1].Payload.Recovery.Pool)
	assert.Equal(t, int64(90), events[1].Payload.Recovery.DurationSec)
	assert.True(t, d.failoverStart.IsZero())
}

func TestDetector_RecoveryDurationResetsWhenReturnAlertAdmitted(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	current := time.Now()
	d.now = func() time.Time { return current }

	d.Observe("blue-pool")
	d.Observe("green-pool")

	// When the return transition's failover alert is admitted too, it
	// restamps the failover start, so the recovery reports zero seconds.
	current = current.Add(90 * time.Second)
	d.Observe("blue-pool")

	events := notifier.all()
	assert.Len(t, events, 3)
	assert.Equal(t, constants.AlertTypeFailover, events[0].Type)
	assert.Equal(t, constants.AlertTypeFailover, events[1].Type)
	assert.Equal(t, constants.AlertTypeRecovery, events[2].Type)
	assert.Equal(t, int64(0), events[2].Payload.Recovery.DurationSec)
}

func TestDetector_NoRecoveryWithoutRecordedFailover(t *testing.T) {
	gate := newFakeGate()
	gate.deny[constants.AlertTypeFailover] = true
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	// The failover alert is never admitted, so no failover start is on
	// record and the return to primary stays silent.
	d.Observe("green-pool")
	assert.True(t, d.Observe("blue-pool"))

	assert.Equal(t, []constants.AlertType{constants.AlertTypeFailover}, gate.calls)
	assert.Empty(t, notifier.all())
	assert.Equal(t, "blue-pool", d.ActivePool())
}

func TestDetector_PoolAdvancesWhenGateDeniesEverything(t *testing.T) {
	gate := newFakeGate()
	gate.deny[constants.AlertTypeFailover] = true
	gate.deny[constants.AlertTypeRecovery] = true
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "blue", gate, notifier)

	d.Observe("blue-pool")
	assert.True(t, d.Observe("green-pool"))
	assert.Equal(t, "green-pool", d.ActivePool())
	assert.Empty(t, notifier.all())
}

func TestDetector_PrimaryPrefixIsCaseInsensitive(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "Blue", gate, notifier)

	d.Observe("green-pool")
	d.Observe("BLUE-pool-2")

	events := notifier.all()
	assert.Len(t, events, 2)
	assert.Equal(t, constants.AlertTypeFailover, events[0].Type)
	assert.Equal(t, constants.AlertTypeRecovery, events[1].Type)
	assert.Equal(t, "BLUE-pool-2", events[1].Payload.Recovery.Pool)
}

func TestDetector_CustomPrimaryPrefix(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "primary", gate, notifier)

	d.Observe("primary-a")
	d.Observe("standby-b")

	// A pool named blue is just another backup under this prefix.
	d.Observe("blue-pool")
	for _, evt := range notifier.all() {
		assert.NotEqual(t, constants.AlertTypeRecovery, evt.Type)
	}

	d.Observe("PRIMARY-a")
	events := notifier.all()
	assert.Equal(t, constants.AlertTypeRecovery, events[len(events)-1].Type)
}

func TestDetector_EmptyPrefixFallsBackToDefault(t *testing.T) {
	gate := newFakeGate()
	notifier := &fakeNotifier{}
	d := NewDetector("agent-1", "", gate, notifier)
	assert.Equal(t, constants.DefaultPrimaryPoolPrefix, d.primaryPrefix)
}
