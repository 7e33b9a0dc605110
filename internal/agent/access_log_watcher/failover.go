package access_log_watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

// Notifier accepts alert events for delivery. Publish reports whether the
// event was accepted for dispatch.
type Notifier interface {
	Publish(evt common.AlertEvent) bool
}

// Detector tracks which pool is serving traffic and raises failover and
// recovery alerts on transitions. Pools whose name starts with the primary
// prefix (case-insensitive) count as primary; a return to a primary pool
// after a recorded failover produces a recovery alert carrying the time
// spent on backup.
type Detector struct {
	agentID       string
	primaryPrefix string
	activePool    string
	hasActive     bool
	failoverStart time.Time
	gate          Admitter
	notifier      Notifier
	now           func() time.Time
	logger        *log.Logger
}

func NewDetector(agentID, primaryPrefix string, gate Admitter, notifier Notifier) *Detector {
	if primaryPrefix == "" {
		primaryPrefix = constants.DefaultPrimaryPoolPrefix
	}
	return &Detector{
		agentID:       agentID,
		primaryPrefix: strings.ToLower(primaryPrefix),
		gate:          gate,
		notifier:      notifier,
		now:           time.Now,
		logger:        log.Default().Named("failover_detector"),
	}
}

// Observe registers the pool that served the latest request and reports
// whether a pool transition occurred. On a transition the failover alert is
// attempted first, then, if the new pool is primary and a failover start is
// on record, the recovery alert. The active pool advances regardless of
// whether either alert passes the gate.
func (d *Detector) Observe(pool string) bool {
	if !d.hasActive {
		d.activePool = pool
		d.hasActive = true
		d.logger.Info(fmt.Sprintf("Initial pool detected: %s", pool))
		return false
	}
	if pool == d.activePool {
		return false
	}

	from := d.activePool
	d.logger.Info(fmt.Sprintf("Failover detected: %s -> %s", from, pool))
	if d.gate.CanSend(constants.AlertTypeFailover) {
		d.notifier.Publish(common.NewFailoverEvent(d.agentID, from, pool))
		d.failoverStart = d.now()
	}

	d.activePool = pool

	if d.isPrimary(pool) && !d.failoverStart.IsZero() {
		backupFor := d.now().Sub(d.failoverStart)
		if d.gate.CanSend(constants.AlertTypeRecovery) {
			d.notifier.Publish(common.NewRecoveryEvent(d.agentID, pool, backupFor))
		}
		d.failoverStart = time.Time{}
	}

	return true
}

func (d *Detector) isPrimary(pool string) bool {
	return strings.HasPrefix(strings.ToLower(pool), d.primaryPrefix)
}

// ActivePool returns the most recently observed pool, or "" before the
// first observation.
func (d *Detector) ActivePool() string {
	if !d.hasActive {
		return ""
	}
	return d.activePool
}
