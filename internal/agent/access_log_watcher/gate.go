package access_log_watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

// Admitter decides whether an alert of a given type may be sent right now.
type Admitter interface {
	CanSend(alertType constants.AlertType) bool
}

// Gate rate-limits alerts per type. A successful CanSend consumes the slot
// immediately, so a failed delivery afterwards still counts against the
// cooldown. Maintenance mode suppresses every alert without touching the
// per-type timestamps.
type Gate struct {
	mu          sync.Mutex
	cooldown    time.Duration
	maintenance bool
	lastSent    map[constants.AlertType]time.Time
	now         func() time.Time
	logger      *log.Logger
}

func NewGate(cooldown time.Duration, maintenance bool) *Gate {
	return &Gate{
		cooldown:    cooldown,
		maintenance: maintenance,
		lastSent:    make(map[constants.AlertType]time.Time),
		now:         time.Now,
		logger:      log.Default().Named("alert_gate"),
	}
}

func (g *Gate) CanSend(alertType constants.AlertType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.maintenance {
		g.logger.Info(fmt.Sprintf("[MAINTENANCE MODE] Alert suppressed: %s", alertType))
		return false
	}

	now := g.now()
	if last, ok := g.lastSent[alertType]; ok {
		elapsed := now.Sub(last)
		if elapsed < g.cooldown {
			remaining := g.cooldown - elapsed
			g.logger.Debug(fmt.Sprintf("Alert cooldown active for %s: %.0fs remaining", alertType, remaining.Seconds()))
			return false
		}
	}

	g.lastSent[alertType] = now
	return true
}

// Maintenance reports whether the gate is suppressing all alerts.
func (g *Gate) Maintenance() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maintenance
}
