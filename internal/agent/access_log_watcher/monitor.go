package access_log_watcher

import (
	"fmt"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

// minSampleFraction is the share of window capacity that must be filled
// before the error rate is considered meaningful.
const minSampleFraction = 0.1

// Monitor compares the window's 5xx rate against a fixed threshold and
// raises an error-rate alert when it is strictly exceeded.
type Monitor struct {
	agentID   string
	threshold float64
	gate      Admitter
	notifier  Notifier
	logger    *log.Logger
}

func NewMonitor(agentID string, threshold float64, gate Admitter, notifier Notifier) *Monitor {
	return &Monitor{
		agentID:   agentID,
		threshold: threshold,
		gate:      gate,
		notifier:  notifier,
		logger:    log.Default().Named("error_rate_monitor"),
	}
}

// Evaluate checks the current error rate. Windows holding fewer than 10% of
// their capacity are skipped. The high-rate warning is logged even when the
// gate holds the alert back.
func (m *Monitor) Evaluate(w *Window, activePool string) {
	if float64(w.Len()) < float64(w.Cap())*minSampleFraction {
		return
	}
	rate := w.ErrorRate()
	if rate <= m.threshold {
		return
	}

	m.logger.Warn(fmt.Sprintf("High error rate detected: %.2f%% (threshold: %g%%)", rate, m.threshold))
	if m.gate.CanSend(constants.AlertTypeErrorRate) {
		pool := activePool
		if pool == "" {
			pool = "Unknown"
		}
		m.notifier.Publish(common.NewErrorRateEvent(m.agentID, rate, m.threshold, pool, w.Cap()))
	}
}
