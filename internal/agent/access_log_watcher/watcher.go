package access_log_watcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

const (
	evaluateEvery = 10
	progressEvery = 50
)

// PoolRecorder receives every parsed record so pool metadata can be kept
// outside the watcher's own state.
type PoolRecorder interface {
	Record(rec Record)
}

// Snapshot is a point-in-time view of the watcher state for the status API.
type Snapshot struct {
	AgentID            string  `json:"agent_id"`
	LogFilePath        string  `json:"log_file_path"`
	ActivePool         string  `json:"active_pool"`
	TotalRequests      uint64  `json:"total_requests"`
	FailoverCount      uint64  `json:"failover_count"`
	WindowLength       int     `json:"window_length"`
	WindowCapacity     int     `json:"window_capacity"`
	ErrorRate          float64 `json:"error_rate"`
	ErrorRateThreshold float64 `json:"error_rate_threshold"`
	AlertCooldownSec   int64   `json:"alert_cooldown_sec"`
	MaintenanceMode    bool    `json:"maintenance_mode"`
	WebhookConfigured  bool    `json:"webhook_configured"`
}

type Option func(w *Watcher)

// WithPoolRecorder forwards every parsed record to r.
func WithPoolRecorder(r PoolRecorder) Option {
	return func(w *Watcher) {
		w.recorder = r
	}
}

// Watcher consumes raw access-log lines from a single source, maintains the
// sliding window and pool state, and drives the failover detector and error
// rate monitor. Lines are processed strictly in arrival order on one
// goroutine; alert delivery happens elsewhere via the Notifier.
type Watcher struct {
	mu        sync.RWMutex
	conf      Config
	lines     <-chan string
	gate      *Gate
	window    *Window
	detector  *Detector
	monitor   *Monitor
	recorder  PoolRecorder
	total     uint64
	failovers uint64
	logger    *log.Logger
}

func New(conf Config, lines <-chan string, notifier Notifier, opts ...Option) (*Watcher, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid watcher config")
	}
	if lines == nil {
		return nil, errors.New("line source must not be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier must not be nil")
	}

	gate := NewGate(conf.AlertCooldown, conf.MaintenanceMode)
	w := &Watcher{
		conf:     conf,
		lines:    lines,
		gate:     gate,
		window:   NewWindow(conf.WindowSize),
		detector: NewDetector(conf.AgentID, conf.PrimaryPoolPrefix, gate, notifier),
		monitor:  NewMonitor(conf.AgentID, conf.ErrorRateThreshold, gate, notifier),
		logger:   log.Default().Named("access_log_watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run consumes lines until the context is cancelled or the source channel
// closes. A close without cancellation is reported as an error since the
// tailer only stops on shutdown or a fatal read failure.
func (w *Watcher) Run(ctx context.Context) error {
	w.banner()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down access log watcher")
			return nil
		case line, ok := <-w.lines:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("log line source closed unexpectedly")
			}
			w.process(line)
		}
	}
}

func (w *Watcher) process(line string) {
	rec, ok := ParseLine(line)
	if !ok {
		w.logger.Debug(fmt.Sprintf("Failed to parse log line: %q", line))
		return
	}
	if w.recorder != nil {
		w.recorder.Record(rec)
	}

	w.mu.Lock()
	w.window.Add(Observation{Status: rec.UpstreamStatus, Pool: rec.Pool, Timestamp: time.Now()})
	w.total++
	total := w.total
	if w.detector.Observe(rec.Pool) {
		w.failovers++
	}
	if total%evaluateEvery == 0 {
		w.monitor.Evaluate(w.window, w.detector.ActivePool())
	}
	var progressRate float64
	var progressPool string
	if total%progressEvery == 0 {
		progressRate = w.window.ErrorRate()
		progressPool = w.detector.ActivePool()
	}
	w.mu.Unlock()

	if total%progressEvery == 0 {
		w.logger.Info(fmt.Sprintf("Processed %d requests | Pool: %s | Error rate: %.2f%%", total, progressPool, progressRate))
	}
}

// Snapshot returns the current watcher state. Safe to call concurrently
// with Run.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		AgentID:            w.conf.AgentID,
		LogFilePath:        w.conf.LogFilePath,
		ActivePool:         w.detector.ActivePool(),
		TotalRequests:      w.total,
		FailoverCount:      w.failovers,
		WindowLength:       w.window.Len(),
		WindowCapacity:     w.window.Cap(),
		ErrorRate:          w.window.ErrorRate(),
		ErrorRateThreshold: w.conf.ErrorRateThreshold,
		AlertCooldownSec:   int64(w.conf.AlertCooldown.Seconds()),
		MaintenanceMode:    w.conf.MaintenanceMode,
		WebhookConfigured:  w.conf.WebhookConfigured,
	}
}

func (w *Watcher) banner() {
	sep := strings.Repeat("=", 60)
	w.logger.Info(sep)
	w.logger.Info("Blue-Green Alert Watcher Starting")
	w.logger.Info(sep)
	w.logger.Info(fmt.Sprintf("Log file: %s", w.conf.LogFilePath))
	w.logger.Info(fmt.Sprintf("Primary pool prefix: %s", w.conf.PrimaryPoolPrefix))
	w.logger.Info(fmt.Sprintf("Error rate threshold: %g%%", w.conf.ErrorRateThreshold))
	w.logger.Info(fmt.Sprintf("Window size: %d requests", w.conf.WindowSize))
	w.logger.Info(fmt.Sprintf("Alert cooldown: %ds", int64(w.conf.AlertCooldown.Seconds())))
	w.logger.Info(fmt.Sprintf("Maintenance mode: %t", w.conf.MaintenanceMode))
	w.logger.Info(fmt.Sprintf("Slack webhook configured: %t", w.conf.WebhookConfigured))
	w.logger.Info(sep)
	if !w.conf.WebhookConfigured {
		w.logger.Warn("SLACK_WEBHOOK_URL not set - alerts will be logged only")
	}
}
