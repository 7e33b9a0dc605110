package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitDefault(t *testing.T) {
	err := InitDefault()
	assert.NoError(t, err)
	assert.NotNil(t, Default())

	// Subsequent calls reuse the first logger
	err = InitDefault()
	assert.NoError(t, err)

	Default().Info("watcher logger ready")
}

func TestLogger_With(t *testing.T) {
	l := Default()

	l1 := l.With(zap.String("pool", "blue-pool"))
	l1.Info("active pool recorded")

	l2 := l.WithString("alert_type", "error_rate")
	l2.Info("alert admitted")

	l1.Info("pool field still attached")
}

func TestNewECSLogger(t *testing.T) {
	l, err := NewECSLogger()
	assert.NoError(t, err)
	assert.NotNil(t, l)

	l.Named("access_log_watcher").Debug("tail started")
	_ = l.Sync()
}
