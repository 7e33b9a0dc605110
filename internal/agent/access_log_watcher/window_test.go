package access_log_watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_EmptyErrorRate(t *testing.T) {
	w := NewWindow(10)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 10, w.Cap())
	assert.Equal(t, 0.0, w.ErrorRate())
}

func TestWindow_ErrorRate(t *testing.T) {
	w := NewWindow(10)
	for _, status := range []int{200, 200, 503, 404} {
		w.Add(Observation{Status: status})
	}
	assert.Equal(t, 4, w.Len())
	assert.InDelta(t, 25.0, w.ErrorRate(), 1e-9)
}

func TestWindow_ServerErrorBounds(t *testing.T) {
	tests := []struct {
		status int
		rate   float64
	}{
		{499, 0.0},
		{500, 100.0},
		{599, 100.0},
		{600, 0.0},
	}
	for _, tc := range tests {
		w := NewWindow(4)
		w.Add(Observation{Status: tc.status})
		assert.InDelta(t, tc.rate, w.ErrorRate(), 1e-9)
	}
}

func TestWindow_EvictsOldest(t *testing.T) {
	w := NewWindow(3)
	for _, status := range []int{500, 500, 500} {
		w.Add(Observation{Status: status})
	}
	assert.InDelta(t, 100.0, w.ErrorRate(), 1e-9)

	// Three healthy requests push every error out.
	for _, status := range []int{200, 200, 200} {
		w.Add(Observation{Status: status})
	}
	assert.Equal(t, 3, w.Len())
	assert.InDelta(t, 0.0, w.ErrorRate(), 1e-9)

	w.Add(Observation{Status: 502})
	assert.Equal(t, 3, w.Len())
	assert.InDelta(t, 100.0/3, w.ErrorRate(), 1e-9)
}

func TestWindow_MinimumCapacity(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, 1, w.Cap())
	w.Add(Observation{Status: 500})
	w.Add(Observation{Status: 200})
	assert.Equal(t, 1, w.Len())
	assert.InDelta(t, 0.0, w.ErrorRate(), 1e-9)
}
