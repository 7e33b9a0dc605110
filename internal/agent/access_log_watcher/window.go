package access_log_watcher

import "time"

// Observation is the per-request sample retained in the sliding window.
type Observation struct {
	Status    int
	Pool      string
	Timestamp time.Time
}

// Window holds the most recent observations in a fixed-capacity ring.
// Once full, each Add evicts the oldest entry.
type Window struct {
	buf  []Observation
	head int
	size int
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]Observation, capacity)}
}

func (w *Window) Add(obs Observation) {
	w.buf[w.head] = obs
	w.head = (w.head + 1) % len(w.buf)
	if w.size < len(w.buf) {
		w.size++
	}
}

func (w *Window) Len() int {
	return w.size
}

func (w *Window) Cap() int {
	return len(w.buf)
}

// ErrorRate returns the percentage of retained observations with a 5xx
// upstream status. An empty window reports 0.
func (w *Window) ErrorRate() float64 {
	if w.size == 0 {
		return 0
	}
	errored := 0
	for i := 0; i < w.size; i++ {
		status := w.buf[(w.head-w.size+i+len(w.buf))%len(w.buf)].Status
		if status >= 500 && status < 600 {
			errored++
		}
	}
	return float64(errored) / float64(w.size) * 100
}
