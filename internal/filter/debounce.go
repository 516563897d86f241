package filter

import (
	"sync"
	"time"
)

// Settle window bounds for search input.
const (
	DefaultSettle = 300 * time.Millisecond
	MinSettle     = 200 * time.Millisecond
	MaxSettle     = 300 * time.Millisecond
)

// ClampSettle bounds d to [MinSettle, MaxSettle]; zero or negative means DefaultSettle.
func ClampSettle(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultSettle
	case d < MinSettle:
		return MinSettle
	case d > MaxSettle:
		return MaxSettle
	default:
		return d
	}
}

// Debouncer delivers the last pushed text once input has been quiet for the
// settle window. Each Push replaces the pending timer; a timer that fires
// after being replaced is ignored by generation.
type Debouncer struct {
	mu     sync.Mutex
	wait   time.Duration
	timer  *time.Timer
	gen    uint64
	out    chan string
	closed bool
}

// NewDebouncer returns a Debouncer with the given settle window, clamped.
func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{
		wait: ClampSettle(wait),
		out:  make(chan string, 1),
	}
}

// Wait returns the settle window.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// C delivers settled text. It is closed by Close.
func (d *Debouncer) C() <-chan string {
	return d.out
}

// Push restarts the settle window with text as the pending value.
func (d *Debouncer) Push(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen, text) })
}

// Cancel drops any pending or undelivered value.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	select {
	case <-d.out:
	default:
	}
}

// Close stops the timer and closes C. Push after Close is a no-op.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.out)
}

func (d *Debouncer) fire(gen uint64, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		return
	}
	d.timer = nil
	// Keep only the newest value if the reader is behind.
	select {
	case <-d.out:
	default:
	}
	d.out <- text
}
