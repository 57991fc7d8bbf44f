package epdsim

import (
	"sync"
	"testing"
	"time"

	"github.com/flavioheleno/epdsim/panel"
)

// testSpec is a small panel with the timing of a 2.13" module.
var testSpec = panel.Spec{
	Name:       "test",
	Width:      8,
	Height:     4,
	Controller: "TEST",
	Generation: "1",
	Full:       panel.ModeSpec{DurationMS: 2000, GrayLevels: 16},
	Partial:    panel.ModeSpec{DurationMS: 630, GrayLevels: 4, GhostingRate: 0.1},
	Fast:       panel.ModeSpec{DurationMS: 300, GrayLevels: 2, GhostingRate: 0.15},
	FlashCount: 3,
	Temperature: panel.TemperatureRange{
		OptimalMin: 15, OptimalMax: 35,
		OperatingMin: -20, OperatingMax: 50,
	},
}

// fakeClock records suspend points instead of sleeping. Time only moves through
// Sleep and Advance.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(d time.Duration)
	hold    chan struct{}
	entered chan struct{}
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	hook, hold, entered := c.onSleep, c.hold, c.entered
	c.mu.Unlock()

	if hook != nil {
		hook(d)
	}
	if hold != nil {
		entered <- struct{}{}
		<-hold
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Hold makes every following Sleep block until release is called. entered receives
// once per blocked Sleep.
func (c *fakeClock) Hold() (entered <-chan struct{}, release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hold = make(chan struct{})
	c.entered = make(chan struct{}, 64)
	hold := c.hold
	return c.entered, func() {
		c.mu.Lock()
		c.hold = nil
		c.mu.Unlock()
		close(hold)
	}
}

func sum(ds []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total
}

func newTestDev(t *testing.T, spec panel.Spec, opts *Opts) (*Dev, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	if opts == nil {
		opts = &Opts{}
	}
	opts.Clock = clock
	d, err := New(spec, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d, clock
}

func approx(a, b float32) bool {
	const eps = 1e-5
	return a-b < eps && b-a < eps
}
