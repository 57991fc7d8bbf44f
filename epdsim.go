package epdsim

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/flavioheleno/epdsim/grayscale"
	"github.com/flavioheleno/epdsim/panel"
	"periph.io/x/conn/v3/gpio"
)

// Opts is the configuration of an emulated display.
type Opts struct {
	// Consecutive partial/fast refreshes before escalating to Full
	// (0: DefaultFullRefreshThreshold, negative: never escalate)
	FullRefreshThreshold int

	// Ghosting levels removed per second between refreshes (0: no decay)
	DecayRate float32

	// Source of suspend points (default: SystemClock)
	Clock Clock

	// Optional BUSY line, driven high while a refresh runs
	Busy gpio.PinOut

	// Optional logger for escalations and temperature warnings
	Logger *log.Logger

	// Notified after every completed refresh
	Observers []Observer

	// Optional initial content, copied; must match the panel dimensions
	Surface *Surface
}

// Dev is an emulated e-ink display.
//
// Drawing goes into the current frame; only refreshes change what an observer of the
// panel sees (Frame). Dev is safe for concurrent use, but only one refresh runs at a time.
type Dev struct {
	spec      panel.Spec
	clock     Clock
	busy      gpio.PinOut
	logger    *log.Logger
	decayRate float32
	observers []Observer

	mu          sync.Mutex
	surface     *Surface
	visible     *grayscale.Image // What the panel shows
	ghost       *GhostMap
	strategy    *Strategy
	temperature int
	asleep      bool
	refreshing  bool
	inflight    Mode
	settled     time.Time     // Completion of the last refresh
	idle        chan struct{} // Closed when the last accepted refresh is done
}

var _ Display = (*Dev)(nil)

// New creates an emulated display for the panel described by spec.
//
// opts can be nil to use defaults. A Surface in opts is copied, with its samples stored
// at the panel's highest level count; later changes to it do not affect the display.
// One whose dimensions differ from the panel yields ErrInvalidDimensions.
func New(spec panel.Spec, opts *Opts) (*Dev, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("epdsim: %w", err)
	}
	if opts == nil {
		opts = &Opts{}
	}
	if opts.DecayRate < 0 {
		return nil, fmt.Errorf("epdsim: decay rate must not be negative, got %v", opts.DecayRate)
	}

	levels := spec.MaxGrayLevels()
	s := NewSurface(spec.Width, spec.Height, levels)
	if opts.Surface != nil {
		b := opts.Surface.Bounds()
		if b.Dx() != spec.Width || b.Dy() != spec.Height {
			return nil, fmt.Errorf("%w: surface %dx%d, panel %dx%d", ErrInvalidDimensions,
				b.Dx(), b.Dy(), spec.Width, spec.Height)
		}
		// The display owns its frames: the caller's surface is copied at the panel levels
		var err error
		s, err = NewSurfaceFrom(opts.Surface.Current().Requantize(levels), opts.Surface.Previous().Requantize(levels))
		if err != nil {
			return nil, err
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}

	d := &Dev{
		spec:        spec,
		clock:       clock,
		busy:        opts.Busy,
		logger:      opts.Logger,
		decayRate:   opts.DecayRate,
		observers:   append([]Observer(nil), opts.Observers...),
		surface:     s,
		visible:     s.Previous().Requantize(spec.Full.GrayLevels),
		ghost:       NewGhostMap(spec.Pixels()),
		strategy:    NewStrategy(opts.FullRefreshThreshold),
		temperature: DefaultTemperature,
	}
	if d.busy != nil {
		if err := d.busy.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("epdsim: failed to drive BUSY low: %w", err)
		}
	}
	return d, nil
}

// Spec returns the panel description.
func (d *Dev) Spec() panel.Spec {
	return d.spec
}

// ColorModel returns the color model of the drawing surface.
func (d *Dev) ColorModel() color.Model {
	return grayscale.Model(d.spec.MaxGrayLevels())
}

// Bounds returns the panel bounds.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.spec.Width, d.spec.Height)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("epdsim.Dev{%dx%d %s}", d.spec.Width, d.spec.Height, d.spec.Controller)
}

// Set writes a sample into the current frame. Writes outside the panel are ignored.
func (d *Dev) Set(x, y int, v uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.asleep {
		return ErrDisplayAsleep
	}
	d.surface.Set(x, y, v)
	return nil
}

// Pixel returns the current frame sample at (x, y), zero outside the panel.
func (d *Dev) Pixel(x, y int) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surface.At(x, y)
}

// Clear fills the current frame with v.
func (d *Dev) Clear(v uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.asleep {
		return ErrDisplayAsleep
	}
	d.surface.Fill(v)
	return nil
}

// Draw draws src into the current frame. It implements periph.io's display.Drawer;
// the drawing becomes visible with the next refresh.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.asleep {
		return ErrDisplayAsleep
	}
	d.surface.Draw(dst, src, sp)
	return nil
}

// SetTemperature sets the panel temperature in °C. It applies from the next refresh.
func (d *Dev) SetTemperature(c int) {
	d.mu.Lock()
	d.temperature = c
	d.mu.Unlock()
}

// Temperature returns the panel temperature in °C.
func (d *Dev) Temperature() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.temperature
}

// IsOperating reports whether the panel temperature allows refreshing.
func (d *Dev) IsOperating() bool {
	return d.spec.Temperature.IsOperating(d.Temperature())
}

// IsOptimal reports whether the panel temperature lies in the optimal range.
func (d *Dev) IsOptimal() bool {
	return d.spec.Temperature.IsOptimal(d.Temperature())
}

// Asleep reports whether the display sleeps.
func (d *Dev) Asleep() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.asleep
}

// InProgress returns the mode of the running refresh, if any.
func (d *Dev) InProgress() (Mode, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight, d.refreshing
}

// PendingUpdates returns the number of partial/fast refreshes since the last full one.
func (d *Dev) PendingUpdates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strategy.Count()
}

// GhostingLevel returns the aggregate ghosting level, including decay accrued since
// the last refresh.
func (d *Dev) GhostingLevel() float32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refreshing || d.decayRate <= 0 || d.settled.IsZero() {
		return d.ghost.Level()
	}
	elapsed := float32(d.clock.Now().Sub(d.settled).Seconds())
	return d.ghost.decayedLevel(d.decayRate * elapsed)
}

// Frame returns a copy of the samples the panel shows, row-major.
func (d *Dev) Frame() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8(nil), d.visible.Pix...)
}

// FrameImage returns a copy of what the panel shows as an image.
func (d *Dev) FrameImage() *grayscale.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible.Clone()
}

// RefreshFull settles the whole panel on the current frame.
func (d *Dev) RefreshFull(ctx context.Context) (Result, error) {
	return d.refresh(ctx, Full)
}

// RefreshPartial updates the panel without flashing, accumulating ghosting.
func (d *Dev) RefreshPartial(ctx context.Context) (Result, error) {
	return d.refresh(ctx, Partial)
}

// RefreshFast runs the fast waveform, or a partial refresh when the panel has none.
func (d *Dev) RefreshFast(ctx context.Context) (Result, error) {
	return d.refresh(ctx, Fast)
}

// Wait blocks until the last accepted refresh, including its observers, is done. It
// returns immediately when no refresh was ever accepted.
func (d *Dev) Wait() {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()
	if idle != nil {
		<-idle
	}
}

// Sleep puts the display to sleep. The panel keeps showing its last frame.
func (d *Dev) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refreshing {
		return ErrRefreshInProgress
	}
	d.asleep = true
	return nil
}

// Wake wakes the display up. It is a no-op when the display is awake.
func (d *Dev) Wake() error {
	d.mu.Lock()
	d.asleep = false
	d.mu.Unlock()
	return nil
}

// Halt puts the display to sleep. It implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Sleep()
}
