package periphdisplay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/flavioheleno/epdsim"
	"github.com/flavioheleno/epdsim/grayscale"
	"github.com/flavioheleno/epdsim/panel"
	"periph.io/x/conn/v3/display"
)

// Opts is the configuration of an Adapter.
type Opts struct {
	// Consecutive partial/fast refreshes before escalating to Full
	// (0: epdsim.DefaultFullRefreshThreshold, negative: never escalate)
	FullRefreshThreshold int

	// Optional logger for escalations and temperature warnings
	Logger *log.Logger

	// Notified after every completed refresh
	Observers []epdsim.Observer
}

// Adapter implements epdsim.Display on top of a periph.io display driver.
type Adapter struct {
	drv       display.Drawer
	spec      panel.Spec
	logger    *log.Logger
	observers []epdsim.Observer

	mu          sync.Mutex
	surface     *epdsim.Surface
	ghost       *epdsim.GhostMap // Estimate, the panel cannot be read back
	strategy    *epdsim.Strategy
	temperature int
	asleep      bool
	refreshing  bool
	idle        chan struct{}
}

var (
	_ epdsim.Display = (*Adapter)(nil)
	_ display.Drawer = (*Adapter)(nil)
)

// New creates an adapter for drv, a panel described by spec.
//
// drv bounds must match the panel dimensions. opts can be nil to use defaults.
func New(drv display.Drawer, spec panel.Spec, opts *Opts) (*Adapter, error) {
	if drv == nil {
		return nil, errors.New("periphdisplay: nil driver")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("periphdisplay: %w", err)
	}
	if b := drv.Bounds(); b.Dx() != spec.Width || b.Dy() != spec.Height {
		return nil, fmt.Errorf("periphdisplay: %w: driver %dx%d, panel %dx%d", epdsim.ErrInvalidDimensions,
			b.Dx(), b.Dy(), spec.Width, spec.Height)
	}
	if opts == nil {
		opts = &Opts{}
	}

	return &Adapter{
		drv:         drv,
		spec:        spec,
		logger:      opts.Logger,
		observers:   append([]epdsim.Observer(nil), opts.Observers...),
		surface:     epdsim.NewSurface(spec.Width, spec.Height, spec.MaxGrayLevels()),
		ghost:       epdsim.NewGhostMap(spec.Pixels()),
		strategy:    epdsim.NewStrategy(opts.FullRefreshThreshold),
		temperature: epdsim.DefaultTemperature,
	}, nil
}

// Spec returns the panel description.
func (a *Adapter) Spec() panel.Spec {
	return a.spec
}

// String returns a string representation of the adapter.
func (a *Adapter) String() string {
	return fmt.Sprintf("periphdisplay.Adapter{%s}", a.drv)
}

// ColorModel returns the color model of the drawing surface.
func (a *Adapter) ColorModel() color.Model {
	return grayscale.Model(a.spec.MaxGrayLevels())
}

// Bounds returns the panel bounds, anchored at the origin.
func (a *Adapter) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.spec.Width, a.spec.Height)
}

// Draw draws src into the current frame. Nothing reaches the driver until a refresh.
func (a *Adapter) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.asleep {
		return epdsim.ErrDisplayAsleep
	}
	a.surface.Draw(dst, src, sp)
	return nil
}

// Set writes a sample into the current frame. Writes outside the panel are ignored.
func (a *Adapter) Set(x, y int, v uint8) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.asleep {
		return epdsim.ErrDisplayAsleep
	}
	a.surface.Set(x, y, v)
	return nil
}

// SetTemperature sets the panel temperature in °C, used to validate and time refreshes.
func (a *Adapter) SetTemperature(c int) {
	a.mu.Lock()
	a.temperature = c
	a.mu.Unlock()
}

// Temperature returns the panel temperature in °C.
func (a *Adapter) Temperature() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.temperature
}

// RefreshFull pushes the whole current frame to the driver.
func (a *Adapter) RefreshFull(ctx context.Context) (epdsim.Result, error) {
	return a.refresh(ctx, epdsim.Full)
}

// RefreshPartial pushes the rectangle changed since the last refresh.
func (a *Adapter) RefreshPartial(ctx context.Context) (epdsim.Result, error) {
	return a.refresh(ctx, epdsim.Partial)
}

// RefreshFast behaves as RefreshPartial; drivers choose their own waveform.
func (a *Adapter) RefreshFast(ctx context.Context) (epdsim.Result, error) {
	return a.refresh(ctx, epdsim.Fast)
}

// Sleep halts the driver. The panel keeps its image.
func (a *Adapter) Sleep() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refreshing {
		return epdsim.ErrRefreshInProgress
	}
	if err := a.drv.Halt(); err != nil {
		return fmt.Errorf("periphdisplay: failed to halt %s: %w", a.drv, err)
	}
	a.asleep = true
	return nil
}

// Wake allows drawing and refreshing again. periph.io drivers resume on the next Draw.
func (a *Adapter) Wake() error {
	a.mu.Lock()
	a.asleep = false
	a.mu.Unlock()
	return nil
}

// Halt puts the display to sleep. It implements conn.Resource.
func (a *Adapter) Halt() error {
	return a.Sleep()
}

// refresh pushes the current frame as a refresh of the requested mode. Like the
// emulator, an accepted refresh always completes: when ctx is done first the call
// returns ctx.Err() while the driver finishes in the background.
func (a *Adapter) refresh(ctx context.Context, requested epdsim.Mode) (epdsim.Result, error) {
	p, err := a.begin(requested)
	if err != nil {
		return epdsim.Result{}, err
	}

	type outcome struct {
		r   epdsim.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := a.run(p)
		done <- outcome{r, err}
	}()

	pending := epdsim.Result{
		Requested:   p.requested,
		Mode:        p.mode,
		Escalated:   p.escalated,
		Duration:    p.duration,
		Temperature: p.temperature,
		Region:      p.region,
	}
	if err := ctx.Err(); err != nil {
		return pending, err
	}
	select {
	case o := <-done:
		return o.r, o.err
	case <-ctx.Done():
		return pending, ctx.Err()
	}
}

// plan is a refresh accepted by begin.
type plan struct {
	requested   epdsim.Mode
	mode        epdsim.Mode
	escalated   bool
	duration    time.Duration
	temperature int
	pending     int
	target      *grayscale.Image
	region      image.Rectangle
	idle        chan struct{}
}

func (a *Adapter) begin(requested epdsim.Mode) (plan, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.asleep {
		return plan{}, epdsim.ErrDisplayAsleep
	}
	if a.refreshing {
		return plan{}, epdsim.ErrRefreshInProgress
	}
	mode, escalated := a.strategy.Resolve(a.spec, requested)
	if err := epdsim.CheckTemperature(a.spec, a.temperature); err != nil {
		return plan{}, err
	}

	a.refreshing = true
	a.idle = make(chan struct{})
	ms := mode.ModeSpec(a.spec)
	return plan{
		requested:   requested,
		mode:        mode,
		escalated:   escalated,
		duration:    time.Duration(epdsim.AdjustedDuration(ms.DurationMS, a.temperature)) * time.Millisecond,
		temperature: a.temperature,
		pending:     a.strategy.Count(),
		target:      a.surface.Snapshot(),
		region:      a.surface.Diff(),
		idle:        a.idle,
	}, nil
}

func (a *Adapter) run(p plan) (epdsim.Result, error) {
	defer close(p.idle)

	if p.escalated {
		a.logf("periphdisplay: %s refresh escalated to full after %d consecutive updates", p.requested, p.pending)
	}
	if !a.spec.Temperature.IsOptimal(p.temperature) {
		a.logf("periphdisplay: refreshing at %d°C, outside optimal range %d..%d°C",
			p.temperature, a.spec.Temperature.OptimalMin, a.spec.Temperature.OptimalMax)
	}

	err := a.push(p.mode, p.target, p.region)

	a.mu.Lock()
	if err != nil {
		a.refreshing = false
		a.mu.Unlock()
		a.logf("periphdisplay: %s refresh failed: %v", p.mode, err)
		return epdsim.Result{}, fmt.Errorf("periphdisplay: %s refresh failed: %w", p.mode, err)
	}
	if p.mode == epdsim.Full {
		a.ghost.Clear()
	} else {
		a.ghost.Accumulate(p.mode.ModeSpec(a.spec).GhostingRate)
	}
	a.surface.Commit(p.target)
	a.strategy.Record(p.mode)
	r := epdsim.Result{
		Requested:   p.requested,
		Mode:        p.mode,
		Escalated:   p.escalated,
		Duration:    p.duration,
		Temperature: p.temperature,
		Ghosting:    a.ghost.Level(),
		Region:      p.region,
		Completed:   time.Now(),
	}
	a.refreshing = false
	a.mu.Unlock()

	for _, o := range a.observers {
		o.ObserveRefresh(r)
	}
	return r, nil
}

// Wait blocks until the last accepted refresh, including its observers, is done.
func (a *Adapter) Wait() {
	a.mu.Lock()
	idle := a.idle
	a.mu.Unlock()
	if idle != nil {
		<-idle
	}
}

// push sends target to the driver: the whole frame on a full refresh, only region
// otherwise.
func (a *Adapter) push(mode epdsim.Mode, target *grayscale.Image, region image.Rectangle) error {
	origin := a.drv.Bounds().Min
	if mode == epdsim.Full {
		return a.drv.Draw(a.drv.Bounds(), target, image.Point{})
	}
	if region.Empty() {
		return nil
	}
	return a.drv.Draw(region.Add(origin), target, region.Min)
}

func (a *Adapter) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
