package epdsim

import (
	"context"
	"image"
	"time"

	"github.com/flavioheleno/epdsim/grayscale"
	"periph.io/x/conn/v3/gpio"
)

// phase is a step of the full refresh sequence.
type phase uint8

const (
	phasePreFlash phase = iota // Alternating black/white flashes
	phaseSettling              // Target shown, pixels settling
	phaseDone
)

// plan is a refresh accepted by begin and executed by run.
type plan struct {
	requested   Mode
	mode        Mode
	escalated   bool
	duration    time.Duration
	temperature int
	target      *grayscale.Image // Snapshot of the current frame at acceptance
	region      image.Rectangle
	pending     int           // Partial/fast refreshes preceding an escalation
	idle        chan struct{} // Closed once the refresh and its observers are done
}

// refresh runs one refresh of the requested mode.
//
// The sequence cannot be cancelled: when ctx is done before it completes, including
// when ctx is already done at the call, refresh returns ctx.Err() and the sequence
// keeps running to completion in the background.
func (d *Dev) refresh(ctx context.Context, requested Mode) (Result, error) {
	p, err := d.begin(requested)
	if err != nil {
		return Result{}, err
	}

	done := make(chan Result, 1)
	go func() {
		done <- d.run(p)
	}()

	pending := Result{
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
	case r := <-done:
		return r, nil
	case <-ctx.Done():
		return pending, ctx.Err()
	}
}

// begin validates a refresh request and marks the display busy. A rejected request
// leaves every piece of state untouched.
func (d *Dev) begin(requested Mode) (plan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.asleep {
		return plan{}, ErrDisplayAsleep
	}
	if d.refreshing {
		return plan{}, ErrRefreshInProgress
	}

	mode, escalated := d.strategy.Resolve(d.spec, requested)
	if err := CheckTemperature(d.spec, d.temperature); err != nil {
		return plan{}, err
	}

	d.refreshing = true
	d.inflight = mode
	d.idle = make(chan struct{})

	if d.decayRate > 0 && !d.settled.IsZero() {
		elapsed := d.clock.Now().Sub(d.settled).Seconds()
		d.ghost.Decay(float32(elapsed), d.decayRate)
	}

	target := d.surface.Snapshot()
	return plan{
		requested:   requested,
		mode:        mode,
		escalated:   escalated,
		duration:    refreshDuration(d.spec, mode, d.temperature),
		temperature: d.temperature,
		target:      target,
		region:      diffRect(d.surface.Previous(), target),
		pending:     d.strategy.Count(),
		idle:        d.idle,
	}, nil
}

// run executes an accepted refresh and returns its result.
func (d *Dev) run(p plan) Result {
	d.setBusy(gpio.High)
	if p.escalated {
		d.logf("epdsim: %s refresh escalated to full after %d consecutive updates", p.requested, p.pending)
	}
	if !d.spec.Temperature.IsOptimal(p.temperature) {
		d.logf("epdsim: refreshing at %d°C, outside optimal range %d..%d°C (%s)",
			p.temperature, d.spec.Temperature.OptimalMin, d.spec.Temperature.OptimalMax, p.duration)
	}

	if p.mode == Full {
		d.runFull(p)
	} else {
		d.runUpdate(p)
	}
	d.setBusy(gpio.Low)

	d.mu.Lock()
	d.surface.Commit(p.target)
	d.strategy.Record(p.mode)
	d.settled = d.clock.Now()
	r := Result{
		Requested:   p.requested,
		Mode:        p.mode,
		Escalated:   p.escalated,
		Duration:    p.duration,
		Temperature: p.temperature,
		Ghosting:    d.ghost.Level(),
		Region:      p.region,
		Completed:   d.settled,
	}
	d.refreshing = false
	d.mu.Unlock()

	for _, o := range d.observers {
		o.ObserveRefresh(r)
	}
	close(p.idle)
	return r
}

// runFull drives the flash sequence: FlashCount alternating black/white frames, each
// held for duration/(FlashCount+1), then the target for the remainder.
func (d *Dev) runFull(p plan) {
	n := d.spec.FlashCount
	slice := p.duration / time.Duration(n+1)
	flash := 0

	for ph := phasePreFlash; ph != phaseDone; {
		switch ph {
		case phasePreFlash:
			if flash == n {
				ph = phaseSettling
				continue
			}
			d.show(func(v *grayscale.Image) {
				fill(v.Pix, flashSample(flash))
			})
			d.clock.Sleep(slice)
			flash++
		case phaseSettling:
			levels := d.spec.Full.GrayLevels
			d.show(func(v *grayscale.Image) {
				for i, s := range p.target.Pix {
					v.Pix[i] = grayscale.Quantize(s, levels)
				}
				v.Levels = levels
			})
			d.clock.Sleep(p.duration - slice*time.Duration(n))
			d.mu.Lock()
			d.ghost.Clear()
			d.mu.Unlock()
			ph = phaseDone
		}
	}
}

// runUpdate holds for the refresh duration, then accumulates ghosting and shows the
// target blended with the previous frame.
func (d *Dev) runUpdate(p plan) {
	d.clock.Sleep(p.duration)

	ms := p.mode.ModeSpec(d.spec)
	d.mu.Lock()
	d.ghost.Accumulate(ms.GhostingRate)
	blendFrame(d.visible, p.target, d.surface.Previous(), d.ghost, ms.GrayLevels)
	d.mu.Unlock()
}

// show mutates the visible frame under the lock.
func (d *Dev) show(f func(v *grayscale.Image)) {
	d.mu.Lock()
	f(d.visible)
	d.mu.Unlock()
}

// flashSample returns the sample of the i-th flash: black first, then alternating.
func flashSample(i int) uint8 {
	if i%2 == 0 {
		return grayscale.Black
	}
	return grayscale.White
}

func fill(pix []uint8, v uint8) {
	for i := range pix {
		pix[i] = v
	}
}

func (d *Dev) setBusy(l gpio.Level) {
	if d.busy == nil {
		return
	}
	if err := d.busy.Out(l); err != nil {
		d.logf("epdsim: failed to drive BUSY %s: %v", l, err)
	}
}

func (d *Dev) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
