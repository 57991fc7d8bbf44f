package epdsim

import "time"

// Clock provides the suspend points of a refresh. Tests substitute a controllable clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ScaledClock runs suspend points Factor times faster than real time. A Factor of zero
// or less skips them entirely. Now still reports wall-clock time.
type ScaledClock struct {
	Factor float64
}

// Now returns the wall-clock time.
func (c ScaledClock) Now() time.Time {
	return time.Now()
}

// Sleep sleeps for d divided by the factor.
func (c ScaledClock) Sleep(d time.Duration) {
	if c.Factor <= 0 {
		return
	}
	time.Sleep(time.Duration(float64(d) / c.Factor))
}
