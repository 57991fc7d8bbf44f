package epdsim

import (
	"math"
	"time"

	"github.com/flavioheleno/epdsim/panel"
)

// DefaultTemperature is the panel temperature assumed until one is set, in °C.
const DefaultTemperature = 25

// Temperature thresholds of the timing model, in °C. The scaling is a step function.
const (
	ColdThreshold = 0
	HotThreshold  = 40
)

// AdjustedDuration scales a nominal refresh duration for the panel temperature:
// below 0°C refreshes take 1.5 times longer, above 40°C 1.2 times longer.
// Results are rounded half up to the millisecond and saturate at math.MaxUint32.
func AdjustedDuration(baseMS uint32, tempC int) uint32 {
	var tenths uint64
	switch {
	case tempC < ColdThreshold:
		tenths = 15
	case tempC > HotThreshold:
		tenths = 12
	default:
		return baseMS
	}
	v := (uint64(baseMS)*tenths + 5) / 10
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// refreshDuration returns the duration of a refresh of mode m on panel s at tempC.
func refreshDuration(s panel.Spec, m Mode, tempC int) time.Duration {
	return time.Duration(AdjustedDuration(m.ModeSpec(s).DurationMS, tempC)) * time.Millisecond
}

// CheckTemperature returns a *TemperatureError when tempC lies outside the operating
// range of panel s.
func CheckTemperature(s panel.Spec, tempC int) error {
	if !s.Temperature.IsOperating(tempC) {
		return &TemperatureError{Celsius: tempC, Range: s.Temperature}
	}
	return nil
}
