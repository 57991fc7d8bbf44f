package epdsim

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/epdsim/panel"
)

var (
	// ErrOutOfOperatingTemperature is returned when a refresh is attempted outside the
	// panel operating envelope. No state is mutated.
	ErrOutOfOperatingTemperature = errors.New("epdsim: temperature outside operating range")

	// ErrDisplayAsleep is returned by drawing and refresh operations while the display sleeps.
	ErrDisplayAsleep = errors.New("epdsim: display asleep")

	// ErrRefreshInProgress is returned when a refresh (or Sleep) is attempted while
	// another refresh is running on the same display.
	ErrRefreshInProgress = errors.New("epdsim: refresh in progress")

	// ErrInvalidDimensions reports a surface whose grids do not match each other or the
	// panel. It indicates a programming error.
	ErrInvalidDimensions = errors.New("epdsim: invalid dimensions")
)

// TemperatureError describes a refresh rejected because of the panel temperature.
type TemperatureError struct {
	Celsius int
	Range   panel.TemperatureRange
}

func (e *TemperatureError) Error() string {
	return fmt.Sprintf("epdsim: temperature %d°C outside operating range %d..%d°C",
		e.Celsius, e.Range.OperatingMin, e.Range.OperatingMax)
}

// Unwrap makes errors.Is(err, ErrOutOfOperatingTemperature) hold.
func (e *TemperatureError) Unwrap() error {
	return ErrOutOfOperatingTemperature
}
