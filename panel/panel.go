// Package panel describes the static characteristics of an e-ink panel model.
//
// A Spec is consumed, never computed, by the emulator: it carries the panel geometry,
// controller and generation identifiers, per refresh mode timing, gray level counts and
// ghosting rates, the full refresh flash count and the temperature envelope.
//
// Specs come from the built-in presets (see Lookup) or from TOML files (see Load).
package panel

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/epdsim/grayscale"
)

// ModeSpec describes one refresh mode of a panel.
type ModeSpec struct {
	DurationMS   uint32  `toml:"duration_ms"`   // Nominal duration at optimal temperature
	GrayLevels   int     `toml:"gray_levels"`   // Luminance quanta the mode can render
	GhostingRate float32 `toml:"ghosting_rate"` // Fraction of ghosting added per refresh (0.0-1.0)
}

// TemperatureRange is the temperature envelope of a panel, in whole degrees Celsius.
type TemperatureRange struct {
	OptimalMin   int `toml:"optimal_min"`
	OptimalMax   int `toml:"optimal_max"`
	OperatingMin int `toml:"operating_min"`
	OperatingMax int `toml:"operating_max"`
}

// IsOperating reports whether c lies inside the operating envelope (inclusive).
func (r TemperatureRange) IsOperating(c int) bool {
	return c >= r.OperatingMin && c <= r.OperatingMax
}

// IsOptimal reports whether c lies inside the optimal envelope (inclusive).
func (r TemperatureRange) IsOptimal(c int) bool {
	return c >= r.OptimalMin && c <= r.OptimalMax
}

// Spec is the immutable description of a panel model.
type Spec struct {
	Name       string `toml:"name"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Controller string `toml:"controller"`
	Generation string `toml:"generation"`

	Full    ModeSpec `toml:"full"`
	Partial ModeSpec `toml:"partial"`
	Fast    ModeSpec `toml:"fast"` // DurationMS == 0 means no distinct fast path

	FlashCount  int              `toml:"flash_count"`
	Temperature TemperatureRange `toml:"temperature"`
}

// HasFast reports whether the panel has a distinct fast refresh path.
func (s Spec) HasFast() bool {
	return s.Fast.DurationMS > 0
}

// MaxGrayLevels returns the largest level count among the panel refresh modes.
func (s Spec) MaxGrayLevels() int {
	levels := s.Full.GrayLevels
	if s.Partial.GrayLevels > levels {
		levels = s.Partial.GrayLevels
	}
	if s.HasFast() && s.Fast.GrayLevels > levels {
		levels = s.Fast.GrayLevels
	}
	return levels
}

// Pixels returns the number of pixels of the panel.
func (s Spec) Pixels() int {
	return s.Width * s.Height
}

// String returns a short description of the panel.
func (s Spec) String() string {
	name := s.Name
	if name == "" {
		name = "panel"
	}
	return fmt.Sprintf("%s{%dx%d %s/%s}", name, s.Width, s.Height, s.Controller, s.Generation)
}

// Validate checks the spec for values the emulator cannot work with.
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("panel: invalid dimensions %dx%d", s.Width, s.Height)
	}
	if s.FlashCount < 0 {
		return errors.New("panel: flash count must not be negative")
	}
	if s.Full.DurationMS == 0 {
		return errors.New("panel: full refresh duration must be positive")
	}
	if s.Partial.DurationMS == 0 {
		return errors.New("panel: partial refresh duration must be positive")
	}
	modes := []struct {
		name string
		m    ModeSpec
	}{
		{"full", s.Full},
		{"partial", s.Partial},
	}
	if s.HasFast() {
		modes = append(modes, struct {
			name string
			m    ModeSpec
		}{"fast", s.Fast})
	}
	for _, mode := range modes {
		if mode.m.GrayLevels < grayscale.MinLevels || mode.m.GrayLevels > grayscale.MaxLevels {
			return fmt.Errorf("panel: %s gray levels must be between %d and %d, got %d",
				mode.name, grayscale.MinLevels, grayscale.MaxLevels, mode.m.GrayLevels)
		}
		if mode.m.GhostingRate < 0 || mode.m.GhostingRate > 1 {
			return fmt.Errorf("panel: %s ghosting rate must be between 0 and 1, got %v", mode.name, mode.m.GhostingRate)
		}
	}
	t := s.Temperature
	if t.OperatingMin > t.OperatingMax {
		return fmt.Errorf("panel: operating range %d..%d is inverted", t.OperatingMin, t.OperatingMax)
	}
	if t.OptimalMin > t.OptimalMax {
		return fmt.Errorf("panel: optimal range %d..%d is inverted", t.OptimalMin, t.OptimalMax)
	}
	return nil
}
