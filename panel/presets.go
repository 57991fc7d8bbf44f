package panel

import (
	"fmt"
	"sort"
)

// Waveshare2in13V4 is the 2.13" 250x122 black/white panel driven by an SSD1680.
var Waveshare2in13V4 = Spec{
	Name:       "waveshare-2in13-v4",
	Width:      250,
	Height:     122,
	Controller: "SSD1680",
	Generation: "V4",
	Full:       ModeSpec{DurationMS: 2000, GrayLevels: 16, GhostingRate: 0},
	Partial:    ModeSpec{DurationMS: 630, GrayLevels: 4, GhostingRate: 0.1},
	Fast:       ModeSpec{DurationMS: 300, GrayLevels: 2, GhostingRate: 0.15},
	FlashCount: 3,
	Temperature: TemperatureRange{
		OptimalMin: 15, OptimalMax: 35,
		OperatingMin: -20, OperatingMax: 50,
	},
}

// Waveshare7in5V2 is the 7.5" 800x480 panel driven by a UC8179.
var Waveshare7in5V2 = Spec{
	Name:       "waveshare-7in5-v2",
	Width:      800,
	Height:     480,
	Controller: "UC8179",
	Generation: "V2",
	Full:       ModeSpec{DurationMS: 4000, GrayLevels: 16, GhostingRate: 0},
	Partial:    ModeSpec{DurationMS: 1200, GrayLevels: 4, GhostingRate: 0.08},
	Fast:       ModeSpec{DurationMS: 1500, GrayLevels: 2, GhostingRate: 0.12},
	FlashCount: 2,
	Temperature: TemperatureRange{
		OptimalMin: 15, OptimalMax: 35,
		OperatingMin: 0, OperatingMax: 50,
	},
}

// Badger2040 is the 296x128 panel of the Pimoroni Badger 2040, driven by a UC8151.
// The controller has no distinct fast waveform in this configuration.
var Badger2040 = Spec{
	Name:       "badger2040",
	Width:      296,
	Height:     128,
	Controller: "UC8151",
	Generation: "1",
	Full:       ModeSpec{DurationMS: 1800, GrayLevels: 4, GhostingRate: 0},
	Partial:    ModeSpec{DurationMS: 500, GrayLevels: 2, GhostingRate: 0.2},
	FlashCount: 4,
	Temperature: TemperatureRange{
		OptimalMin: 10, OptimalMax: 30,
		OperatingMin: 0, OperatingMax: 40,
	},
}

var presets = map[string]Spec{
	Waveshare2in13V4.Name: Waveshare2in13V4,
	Waveshare7in5V2.Name:  Waveshare7in5V2,
	Badger2040.Name:       Badger2040,
}

// Presets returns the names of the built-in panels, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in panel with the given name.
func Lookup(name string) (Spec, error) {
	s, ok := presets[name]
	if !ok {
		return Spec{}, fmt.Errorf("panel: unknown preset %q", name)
	}
	return s, nil
}
