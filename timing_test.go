package epdsim

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestAdjustedDuration(t *testing.T) {
	tests := []struct {
		name   string
		baseMS uint32
		tempC  int
		want   uint32
	}{
		{"cold", 2000, -5, 3000},
		{"hot", 2000, 45, 2400},
		{"nominal", 2000, 25, 2000},
		{"zero is nominal", 2000, 0, 2000},
		{"forty is nominal", 2000, 40, 2000},
		{"just below zero", 2000, -1, 3000},
		{"just above forty", 2000, 41, 2400},
		{"cold rounds half up", 3, -10, 5},
		{"cold rounds one", 1, -10, 2},
		{"hot rounds down", 1, 50, 1},
		{"hot rounds up", 3, 50, 4},
		{"zero base", 0, -10, 0},
		{"saturates", math.MaxUint32, -10, math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustedDuration(tt.baseMS, tt.tempC); got != tt.want {
				t.Errorf("AdjustedDuration(%d, %d) = %d, want %d", tt.baseMS, tt.tempC, got, tt.want)
			}
		})
	}
}

func TestRefreshDuration(t *testing.T) {
	tests := []struct {
		mode  Mode
		tempC int
		want  time.Duration
	}{
		{Full, 25, 2000 * time.Millisecond},
		{Partial, 25, 630 * time.Millisecond},
		{Fast, -1, 450 * time.Millisecond},
		{Partial, 45, 756 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := refreshDuration(testSpec, tt.mode, tt.tempC); got != tt.want {
			t.Errorf("refreshDuration(%s, %d) = %v, want %v", tt.mode, tt.tempC, got, tt.want)
		}
	}
}

func TestCheckTemperature(t *testing.T) {
	for _, c := range []int{-20, 0, 25, 50} {
		if err := CheckTemperature(testSpec, c); err != nil {
			t.Errorf("CheckTemperature(%d) error = %v, want nil", c, err)
		}
	}
	for _, c := range []int{-21, 51} {
		err := CheckTemperature(testSpec, c)
		var terr *TemperatureError
		if !errors.As(err, &terr) || terr.Celsius != c || terr.Range != testSpec.Temperature {
			t.Errorf("CheckTemperature(%d) error = %v, want *TemperatureError", c, err)
		}
		if !errors.Is(err, ErrOutOfOperatingTemperature) {
			t.Errorf("CheckTemperature(%d) error does not wrap ErrOutOfOperatingTemperature", c)
		}
	}
}
