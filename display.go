package epdsim

import (
	"context"
	"image"
	"time"

	"github.com/flavioheleno/epdsim/panel"
)

// Mode is a panel refresh mode.
type Mode uint8

const (
	// Full settles every pixel through a flash sequence and clears ghosting.
	Full Mode = iota
	// Partial updates pixels without settling, accumulating ghosting.
	Partial
	// Fast is the quickest update with the lowest fidelity.
	Fast
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Partial:
		return "partial"
	case Fast:
		return "fast"
	default:
		return "unknown"
	}
}

// ModeSpec returns the panel characteristics of mode m.
func (m Mode) ModeSpec(s panel.Spec) panel.ModeSpec {
	switch m {
	case Partial:
		return s.Partial
	case Fast:
		return s.Fast
	default:
		return s.Full
	}
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{Full, Partial, Fast} {
		if m.String() == s {
			return m, true
		}
	}
	return Full, false
}

// Result reports a completed refresh.
type Result struct {
	Requested   Mode            // Mode asked for by the caller
	Mode        Mode            // Mode that actually ran
	Escalated   bool            // Mode was forced to Full by the refresh strategy
	Duration    time.Duration   // Temperature adjusted refresh duration
	Temperature int             // Temperature the refresh ran at, °C
	Ghosting    float32         // Aggregate ghosting level after the refresh
	Region      image.Rectangle // Pixels that changed since the previous refresh
	Completed   time.Time
}

// Display is the capability set shared by the emulator and real panel adapters.
// Calling code written against Display runs unchanged on either.
type Display interface {
	// Spec returns the static description of the panel.
	Spec() panel.Spec

	// RefreshFull, RefreshPartial and RefreshFast push the current frame to the panel.
	// The returned Result reports the mode that actually ran, which differs from the
	// requested one when the refresh strategy escalates to Full or when the panel has
	// no fast path.
	//
	// An accepted refresh always runs to completion. When ctx is done before it
	// completes, including when ctx is already done at the call, the call returns
	// ctx.Err() and the refresh finishes in the background.
	RefreshFull(ctx context.Context) (Result, error)
	RefreshPartial(ctx context.Context) (Result, error)
	RefreshFast(ctx context.Context) (Result, error)

	Sleep() error
	Wake() error
}

// Observer is notified after every completed refresh.
type Observer interface {
	ObserveRefresh(r Result)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(r Result)

// ObserveRefresh calls f(r).
func (f ObserverFunc) ObserveRefresh(r Result) {
	f(r)
}
