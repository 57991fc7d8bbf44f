// Package epdsim emulates the electro-optical behavior of an e-ink panel.
//
// An e-ink panel does not show what is drawn into its frame buffer until it is
// refreshed, and how it is refreshed matters: a full refresh flashes the panel and
// leaves a clean image, a partial or fast refresh is quicker but leaves a residual of
// the previous image (ghosting) that builds up until the next full refresh. Refreshes
// slow down in the cold and the heat, and panels refuse to refresh outside their
// operating temperature range. This package models all of that so applications can be
// developed and tested without the hardware.
//
// # Display Characteristics
//
// Panels are described by panel.Spec: dimensions, controller, the duration, gray level
// count and ghosting rate of each refresh mode, the number of pre-flash frames of a
// full refresh and the temperature envelope. Built-in presets:
//
//	panel.Waveshare2in13V4 // 250×122 SSD1680, full/partial/fast
//	panel.Waveshare7in5V2  // 800×480 UC8179, full/partial/fast
//	panel.Badger2040       // 296×128 UC8151, full/partial only
//
// Panels can also be described in TOML and loaded with panel.Load; a definition may
// extend a preset:
//
//	base = "waveshare-2in13-v4"
//	name = "my-2in13"
//
//	[partial]
//	duration_ms = 500
//	ghosting_rate = 0.12
//
// # Basic Usage
//
//	package main
//
//	import (
//		"context"
//		"image"
//		"log"
//
//		"github.com/flavioheleno/epdsim"
//		"github.com/flavioheleno/epdsim/panel"
//	)
//
//	func main() {
//		dev, err := epdsim.New(panel.Waveshare2in13V4, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		// Drawing only changes the frame buffer
//		dev.Draw(image.Rect(10, 10, 60, 40), image.Black, image.Point{})
//
//		// The panel shows it once refreshed
//		res, err := dev.RefreshPartial(context.Background())
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("%s refresh, ghosting %.2f", res.Mode, res.Ghosting)
//	}
//
// # Refresh Modes
//
// ## Full
//
// FlashCount frames alternating pure black and pure white, each held for an equal share
// of the refresh duration, then the target image for the remainder. Ghosting is cleared
// and the panel shows the target with the full mode gray levels.
//
// ## Partial and Fast
//
// A single hold for the refresh duration, after which every pixel shows
//
//	target*(1-ghost) + previous*ghost
//
// snapped to the gray levels of the mode, with ghost raised by the mode ghosting rate
// (saturating at 1). Panels without a fast waveform run RefreshFast as a partial
// refresh; Result.Mode reports what ran.
//
// ## Automatic Full Refresh
//
// After FullRefreshThreshold consecutive partial or fast refreshes (5 by default) the next
// one runs as a full refresh and Result.Escalated is set. A negative threshold disables it.
//
// # Temperature
//
// Durations are scaled by 1.5 below 0°C and by 1.2 above 40°C. A refresh outside the
// operating range fails with a *TemperatureError and changes nothing. The temperature
// is set with SetTemperature or read from any periph.io environmental sensor:
//
//	dev.SenseTemperature(bme) // anything with Sense(*physic.Env) error
//
// # Concurrency
//
// Only one refresh runs at a time; a second one fails with ErrRefreshInProgress.
// Drawing during a refresh is allowed and shows with the next one. A refresh cannot be
// cancelled: when the context is done first the call returns ctx.Err() and the refresh
// completes in the background. Suspend points go through Opts.Clock, so tests and demos
// can run refreshes instantly (ScaledClock{}) or on a controlled clock.
//
// # Observing Refreshes
//
// Opts.Observers are notified after every refresh. NewRefreshLogger logs one line per
// refresh; package journal records them in SQLite. Opts.Busy mirrors the panel BUSY
// line on a gpio.PinOut.
//
// # Compatibility with periph.io
//
// Dev implements the display.Drawer interface from periph.io, so anything drawing into
// a periph.io display can draw into the emulator. The Display interface is the
// capability set shared with package periphdisplay, which drives real panels through
// their periph.io drivers: code written against Display runs on both.
package epdsim
