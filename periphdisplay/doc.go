// Package periphdisplay drives a real panel through any periph.io display.Drawer while
// exposing the same epdsim.Display capability set as the emulator.
//
// Application code written against epdsim.Display runs unchanged on the emulator and on
// hardware:
//
//	var drv display.Drawer = openPanel() // any periph.io display driver
//	d, _ := periphdisplay.New(drv, panel.Waveshare2in13V4, nil)
//	d.Draw(d.Bounds(), img, image.Point{})
//	res, err := d.RefreshPartial(ctx)
//
// The adapter keeps its own current/previous frames so a partial refresh pushes only the
// changed rectangle to the driver, and a full refresh pushes the whole frame. Escalation to
// a full refresh, the fast-path fallback and the operating temperature check follow the
// emulator exactly. Ghosting reported in Result is an estimate from the panel's rates.
package periphdisplay
