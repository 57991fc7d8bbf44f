package grayscale

import (
	"image"
	"image/color"
	"math"
)

// MinLevels and MaxLevels bound the number of gray levels an Image can hold.
const (
	MinLevels = 2
	MaxLevels = 256
)

// Black and White are the extreme samples.
const (
	Black uint8 = 0
	White uint8 = 255
)

// clampLevels keeps a level count inside [MinLevels, MaxLevels].
func clampLevels(levels int) int {
	if levels < MinLevels {
		return MinLevels
	}
	if levels > MaxLevels {
		return MaxLevels
	}
	return levels
}

// Snap rounds v (in the 0-255 sample domain) to the nearest quantum of the given
// level count. Values outside the domain are clamped. Halfway cases round away from zero.
func Snap(v float64, levels int) uint8 {
	levels = clampLevels(levels)
	if v <= 0 || math.IsNaN(v) {
		return Black
	}
	if v >= 255 {
		return White
	}
	step := 255.0 / float64(levels-1)
	q := math.Round(v/step) * step
	return uint8(math.Round(q))
}

// Quantize snaps an 8-bit sample to the nearest quantum of the given level count.
func Quantize(y uint8, levels int) uint8 {
	if clampLevels(levels) == MaxLevels {
		return y
	}
	return Snap(float64(y), levels)
}

// Model returns a color model converting colors to gray snapped to the given level count.
func Model(levels int) color.Model {
	levels = clampLevels(levels)
	return color.ModelFunc(func(c color.Color) color.Color {
		return color.Gray{Y: Quantize(luminance(c), levels)}
	})
}

// luminance converts any color.Color to an 8-bit gray sample.
func luminance(c color.Color) uint8 {
	if g, ok := c.(color.Gray); ok {
		return g.Y
	}
	r, g, b, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B
	y := (299*r + 587*g + 114*b + 500) / 1000
	// 16-bit to 8-bit
	return uint8(y >> 8)
}

// Image is an 8-bit grayscale image whose samples are snapped to Levels quanta.
type Image struct {
	Pix    []uint8         // Pixel data, one byte per pixel, row-major
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
	Levels int             // Number of gray levels samples are snapped to
}

// NewImage creates a new black Image with the specified bounds and level count.
func NewImage(r image.Rectangle, levels int) *Image {
	w, h := r.Dx(), r.Dy()
	levels = clampLevels(levels)
	if w <= 0 || h <= 0 {
		return &Image{Rect: r, Levels: levels}
	}
	return &Image{
		Pix:    make([]uint8, w*h),
		Stride: w,
		Rect:   r,
		Levels: levels,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model(p.Levels)
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Image) At(x, y int) color.Color {
	return p.GrayAt(x, y)
}

// GrayAt returns the gray sample of the pixel at (x, y). Out of bounds reads return black.
func (p *Image) GrayAt(x, y int) color.Gray {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.Gray{}
	}
	return color.Gray{Y: p.Pix[p.PixOffset(x, y)]}
}

// Set sets the color of the pixel at (x, y). Out of bounds writes are ignored.
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = Quantize(luminance(c), p.Levels)
}

// SetGray sets the gray sample of the pixel at (x, y), snapped to the image levels.
// This is faster than Set() as it doesn't require color conversion.
func (p *Image) SetGray(x, y int, c color.Gray) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = Quantize(c.Y, p.Levels)
}

// PixOffset returns the index of the first element of Pix that corresponds to the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Fill sets every pixel to v, snapped to the image levels.
func (p *Image) Fill(v uint8) {
	q := Quantize(v, p.Levels)
	for i := range p.Pix {
		p.Pix[i] = q
	}
}

// Clone returns a deep copy of the image.
func (p *Image) Clone() *Image {
	c := *p
	c.Pix = make([]uint8, len(p.Pix))
	copy(c.Pix, p.Pix)
	return &c
}

// Requantize returns a copy of the image snapped to a different level count.
func (p *Image) Requantize(levels int) *Image {
	c := p.Clone()
	c.Levels = clampLevels(levels)
	for i, v := range c.Pix {
		c.Pix[i] = Quantize(v, c.Levels)
	}
	return c
}
