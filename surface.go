package epdsim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/epdsim/grayscale"
)

// Surface holds the frame being drawn (current) and the frame shown by the last
// completed refresh (previous). Both grids always have the same dimensions.
//
// Surface is not safe for concurrent use; Dev serializes access to it.
type Surface struct {
	rect image.Rectangle
	cur  *grayscale.Image
	prev *grayscale.Image
}

// NewSurface creates a white w×h surface storing samples with the given level count.
func NewSurface(w, h, levels int) *Surface {
	r := image.Rect(0, 0, w, h)
	s := &Surface{
		rect: r,
		cur:  grayscale.NewImage(r, levels),
		prev: grayscale.NewImage(r, levels),
	}
	s.cur.Fill(grayscale.White)
	s.prev.Fill(grayscale.White)
	return s
}

// NewSurfaceFrom creates a surface from existing current and previous frames.
// It returns ErrInvalidDimensions when the frames differ in size or are empty.
func NewSurfaceFrom(cur, prev *grayscale.Image) (*Surface, error) {
	if cur == nil || prev == nil {
		return nil, fmt.Errorf("%w: missing frame", ErrInvalidDimensions)
	}
	if cur.Rect.Dx() != prev.Rect.Dx() || cur.Rect.Dy() != prev.Rect.Dy() {
		return nil, fmt.Errorf("%w: current %dx%d, previous %dx%d", ErrInvalidDimensions,
			cur.Rect.Dx(), cur.Rect.Dy(), prev.Rect.Dx(), prev.Rect.Dy())
	}
	if cur.Rect.Empty() || len(cur.Pix) != len(prev.Pix) {
		return nil, fmt.Errorf("%w: empty or inconsistent frame", ErrInvalidDimensions)
	}
	r := image.Rect(0, 0, cur.Rect.Dx(), cur.Rect.Dy())
	s := &Surface{
		rect: r,
		cur:  cur.Clone(),
		prev: prev.Clone(),
	}
	s.cur.Rect, s.prev.Rect = r, r
	return s, nil
}

// Bounds returns the surface bounds.
func (s *Surface) Bounds() image.Rectangle {
	return s.rect
}

// Set writes a sample into the current frame. Out of bounds writes are ignored.
func (s *Surface) Set(x, y int, v uint8) {
	s.cur.SetGray(x, y, color.Gray{Y: v})
}

// At returns the current frame sample at (x, y).
func (s *Surface) At(x, y int) uint8 {
	return s.cur.GrayAt(x, y).Y
}

// Fill sets every sample of the current frame.
func (s *Surface) Fill(v uint8) {
	s.cur.Fill(v)
}

// Draw draws src into the current frame, clipped to the surface bounds.
func (s *Surface) Draw(dst image.Rectangle, src image.Image, sp image.Point) {
	dst = dst.Intersect(s.rect)
	if dst.Empty() {
		return
	}
	draw.Draw(s.cur, dst, src, sp, draw.Src)
}

// Current returns the current frame. The caller must not modify it.
func (s *Surface) Current() *grayscale.Image {
	return s.cur
}

// Previous returns the frame shown by the last completed refresh. The caller must not modify it.
func (s *Surface) Previous() *grayscale.Image {
	return s.prev
}

// Snapshot returns a copy of the current frame.
func (s *Surface) Snapshot() *grayscale.Image {
	return s.cur.Clone()
}

// Commit makes frame the previous frame. frame must have the surface dimensions.
func (s *Surface) Commit(frame *grayscale.Image) {
	copy(s.prev.Pix, frame.Pix)
}

// Diff returns the minimal rectangle enclosing every pixel that differs between the
// current and previous frames. It is empty when nothing changed.
func (s *Surface) Diff() image.Rectangle {
	return diffRect(s.prev, s.cur)
}

// diffRect compares two frames of identical layout row by row and returns the minimal
// changed region.
func diffRect(a, b *grayscale.Image) image.Rectangle {
	width := a.Rect.Dx()
	height := a.Rect.Dy()
	stride := a.Stride

	minRow, maxRow := height, -1
	minCol, maxCol := width, -1

	for y := 0; y < height; y++ {
		rowStart := y * stride
		rowEnd := rowStart + width

		if bytes.Equal(a.Pix[rowStart:rowEnd], b.Pix[rowStart:rowEnd]) {
			continue
		}
		if y < minRow {
			minRow = y
		}
		maxRow = y

		// Scan columns within this row for precise boundaries
		for x := 0; x < width; x++ {
			if a.Pix[rowStart+x] != b.Pix[rowStart+x] {
				if x < minCol {
					minCol = x
				}
				if x > maxCol {
					maxCol = x
				}
			}
		}
	}

	if maxRow < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minCol, minRow, maxCol+1, maxRow+1)
}
