package epdsim

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/flavioheleno/epdsim/grayscale"
)

func TestNewSurface(t *testing.T) {
	s := NewSurface(8, 4, 16)
	if got := s.Bounds(); got != image.Rect(0, 0, 8, 4) {
		t.Errorf("Bounds() = %v, want (0,0)-(8,4)", got)
	}
	for i, v := range s.Current().Pix {
		if v != grayscale.White || s.Previous().Pix[i] != grayscale.White {
			t.Fatalf("pixel %d is not white on a new surface", i)
		}
	}
	if !s.Diff().Empty() {
		t.Errorf("Diff() = %v on a new surface, want empty", s.Diff())
	}
}

func TestNewSurfaceFrom(t *testing.T) {
	tests := []struct {
		name    string
		cur     *grayscale.Image
		prev    *grayscale.Image
		wantErr bool
	}{
		{"matching", grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), false},
		{"offset but same size", grayscale.NewImage(image.Rect(10, 10, 14, 12), 16), grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), false},
		{"width mismatch", grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), grayscale.NewImage(image.Rect(0, 0, 5, 2), 16), true},
		{"height mismatch", grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), grayscale.NewImage(image.Rect(0, 0, 4, 3), 16), true},
		{"empty", grayscale.NewImage(image.Rect(0, 0, 0, 0), 16), grayscale.NewImage(image.Rect(0, 0, 0, 0), 16), true},
		{"missing previous", grayscale.NewImage(image.Rect(0, 0, 4, 2), 16), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSurfaceFrom(tt.cur, tt.prev)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("NewSurfaceFrom() error = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSurfaceFrom() error = %v", err)
			}
			if s.Bounds().Min != (image.Point{}) {
				t.Errorf("Bounds() = %v, want origin-based", s.Bounds())
			}
		})
	}
}

func TestNewSurfaceFromCopies(t *testing.T) {
	cur := grayscale.NewImage(image.Rect(0, 0, 2, 1), 16)
	prev := grayscale.NewImage(image.Rect(0, 0, 2, 1), 16)
	s, err := NewSurfaceFrom(cur, prev)
	if err != nil {
		t.Fatal(err)
	}
	cur.Pix[0] = 255
	if s.At(0, 0) != 0 {
		t.Error("surface shares storage with the frame it was built from")
	}
}

func TestSurfaceSetOutOfBounds(t *testing.T) {
	s := NewSurface(4, 2, 16)
	s.Fill(0)

	s.Set(4, 2, 255)
	s.Set(-1, 0, 255)
	s.Set(0, 2, 255)

	for i, v := range s.Current().Pix {
		if v != 0 {
			t.Errorf("Pix[%d] = %d after out of bounds writes, want 0", i, v)
		}
	}
}

func TestSurfaceSetQuantizes(t *testing.T) {
	s := NewSurface(2, 1, 4)
	s.Set(0, 0, 100)
	if got := s.At(0, 0); got != 85 {
		t.Errorf("At(0, 0) = %d, want 85", got)
	}
}

func TestSurfaceDraw(t *testing.T) {
	s := NewSurface(4, 4, 16)
	black := image.NewUniform(color.Gray{Y: 0})

	// Partially outside the surface
	s.Draw(image.Rect(2, 2, 10, 10), black, image.Point{})
	if got := s.Diff(); got != image.Rect(2, 2, 4, 4) {
		t.Errorf("Diff() = %v, want (2,2)-(4,4)", got)
	}

	// Entirely outside
	s.Draw(image.Rect(10, 10, 12, 12), black, image.Point{})
	if got := s.Diff(); got != image.Rect(2, 2, 4, 4) {
		t.Errorf("Diff() = %v after drawing outside, want (2,2)-(4,4)", got)
	}
}

func TestSurfaceCommit(t *testing.T) {
	s := NewSurface(4, 2, 16)
	s.Set(1, 1, 0)
	s.Commit(s.Snapshot())
	if !s.Diff().Empty() {
		t.Errorf("Diff() = %v after Commit, want empty", s.Diff())
	}
	if s.Previous().GrayAt(1, 1).Y != 0 {
		t.Error("Commit did not copy the frame into previous")
	}
}

func TestDiffNoChanges(t *testing.T) {
	a := grayscale.NewImage(image.Rect(0, 0, 4, 2), 16)
	b := a.Clone()

	if got := diffRect(a, b); !got.Empty() {
		t.Errorf("diffRect() = %v for identical frames, want empty", got)
	}
}

func TestDiffWithChanges(t *testing.T) {
	a := &grayscale.Image{
		Pix:    []uint8{0, 0, 0, 0, 0, 0, 0, 0},
		Stride: 4,
		Rect:   image.Rect(0, 0, 4, 2),
		Levels: 16,
	}
	b := &grayscale.Image{
		Pix:    []uint8{0, 170, 204, 0, 0, 0, 0, 0},
		Stride: 4,
		Rect:   image.Rect(0, 0, 4, 2),
		Levels: 16,
	}

	// Change in the first row, columns 1-2
	want := image.Rect(1, 0, 3, 1)
	if got := diffRect(a, b); got != want {
		t.Errorf("diffRect() = %v, want %v", got, want)
	}
}

func TestDiffSpansRows(t *testing.T) {
	a := grayscale.NewImage(image.Rect(0, 0, 6, 5), 16)
	b := a.Clone()
	b.SetGray(5, 1, color.Gray{Y: 255})
	b.SetGray(0, 3, color.Gray{Y: 255})

	want := image.Rect(0, 1, 6, 4)
	if got := diffRect(a, b); got != want {
		t.Errorf("diffRect() = %v, want %v", got, want)
	}
}
