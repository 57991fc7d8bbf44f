package epdsim

import "github.com/flavioheleno/epdsim/grayscale"

// GhostMap tracks the residual image level of every pixel, in [0.0, 1.0].
//
// The per-pixel levels are the source of truth; Level reports their mean as the single
// aggregate figure used by diagnostics.
type GhostMap struct {
	levels []float32
}

// NewGhostMap creates a map of n pixels with no ghosting.
func NewGhostMap(n int) *GhostMap {
	if n < 0 {
		n = 0
	}
	return &GhostMap{levels: make([]float32, n)}
}

// Len returns the number of pixels tracked.
func (g *GhostMap) Len() int {
	return len(g.levels)
}

// At returns the ghosting level of pixel i.
func (g *GhostMap) At(i int) float32 {
	return g.levels[i]
}

// Accumulate raises every level by rate, saturating at 1.0.
func (g *GhostMap) Accumulate(rate float32) {
	if rate <= 0 {
		return
	}
	for i, l := range g.levels {
		l += rate
		if l > 1 {
			l = 1
		}
		g.levels[i] = l
	}
}

// Clear resets every level to exactly 0.0.
func (g *GhostMap) Clear() {
	for i := range g.levels {
		g.levels[i] = 0
	}
}

// Decay lowers every level by rate*elapsedSeconds, floored at 0.0.
func (g *GhostMap) Decay(elapsedSeconds, rate float32) {
	amount := rate * elapsedSeconds
	if amount <= 0 {
		return
	}
	for i, l := range g.levels {
		g.levels[i] = decayed(l, amount)
	}
}

// Level returns the mean ghosting level.
func (g *GhostMap) Level() float32 {
	return g.decayedLevel(0)
}

// decayedLevel returns the mean level as it would be after decaying every pixel by
// amount, without modifying the map.
func (g *GhostMap) decayedLevel(amount float32) float32 {
	if len(g.levels) == 0 {
		return 0
	}
	var sum float64
	for _, l := range g.levels {
		sum += float64(decayed(l, amount))
	}
	return float32(sum / float64(len(g.levels)))
}

func decayed(l, amount float32) float32 {
	l -= amount
	if l < 0 {
		return 0
	}
	return l
}

// Blend returns what an observer sees for a pixel whose target is cur while prev is
// still partially visible: cur*(1-ghost) + prev*ghost, snapped to the nearest quantum
// of the active level count.
func Blend(cur, prev uint8, ghost float32, levels int) uint8 {
	if ghost < 0 {
		ghost = 0
	} else if ghost > 1 {
		ghost = 1
	}
	g := float64(ghost)
	v := float64(cur)*(1-g) + float64(prev)*g
	return grayscale.Snap(v, levels)
}

// blendFrame writes the observable frame of a partial or fast refresh into dst.
func blendFrame(dst, target, prev *grayscale.Image, ghost *GhostMap, levels int) {
	for i := range dst.Pix {
		dst.Pix[i] = Blend(target.Pix[i], prev.Pix[i], ghost.At(i), levels)
	}
	dst.Levels = levels
}
