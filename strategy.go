package epdsim

import "github.com/flavioheleno/epdsim/panel"

// DefaultFullRefreshThreshold is the number of consecutive partial or fast refreshes
// after which the next one is escalated to a full refresh.
const DefaultFullRefreshThreshold = 5

// Strategy decides when a partial or fast refresh must be escalated to a full one
// to bound ghosting.
type Strategy struct {
	threshold int
	count     int
}

// NewStrategy returns a strategy escalating after threshold consecutive non-full
// refreshes. A threshold of zero selects DefaultFullRefreshThreshold; a negative
// threshold disables escalation.
func NewStrategy(threshold int) *Strategy {
	if threshold == 0 {
		threshold = DefaultFullRefreshThreshold
	}
	return &Strategy{threshold: threshold}
}

// ShouldForceFull reports whether the next refresh must run as Full.
func (s *Strategy) ShouldForceFull() bool {
	return s.threshold > 0 && s.count >= s.threshold
}

// Resolve returns the mode a refresh requested on panel s runs as. Fast falls back to
// Partial when the panel has no fast path, and a non-full refresh is escalated to Full
// once the threshold is reached. It does not record anything.
func (s *Strategy) Resolve(spec panel.Spec, requested Mode) (mode Mode, escalated bool) {
	mode = requested
	if mode == Fast && !spec.HasFast() {
		mode = Partial
	}
	if mode != Full && s.ShouldForceFull() {
		return Full, true
	}
	return mode, false
}

// Record accounts for a completed refresh of mode m.
func (s *Strategy) Record(m Mode) {
	if m == Full {
		s.count = 0
		return
	}
	s.count++
}

// Count returns the number of consecutive non-full refreshes.
func (s *Strategy) Count() int {
	return s.count
}

// Threshold returns the escalation threshold, negative when disabled.
func (s *Strategy) Threshold() int {
	return s.threshold
}
