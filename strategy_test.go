package epdsim

import (
	"testing"

	"github.com/flavioheleno/epdsim/panel"
)

func TestStrategyDefaults(t *testing.T) {
	s := NewStrategy(0)
	if s.Threshold() != DefaultFullRefreshThreshold {
		t.Errorf("Threshold() = %d, want %d", s.Threshold(), DefaultFullRefreshThreshold)
	}
	if s.ShouldForceFull() {
		t.Error("fresh strategy should not force a full refresh")
	}
}

func TestStrategyThreshold(t *testing.T) {
	s := NewStrategy(3)
	for i := 0; i < 3; i++ {
		if s.ShouldForceFull() {
			t.Fatalf("ShouldForceFull() = true after %d updates, want false", i)
		}
		s.Record(Partial)
	}
	if !s.ShouldForceFull() {
		t.Error("ShouldForceFull() = false at threshold, want true")
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}

	s.Record(Full)
	if s.Count() != 0 || s.ShouldForceFull() {
		t.Errorf("after Full: Count() = %d, ShouldForceFull() = %v", s.Count(), s.ShouldForceFull())
	}
}

func TestStrategyCountsFast(t *testing.T) {
	s := NewStrategy(2)
	s.Record(Fast)
	s.Record(Partial)
	if !s.ShouldForceFull() {
		t.Error("fast and partial refreshes should both count toward the threshold")
	}
}

func TestStrategyDisabled(t *testing.T) {
	s := NewStrategy(-1)
	for i := 0; i < 100; i++ {
		s.Record(Partial)
	}
	if s.ShouldForceFull() {
		t.Error("disabled strategy should never force a full refresh")
	}
	if s.Count() != 100 {
		t.Errorf("Count() = %d, want 100", s.Count())
	}
}

func TestStrategyResolve(t *testing.T) {
	tests := []struct {
		name          string
		spec          panel.Spec
		recorded      int
		requested     Mode
		wantMode      Mode
		wantEscalated bool
	}{
		{"full", testSpec, 0, Full, Full, false},
		{"partial", testSpec, 0, Partial, Partial, false},
		{"fast", testSpec, 0, Fast, Fast, false},
		{"fast without fast path", panel.Badger2040, 0, Fast, Partial, false},
		{"partial at threshold", testSpec, 2, Partial, Full, true},
		{"fast fallback at threshold", panel.Badger2040, 2, Fast, Full, true},
		{"full at threshold", testSpec, 2, Full, Full, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStrategy(2)
			for i := 0; i < tt.recorded; i++ {
				s.Record(Partial)
			}
			mode, escalated := s.Resolve(tt.spec, tt.requested)
			if mode != tt.wantMode || escalated != tt.wantEscalated {
				t.Errorf("Resolve(%s) = %s, %v, want %s, %v", tt.requested, mode, escalated, tt.wantMode, tt.wantEscalated)
			}
			if s.Count() != tt.recorded {
				t.Error("Resolve() should not record")
			}
		})
	}
}
