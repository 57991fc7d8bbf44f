package epdsim

import (
	"bytes"
	"image"
	"log"
	"strings"
	"testing"
	"time"
)

func TestRefreshLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewRefreshLogger(log.New(&buf, "", 0))

	l.ObserveRefresh(Result{
		Requested:   Partial,
		Mode:        Full,
		Escalated:   true,
		Duration:    3 * time.Second,
		Temperature: -5,
		Region:      image.Rect(0, 0, 2, 1),
	})
	l.ObserveRefresh(Result{
		Requested:   Fast,
		Mode:        Fast,
		Duration:    300 * time.Millisecond,
		Temperature: 25,
		Ghosting:    0.15,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"refresh requested=partial mode=full (escalated) duration=3s temp=-5 ghosting=0.000 region=(0,0)-(2,1)",
		"refresh requested=fast mode=fast duration=300ms temp=25 ghosting=0.150 region=(0,0)-(0,0)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRefreshLoggerDefault(t *testing.T) {
	if l := NewRefreshLogger(nil); l.logger != log.Default() {
		t.Error("NewRefreshLogger(nil) should log to the standard logger")
	}
	var l *RefreshLogger
	l.ObserveRefresh(Result{}) // must not panic
}
