package epdsim

import "log"

// RefreshLogger logs one line per completed refresh.
type RefreshLogger struct {
	logger *log.Logger
}

// NewRefreshLogger creates an observer logging to l, or to the standard logger when l is nil.
func NewRefreshLogger(l *log.Logger) *RefreshLogger {
	if l == nil {
		l = log.Default()
	}
	return &RefreshLogger{logger: l}
}

// ObserveRefresh implements Observer.
func (r *RefreshLogger) ObserveRefresh(res Result) {
	if r == nil || r.logger == nil {
		return
	}
	escalated := ""
	if res.Escalated {
		escalated = " (escalated)"
	}
	r.logger.Printf("refresh requested=%s mode=%s%s duration=%s temp=%d ghosting=%.3f region=%v",
		res.Requested, res.Mode, escalated, res.Duration, res.Temperature, res.Ghosting, res.Region)
}
