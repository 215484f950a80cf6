package recorder

import "time"

// Render outcomes.
const (
	StatusOK          = "OK"
	StatusPartial     = "PARTIAL"     // some charts replaced by placeholders
	StatusUnavailable = "UNAVAILABLE" // provider failed, every chart is a placeholder
)

// RenderEvent describes one chart build served to the page.
// ID is unique per row. RequestID comes from the client and may repeat.
type RenderEvent struct {
	ID        string
	RequestID string
	Provider  string
	Symbol    string
	Interval  string
	Rows      int
	Status    string
	Error     string
	Duration  time.Duration
}

// ProbeEvent records one scheduled provider health probe.
type ProbeEvent struct {
	Provider string
	Symbol   string
	OK       bool
	Error    string
	Duration time.Duration
}

// Recorder persists operational history for analysis.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	RecordProbe(evt *ProbeEvent) error
	// Prune deletes events recorded before cutoff and returns how many were removed.
	Prune(cutoff time.Time) (int64, error)
	Close() error
}
