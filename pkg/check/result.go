package check

import (
	"time"
)

// Outcome is the coarse state of a single check execution.
type Outcome int

const (
	// OutcomeFailed means the probe itself could not complete.
	OutcomeFailed Outcome = iota
	// OutcomeUp means the probe completed and the target is healthy.
	OutcomeUp
	// OutcomeDown means the probe completed but the target reported an
	// error indicator, such as an HTTP 5xx or a DNS NXDOMAIN.
	OutcomeDown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUp:
		return "up"
	case OutcomeDown:
		return "down"
	default:
		return "error"
	}
}

// Result captures the outcome of a single check execution.
type Result struct {
	// Timestamp is when the check was executed.
	Timestamp time.Time

	// Outcome is the coarse state of the probe.
	Outcome Outcome

	// Code is the protocol-specific indicator of a down result,
	// e.g. "503" for HTTP or "NXDOMAIN" for DNS.
	Code string

	// Latency is the measured duration of the probe. It is only
	// meaningful when the probe completed (Outcome is up or down).
	Latency time.Duration

	// Category classifies a failed probe.
	Category Category

	// Err holds the error that made the probe fail, if any.
	Err error
}

// Completed reports whether the probe completed and Latency is meaningful.
func (r Result) Completed() bool {
	return r.Outcome == OutcomeUp || r.Outcome == OutcomeDown
}

// Up returns a Result for a healthy target.
func Up(start time.Time, latency time.Duration) Result {
	return Result{Timestamp: start, Outcome: OutcomeUp, Latency: latency}
}

// Down returns a Result for a target that answered with an error indicator.
func Down(start time.Time, code string, latency time.Duration) Result {
	return Result{Timestamp: start, Outcome: OutcomeDown, Code: code, Latency: latency}
}

// Failed returns a Result for a probe that could not complete.
// The failure category is derived from err.
func Failed(start time.Time, err error) Result {
	return Result{Timestamp: start, Outcome: OutcomeFailed, Category: Classify(err), Err: err}
}
