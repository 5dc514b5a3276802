package probe

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

// NoLatency is shown in place of a latency when the probe did not complete.
const NoLatency = "-"

// State is the coarse state of a monitor row.
type State string

const (
	// StateUnknown is the state of a row that has not been probed yet.
	StateUnknown State = "unknown"
	StateUp      State = "up"
	StateDown    State = "down"
	StateError   State = "error"
)

// Result is the outcome of probing one monitor in one cycle.
// Results are built fresh each cycle and never mutated afterwards.
type Result struct {
	Name    string
	Address string

	// State is the coarse state; Status is the text shown to the user,
	// one of "up", "down (<code>)" or "error: <reason>".
	State  State
	Status string

	// Latency is only meaningful when Measured is true.
	Latency  time.Duration
	Measured bool

	// Category is set for error rows.
	Category check.Category

	CheckedAt time.Time
}

// LatencyMS returns the latency in whole milliseconds, truncated.
func (r Result) LatencyMS() int64 {
	return r.Latency.Milliseconds()
}

// LatencyText returns the latency as shown in the table: whole
// milliseconds, or "-" when the probe did not complete.
func (r Result) LatencyText() string {
	if !r.Measured {
		return NoLatency
	}
	return strconv.FormatInt(r.LatencyMS(), 10)
}

type resultJSON struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	State     State  `json:"state"`
	Status    string `json:"status"`
	LatencyMS any    `json:"latency_ms"`
	Category  string `json:"category,omitempty"`
	CheckedAt int64  `json:"checked_at,omitempty"`
}

// MarshalJSON encodes latency_ms as a number, or as the string "-" when the
// probe did not complete.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Name:     r.Name,
		Address:  r.Address,
		State:    r.State,
		Status:   r.Status,
		Category: r.Category.String(),
	}
	if r.Measured {
		out.LatencyMS = r.LatencyMS()
	} else {
		out.LatencyMS = NoLatency
	}
	if !r.CheckedAt.IsZero() {
		out.CheckedAt = r.CheckedAt.Unix()
	}
	return json.Marshal(out)
}

// Pending returns the placeholder row shown for a spec before its first probe.
func Pending(spec monitor.Spec) Result {
	return Result{
		Name:    spec.Name,
		Address: spec.Address(),
		State:   StateUnknown,
		Status:  string(StateUnknown),
	}
}

// PendingAll returns a placeholder row for every spec, in order.
func PendingAll(specs []monitor.Spec) []Result {
	results := make([]Result, len(specs))
	for i, spec := range specs {
		results[i] = Pending(spec)
	}
	return results
}

// FromCheck converts a check result into the row for spec.
func FromCheck(spec monitor.Spec, r check.Result) Result {
	res := Result{
		Name:      spec.Name,
		Address:   spec.Address(),
		CheckedAt: r.Timestamp,
	}

	switch r.Outcome {
	case check.OutcomeUp:
		res.State = StateUp
		res.Status = string(StateUp)
		res.Latency = r.Latency
		res.Measured = true
	case check.OutcomeDown:
		res.State = StateDown
		res.Status = "down (" + r.Code + ")"
		res.Latency = r.Latency
		res.Measured = true
	default:
		res.State = StateError
		res.Status = "error: " + check.Reason(r)
		res.Category = r.Category
		if res.Category == check.CategoryNone {
			res.Category = check.CategoryOther
		}
	}

	return res
}

// Failed builds an error row for spec from err.
func Failed(spec monitor.Spec, err error) Result {
	return FromCheck(spec, check.Failed(time.Now(), err))
}
