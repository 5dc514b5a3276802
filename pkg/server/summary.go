package server

import (
	"time"

	"github.com/kylerisse/uptui/pkg/probe"
)

// OverallStatus is the aggregate state of all monitors.
// The string values are stable and part of the /api/summary response.
type OverallStatus string

const (
	// OverallUnknown means no monitors are configured or no cycle has run yet.
	OverallUnknown OverallStatus = "unknown"
	// OverallUp means every monitor is up.
	OverallUp OverallStatus = "up"
	// OverallDegraded means some monitors are up and some are not.
	OverallDegraded OverallStatus = "degraded"
	// OverallDown means no monitor is up.
	OverallDown OverallStatus = "down"
	// OverallStale means the last cycle is older than the staleness window.
	OverallStale OverallStatus = "stale"
)

// DefaultStalenessWindow is how old the last cycle can be before the
// summary is considered stale.
const DefaultStalenessWindow = 5 * time.Minute

// Summary aggregates the latest cycle.
type Summary struct {
	Status     OverallStatus `json:"status"`
	Total      int           `json:"total"`
	Up         int           `json:"up"`
	Down       int           `json:"down"`
	Error      int           `json:"error"`
	Unknown    int           `json:"unknown"`
	LastUpdate int64         `json:"lastupdate"`
}

// computeSummary counts rows by state and derives the overall status.
// The snapshot is stale when its last update is at or before now minus window.
func computeSummary(snap Snapshot, now time.Time, window time.Duration) Summary {
	sum := Summary{Total: len(snap.Rows)}
	if !snap.LastUpdate.IsZero() {
		sum.LastUpdate = snap.LastUpdate.Unix()
	}

	for _, r := range snap.Rows {
		switch r.State {
		case probe.StateUp:
			sum.Up++
		case probe.StateDown:
			sum.Down++
		case probe.StateError:
			sum.Error++
		default:
			sum.Unknown++
		}
	}

	switch {
	case sum.Total == 0 || snap.LastUpdate.IsZero():
		sum.Status = OverallUnknown
	case !snap.LastUpdate.After(now.Add(-window)):
		sum.Status = OverallStale
	case sum.Up == sum.Total:
		sum.Status = OverallUp
	case sum.Up > 0:
		sum.Status = OverallDegraded
	case sum.Unknown == sum.Total:
		sum.Status = OverallUnknown
	default:
		sum.Status = OverallDown
	}

	return sum
}
