// Package check defines the core interfaces and types for probe checks.
//
// A Check represents a single probe that can be executed against a
// monitor target. Each protocol (HTTP, TCP, DNS) implements the Check
// interface with its own logic and configuration.
//
// Results from check execution are captured in a Result, which provides a
// uniform shape regardless of protocol: an Outcome (up, down or failed),
// the measured latency, a protocol-specific code for down results, and a
// failure Category for failed ones.
//
// The Registry maps monitor kinds to factories, allowing the probe engine
// to instantiate the right check for each monitor target at runtime.
package check

import (
	"context"
)

// Check is the interface that all probe check types must implement.
type Check interface {
	// Type returns the registered name of this check type (e.g. "http", "tcp").
	Type() string

	// Run executes the check and returns a Result.
	// Run must not panic and must honor ctx for cancellation; every failure
	// is reported through the Result rather than returned.
	Run(ctx context.Context) Result
}
