// Package probe runs the checks for a list of monitors concurrently and
// reduces their outcomes to a uniform, input-ordered list of rows.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

// Engine executes one probe cycle over a list of monitor specs.
// An Engine is safe for concurrent use.
type Engine struct {
	registry    *check.Registry
	logger      logrus.FieldLogger
	concurrency int
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine) error

// WithRegistry sets the registry used to build checks.
func WithRegistry(r *check.Registry) Option {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("registry must not be nil")
		}
		e.registry = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) error {
		if l == nil {
			return fmt.Errorf("logger must not be nil")
		}
		e.logger = l
		return nil
	}
}

// WithConcurrency caps the number of probes in flight. Zero means unlimited.
func WithConcurrency(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("concurrency must not be negative, got %d", n)
		}
		e.concurrency = n
		return nil
	}
}

// New creates an Engine. Without WithRegistry it uses DefaultRegistry.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
	}

	if e.registry == nil {
		e.registry = DefaultRegistry(e.logger)
	}

	return e, nil
}

// RunChecks probes every spec concurrently and returns one Result per spec,
// in input order. It returns only after every probe has finished and never
// fails: invalid specs, unknown kinds and misbehaving checks all become
// error rows. Probes are bounded by their own timeouts; a slow probe never
// cancels or delays its siblings.
func (e *Engine) RunChecks(ctx context.Context, specs []monitor.Spec) []Result {
	start := time.Now()
	results := make([]Result, len(specs))

	// A plain Group: one probe failing must not cancel the others.
	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for i, spec := range specs {
		g.Go(func() error {
			results[i] = e.probe(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()

	e.logCycle(results, time.Since(start))
	return results
}

func (e *Engine) probe(ctx context.Context, spec monitor.Spec) (res Result) {
	log := e.logger.WithFields(logrus.Fields{
		"monitor": spec.Name,
		"kind":    spec.Kind(),
	})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("check panicked: %v", r)
			res = Failed(spec, fmt.Errorf("check panicked: %v", r))
		}
	}()

	if spec.Err != nil {
		log.Debugf("skipping invalid monitor: %v", spec.Err)
		return Failed(spec, spec.Err)
	}

	chk, err := e.registry.Create(spec.Target)
	if err != nil {
		log.Warnf("failed to create check: %v", err)
		return Failed(spec, err)
	}

	result := chk.Run(ctx)
	res = FromCheck(spec, result)

	if result.Err != nil {
		log.WithField("category", result.Category).Debugf("%s: %v", res.Status, result.Err)
	} else {
		log.Debugf("%s in %v", res.Status, result.Latency)
	}
	return res
}

func (e *Engine) logCycle(results []Result, elapsed time.Duration) {
	counts := make(map[State]int, 3)
	for _, r := range results {
		counts[r.State]++
	}
	e.logger.WithFields(logrus.Fields{
		"monitors": len(results),
		"up":       counts[StateUp],
		"down":     counts[StateDown],
		"error":    counts[StateError],
		"duration": elapsed.Round(time.Millisecond),
	}).Info("probe cycle complete")
}
