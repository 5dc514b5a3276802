// Package display renders probe results as a terminal table and drives the
// refresh cycle: once at start, then on every tick and on manual request.
package display

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kylerisse/uptui/pkg/monitor"
	"github.com/kylerisse/uptui/pkg/probe"
)

const (
	// DefaultInterval is the time between periodic refreshes.
	DefaultInterval = 30 * time.Second

	// DefaultManualEvery is the minimum spacing of manual refreshes.
	DefaultManualEvery = 2 * time.Second
)

// Prober runs one probe cycle.
type Prober interface {
	RunChecks(ctx context.Context, specs []monitor.Spec) []probe.Result
}

// Loop owns the refresh cycle. Cycles run on the goroutine calling Run, so
// two cycles never overlap.
type Loop struct {
	prober   Prober
	specs    []monitor.Spec
	out      io.Writer
	interval time.Duration
	limiter  *rate.Limiter
	logger   logrus.FieldLogger
	notice   string
	publish  []func([]probe.Result)

	// refresh holds at most one pending manual request.
	refresh chan struct{}

	mu   sync.Mutex
	rows []probe.Result
}

// Option is a functional option for configuring a Loop.
type Option func(*Loop) error

// WithInterval sets the periodic refresh interval.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) error {
		if d <= 0 {
			return fmt.Errorf("interval must be positive, got %v", d)
		}
		l.interval = d
		return nil
	}
}

// WithManualLimit sets the rate limiter applied to manual refreshes.
func WithManualLimit(limiter *rate.Limiter) Option {
	return func(l *Loop) error {
		if limiter == nil {
			return fmt.Errorf("limiter must not be nil")
		}
		l.limiter = limiter
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Loop) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		l.logger = logger
		return nil
	}
}

// WithNotice sets a line shown under the table, e.g. a config diagnostic.
func WithNotice(notice string) Option {
	return func(l *Loop) error {
		l.notice = notice
		return nil
	}
}

// WithPublisher registers fn to receive the rows of every finished cycle.
func WithPublisher(fn func([]probe.Result)) Option {
	return func(l *Loop) error {
		if fn == nil {
			return fmt.Errorf("publisher must not be nil")
		}
		l.publish = append(l.publish, fn)
		return nil
	}
}

// NewLoop creates a Loop probing specs with prober and drawing to out.
func NewLoop(prober Prober, specs []monitor.Spec, out io.Writer, opts ...Option) (*Loop, error) {
	if prober == nil {
		return nil, fmt.Errorf("display: prober must not be nil")
	}

	l := &Loop{
		prober:   prober,
		specs:    specs,
		out:      out,
		interval: DefaultInterval,
		limiter:  rate.NewLimiter(rate.Every(DefaultManualEvery), 1),
		logger:   logrus.StandardLogger(),
		refresh:  make(chan struct{}, 1),
		rows:     probe.PendingAll(specs),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("display: %w", err)
		}
	}

	return l, nil
}

// Refresh asks for a manual refresh. Requests over the rate limit are
// dropped, and requests made while one is already pending are merged into
// it. It reports whether the request was accepted.
func (l *Loop) Refresh() bool {
	if !l.limiter.Allow() {
		l.logger.Debug("manual refresh rate limited")
		return false
	}
	select {
	case l.refresh <- struct{}{}:
	default:
		l.logger.Debug("manual refresh already pending")
	}
	return true
}

// Rows returns the rows of the latest finished cycle, or placeholders
// before the first one.
func (l *Loop) Rows() []probe.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

// Run draws the placeholder table, runs a first cycle immediately, then
// refreshes on every tick and manual request until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.draw(Frame{Rows: l.Rows(), Busy: true, Notice: l.notice})
	l.cycle(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.cycle(ctx)
		case <-l.refresh:
			l.cycle(ctx)
		}
	}
}

func (l *Loop) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	rows := l.prober.RunChecks(ctx, l.specs)
	refreshed := time.Now()

	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()

	for _, fn := range l.publish {
		fn(rows)
	}

	l.draw(Frame{Rows: rows, Refreshed: refreshed, Notice: l.notice})
}

func (l *Loop) draw(f Frame) {
	if l.out == nil {
		return
	}
	if err := Render(l.out, f); err != nil {
		l.logger.Warnf("failed to draw table: %v", err)
	}
}
