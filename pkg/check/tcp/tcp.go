// Package tcp implements the TCP probe: a plain connect and close.
//
// The probe is up when the connection is established within the timeout.
// Latency covers connection establishment only.
package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

const (
	// TypeName is the registered name for this check type.
	TypeName = "tcp"

	// DefaultTimeout is the default connect timeout.
	DefaultTimeout = monitor.DefaultTCPTimeout
)

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Check implements check.Check by connecting to host:port.
type Check struct {
	host    string
	port    int
	timeout time.Duration
	dialer  Dialer
	logger  logrus.FieldLogger
}

// Option is a functional option for configuring a TCP Check.
type Option func(*Check) error

// WithTimeout sets the connect timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Check) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithDialer replaces the dialer used to connect.
func WithDialer(d Dialer) Option {
	return func(c *Check) error {
		if d == nil {
			return fmt.Errorf("dialer must not be nil")
		}
		c.dialer = d
		return nil
	}
}

// WithLogger sets the logger used for connection teardown problems.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Check) error {
		c.logger = l
		return nil
	}
}

// New creates a TCP Check for host:port.
func New(host string, port int, opts ...Option) (*Check, error) {
	if host == "" || port == 0 {
		return nil, &monitor.FieldError{Field: "host/port"}
	}
	if port < 0 || port > 65535 {
		return nil, &monitor.FieldError{Field: "port", Invalid: true}
	}

	c := &Check{
		host:    host,
		port:    port,
		timeout: DefaultTimeout,
		dialer:  &net.Dialer{},
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("tcp: %w", err)
		}
	}

	return c, nil
}

// Type returns the check type name.
func (c *Check) Type() string {
	return TypeName
}

// Address returns host:port.
func (c *Check) Address() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Run connects to the target and returns a Result.
// The connection is closed before Run returns; close errors are logged
// and never change the result.
func (c *Check) Run(ctx context.Context) check.Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr := c.Address()
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	elapsed := time.Since(start)
	if err != nil {
		return check.Failed(start, fmt.Errorf("connect to %s: %w", addr, err))
	}

	if err := conn.Close(); err != nil {
		c.logger.WithField("address", addr).Debugf("Closing connection failed: %v", err)
	}

	return check.Up(start, elapsed)
}

// NewFactory returns a check.Factory that builds TCP checks with the given
// options applied after the target's own timeout.
func NewFactory(opts ...Option) check.Factory {
	return func(target monitor.Target) (check.Check, error) {
		t, ok := target.(monitor.TCPTarget)
		if !ok {
			return nil, fmt.Errorf("tcp: unexpected target type %T", target)
		}

		var all []Option
		if t.Timeout > 0 {
			all = append(all, WithTimeout(t.Timeout))
		}
		all = append(all, opts...)

		return New(t.Host, t.Port, all...)
	}
}

// Factory creates a TCP Check from a monitor target with default options.
func Factory(target monitor.Target) (check.Check, error) {
	return NewFactory()(target)
}
