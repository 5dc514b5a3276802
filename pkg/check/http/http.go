// Package http implements the HTTP probe: a single GET request per run.
//
// A response with a status code below 400 is up, anything else is down with
// the status code as its code. Transport failures (refused connections,
// resolution failures, timeouts, TLS errors) fail the probe.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

const (
	// TypeName is the registered name for this check type.
	TypeName = "http"

	// DefaultTimeout is the default HTTP request timeout, covering connect,
	// headers and body.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "uptui"

	// maxBodyBytes caps how much of a response body is drained.
	maxBodyBytes = 1 << 20
)

// Check implements check.Check using an HTTP GET request to one URL.
type Check struct {
	url        string
	timeout    time.Duration
	skipVerify bool
	userAgent  string
	transport  http.RoundTripper
	client     *http.Client
}

// Option is a functional option for configuring an HTTP Check.
type Option func(*Check) error

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Check) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithSkipVerify sets whether to skip TLS certificate verification.
func WithSkipVerify(skip bool) Option {
	return func(c *Check) error {
		c.skipVerify = skip
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with the request.
func WithUserAgent(ua string) Option {
	return func(c *Check) error {
		c.userAgent = ua
		return nil
	}
}

// WithTransport replaces the HTTP transport. WithSkipVerify has no effect
// when a transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Check) error {
		if rt == nil {
			return fmt.Errorf("transport must not be nil")
		}
		c.transport = rt
		return nil
	}
}

// New creates an HTTP Check for the given URL.
func New(rawURL string, opts ...Option) (*Check, error) {
	if rawURL == "" {
		return nil, &monitor.FieldError{Field: "url"}
	}

	c := &Check{
		url:       rawURL,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
	}

	transport := c.transport
	if transport == nil {
		// Every check owns its connections; nothing is kept alive between runs.
		transport = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: c.skipVerify},
			DisableKeepAlives: true,
		}
	}

	c.client = &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
	}

	return c, nil
}

// Type returns the check type name.
func (c *Check) Type() string {
	return TypeName
}

// Run executes the GET request and returns a Result.
// Latency spans from just before the request is sent until the response
// body has been drained.
func (c *Check) Run(ctx context.Context) check.Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	defer c.client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return check.Failed(start, invalidURL(err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return check.Failed(start, fmt.Errorf("request to %s failed: %w", c.url, err))
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return check.Failed(start, fmt.Errorf("reading response from %s: %w", c.url, err))
	}
	elapsed := time.Since(start)

	if resp.StatusCode >= http.StatusBadRequest {
		return check.Down(start, strconv.Itoa(resp.StatusCode), elapsed)
	}
	return check.Up(start, elapsed)
}

// invalidURL turns a URL parse error into a validation error so it is
// reported as "invalid url" rather than a transport failure.
func invalidURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", &monitor.FieldError{Field: "url", Invalid: true}, urlErr.Err)
	}
	return err
}

// NewFactory returns a check.Factory that builds HTTP checks with the
// given options applied.
func NewFactory(opts ...Option) check.Factory {
	return func(target monitor.Target) (check.Check, error) {
		t, ok := target.(monitor.HTTPTarget)
		if !ok {
			return nil, fmt.Errorf("http: unexpected target type %T", target)
		}
		return New(t.URL, opts...)
	}
}

// Factory creates an HTTP Check from a monitor target with default options.
func Factory(target monitor.Target) (check.Check, error) {
	return NewFactory()(target)
}
