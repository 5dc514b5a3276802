// Package dns implements a DNS probe that sends one query to a resolver.
//
// The probe is up when the resolver answers NOERROR with at least one
// record, down when it answers with any other rcode (the rcode name is the
// down code) or with an empty answer section, and failed when no answer
// arrives at all.
package dns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

const (
	// TypeName is the registered name for this check type.
	TypeName = "dns"

	// DefaultTimeout is the default DNS query timeout.
	DefaultTimeout = monitor.DefaultDNSTimeout

	// CodeNoAnswer is the down code for a NOERROR reply without records.
	CodeNoAnswer = "NOANSWER"
)

// Check implements check.Check using a DNS query to a specific server.
type Check struct {
	server  string // host:port of the DNS server
	name    string // query name as provided (without trailing dot)
	qtype   uint16
	timeout time.Duration
	client  *dns.Client
}

// Option is a functional option for configuring a DNS Check.
type Option func(*Check) error

// WithTimeout sets the DNS query timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Check) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// New creates a DNS Check querying name with the given record type at server.
func New(server, name, record string, opts ...Option) (*Check, error) {
	if name == "" {
		return nil, &monitor.FieldError{Field: "host"}
	}
	if server == "" {
		return nil, &monitor.FieldError{Field: "server"}
	}
	qtype, err := parseQType(record)
	if err != nil {
		return nil, err
	}

	c := &Check{
		server:  server,
		name:    strings.TrimSuffix(name, "."),
		qtype:   qtype,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("dns: %w", err)
		}
	}

	c.client = &dns.Client{
		Timeout: c.timeout,
	}

	return c, nil
}

// Type returns the check type name.
func (c *Check) Type() string {
	return TypeName
}

// Run sends the query and returns a Result. Latency is the exchange RTT.
func (c *Check) Run(ctx context.Context) check.Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(c.name), c.qtype)
	msg.RecursionDesired = true

	resp, rtt, err := c.client.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return check.Failed(start, fmt.Errorf("dns %s %s: %w", dns.TypeToString[c.qtype], c.name, err))
	}

	if resp.Rcode != dns.RcodeSuccess {
		return check.Down(start, rcodeName(resp.Rcode), rtt)
	}
	if len(resp.Answer) == 0 {
		return check.Down(start, CodeNoAnswer, rtt)
	}

	return check.Up(start, rtt)
}

// rcodeName returns the mnemonic for an rcode, falling back to its number.
func rcodeName(rcode int) string {
	if s, ok := dns.RcodeToString[rcode]; ok {
		return s
	}
	return fmt.Sprintf("RCODE%d", rcode)
}

// parseQType converts a record type string to a miekg/dns type constant.
// Supported values (case-insensitive): A, AAAA, CNAME, MX, NS, TXT.
func parseQType(s string) (uint16, error) {
	switch strings.ToUpper(s) {
	case "", "A":
		return dns.TypeA, nil
	case "AAAA":
		return dns.TypeAAAA, nil
	case "CNAME":
		return dns.TypeCNAME, nil
	case "MX":
		return dns.TypeMX, nil
	case "NS":
		return dns.TypeNS, nil
	case "TXT":
		return dns.TypeTXT, nil
	default:
		return 0, &monitor.FieldError{Field: "record", Invalid: true}
	}
}

// NewFactory returns a check.Factory that builds DNS checks with the given
// options applied after the target's own timeout.
func NewFactory(opts ...Option) check.Factory {
	return func(target monitor.Target) (check.Check, error) {
		t, ok := target.(monitor.DNSTarget)
		if !ok {
			return nil, fmt.Errorf("dns: unexpected target type %T", target)
		}

		var all []Option
		if t.Timeout > 0 {
			all = append(all, WithTimeout(t.Timeout))
		}
		all = append(all, opts...)

		return New(t.Server, t.Name, t.Record, all...)
	}
}

// Factory creates a DNS Check from a monitor target with default options.
func Factory(target monitor.Target) (check.Check, error) {
	return NewFactory()(target)
}
