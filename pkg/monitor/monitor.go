// Package monitor defines the monitor specifications probed by uptui.
//
// A Definition is the raw, loosely typed shape read from a config file.
// Parse turns it into a Spec whose Target is one of the concrete target
// variants (HTTPTarget, TCPTarget, DNSTarget). Validation happens once, at
// parse time: an invalid definition still yields a Spec, carrying the
// validation error in Spec.Err, so that no configured monitor is ever
// silently dropped.
package monitor

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the protocol of a monitor target.
type Kind string

const (
	// KindHTTP probes a URL with a GET request. It is the default kind.
	KindHTTP Kind = "http"
	// KindTCP probes a host:port by opening a TCP connection.
	KindTCP Kind = "tcp"
	// KindDNS probes a resolver by querying a name.
	KindDNS Kind = "dns"
)

const (
	// DefaultTCPTimeout is the connect timeout used when a tcp monitor sets none.
	DefaultTCPTimeout = 5 * time.Second

	// DefaultDNSTimeout is the query timeout used when a dns monitor sets none.
	DefaultDNSTimeout = 5 * time.Second

	// DefaultDNSServer is the resolver queried when a dns monitor sets none.
	DefaultDNSServer = "1.1.1.1:53"

	// DefaultDNSRecord is the record type queried when a dns monitor sets none.
	DefaultDNSRecord = "A"
)

var supportedRecords = map[string]bool{
	"A": true, "AAAA": true, "CNAME": true, "MX": true, "NS": true, "TXT": true,
}

// Definition is a monitor entry as it appears in the config file.
type Definition struct {
	Name    string   `json:"name,omitempty" toml:"name"`
	Type    string   `json:"type,omitempty" toml:"type"`
	URL     string   `json:"url,omitempty" toml:"url"`
	Host    string   `json:"host,omitempty" toml:"host"`
	Port    int      `json:"port,omitempty" toml:"port"`
	Timeout *float64 `json:"timeout,omitempty" toml:"timeout"`
	Server  string   `json:"server,omitempty" toml:"server"`
	Record  string   `json:"record,omitempty" toml:"record"`
}

// Target is the protocol-specific part of a Spec.
// The set of implementations is closed to this package.
type Target interface {
	// Kind returns the protocol of the target.
	Kind() Kind

	// Address returns a human-readable description of what is probed.
	Address() string

	isTarget()
}

// HTTPTarget is probed with a single GET request.
type HTTPTarget struct {
	URL string
}

func (HTTPTarget) Kind() Kind { return KindHTTP }

// Address returns the URL.
func (t HTTPTarget) Address() string { return t.URL }

func (HTTPTarget) isTarget() {}

// TCPTarget is probed by opening and closing a TCP connection.
type TCPTarget struct {
	Host    string
	Port    int
	Timeout time.Duration
}

func (TCPTarget) Kind() Kind { return KindTCP }

// Address returns host:port. It is populated even when one half is missing.
func (t TCPTarget) Address() string {
	port := ""
	if t.Port != 0 {
		port = strconv.Itoa(t.Port)
	}
	return net.JoinHostPort(t.Host, port)
}

func (TCPTarget) isTarget() {}

// DNSTarget is probed by sending one query to a resolver.
type DNSTarget struct {
	Name    string
	Server  string
	Record  string
	Timeout time.Duration
}

func (DNSTarget) Kind() Kind { return KindDNS }

// Address returns the query in dig notation, e.g. "example.com A @1.1.1.1:53".
func (t DNSTarget) Address() string {
	return fmt.Sprintf("%s %s @%s", t.Name, t.Record, t.Server)
}

func (DNSTarget) isTarget() {}

// Spec is a parsed, immutable monitor specification.
type Spec struct {
	// Name is the display label.
	Name string

	// Target is the concrete target. It is never nil for a Spec returned
	// by Parse, even when Err is set.
	Target Target

	// Err is the validation error found while parsing, if any.
	// A Spec with a non-nil Err must be reported, never probed.
	Err error
}

// Kind returns the kind of the target.
func (s Spec) Kind() Kind {
	if s.Target == nil {
		return ""
	}
	return s.Target.Kind()
}

// Address returns the target address, or "" when there is no target.
func (s Spec) Address() string {
	if s.Target == nil {
		return ""
	}
	return s.Target.Address()
}

// Valid reports whether s can be probed.
func (s Spec) Valid() bool {
	return s.Err == nil && s.Target != nil
}

// Parse validates a Definition and converts it into a Spec.
func Parse(def Definition) Spec {
	kind := Kind(strings.ToLower(strings.TrimSpace(def.Type)))
	if kind == "" {
		kind = KindHTTP
	}

	var (
		target Target
		err    error
	)

	switch kind {
	case KindHTTP:
		target, err = parseHTTP(def)
	case KindTCP:
		target, err = parseTCP(def)
	case KindDNS:
		target, err = parseDNS(def)
	default:
		// Keep the address visible in the table even for an unknown type.
		target = HTTPTarget{URL: def.URL}
		err = &TypeError{Type: def.Type}
	}

	name := strings.TrimSpace(def.Name)
	if name == "" {
		name = target.Address()
	}

	return Spec{Name: name, Target: target, Err: err}
}

// ParseAll parses every definition, preserving order and length.
func ParseAll(defs []Definition) []Spec {
	specs := make([]Spec, len(defs))
	for i, def := range defs {
		specs[i] = Parse(def)
	}
	return specs
}

func parseHTTP(def Definition) (Target, error) {
	t := HTTPTarget{URL: strings.TrimSpace(def.URL)}
	if t.URL == "" {
		return t, &FieldError{Field: "url"}
	}
	return t, nil
}

func parseTCP(def Definition) (Target, error) {
	t := TCPTarget{
		Host:    strings.TrimSpace(def.Host),
		Port:    def.Port,
		Timeout: DefaultTCPTimeout,
	}
	if t.Host == "" || t.Port == 0 {
		return t, &FieldError{Field: "host/port"}
	}
	if t.Port < 0 || t.Port > 65535 {
		return t, &FieldError{Field: "port", Invalid: true}
	}
	if def.Timeout != nil {
		d, err := seconds(*def.Timeout)
		if err != nil {
			return t, err
		}
		t.Timeout = d
	}
	return t, nil
}

func parseDNS(def Definition) (Target, error) {
	t := DNSTarget{
		Name:    strings.TrimSpace(def.Host),
		Server:  strings.TrimSpace(def.Server),
		Record:  strings.ToUpper(strings.TrimSpace(def.Record)),
		Timeout: DefaultDNSTimeout,
	}
	if t.Server == "" {
		t.Server = DefaultDNSServer
	} else if _, _, err := net.SplitHostPort(t.Server); err != nil {
		t.Server = net.JoinHostPort(t.Server, "53")
	}
	if t.Record == "" {
		t.Record = DefaultDNSRecord
	}
	if t.Name == "" {
		return t, &FieldError{Field: "host"}
	}
	if !supportedRecords[t.Record] {
		return t, &FieldError{Field: "record", Invalid: true}
	}
	if def.Timeout != nil {
		d, err := seconds(*def.Timeout)
		if err != nil {
			return t, err
		}
		t.Timeout = d
	}
	return t, nil
}

// seconds converts a float number of seconds into a positive duration.
func seconds(v float64) (time.Duration, error) {
	if v <= 0 {
		return 0, &FieldError{Field: "timeout", Invalid: true}
	}
	return time.Duration(v * float64(time.Second)), nil
}
