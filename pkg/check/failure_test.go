package check

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/kylerisse/uptui/pkg/monitor"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryOther},
		{"plain error", errors.New("connect timeout"), CategoryOther},
		{"missing field", &monitor.FieldError{Field: "url"}, CategoryValidation},
		{"unknown type", &monitor.TypeError{Type: "icmp"}, CategoryValidation},
		{"context deadline", context.DeadlineExceeded, CategoryTimeout},
		{"wrapped deadline", fmt.Errorf("dial: %w", context.DeadlineExceeded), CategoryTimeout},
		{"os deadline", os.ErrDeadlineExceeded, CategoryTimeout},
		{"net timeout", &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}, CategoryTimeout},
		{"url timeout", &url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}, CategoryTimeout},
		{"dns error", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "x.invalid", IsNotFound: true}}, CategoryDNSFailure},
		{"dns timeout is dns", &net.DNSError{Err: "timeout", Name: "x", IsTimeout: true}, CategoryDNSFailure},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, CategoryConnectionRefused},
		{"net unreachable", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}, CategoryUnreachable},
		{"host unreachable", os.NewSyscallError("connect", syscall.EHOSTUNREACH), CategoryUnreachable},
		{"reset", &url.Error{Op: "Get", URL: "http://x", Err: syscall.ECONNRESET}, CategoryProtocolError},
		{"unexpected eof", &url.Error{Op: "Get", URL: "http://x", Err: io.ErrUnexpectedEOF}, CategoryProtocolError},
		{"unknown authority", &url.Error{Op: "Get", URL: "https://x", Err: x509.UnknownAuthorityError{}}, CategoryProtocolError},
		{"hostname mismatch", x509.HostnameError{Host: "x"}, CategoryProtocolError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReason(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"validation shows message", Failed(now, &monitor.FieldError{Field: "host/port"}), "missing host/port"},
		{"timeout shows category", Failed(now, context.DeadlineExceeded), "timeout"},
		{"refused shows category", Failed(now, syscall.ECONNREFUSED), "connection refused"},
		{"other", Failed(now, errors.New("weird")), "other"},
		{"no category", Result{}, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.result); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReason_WrappedFieldError(t *testing.T) {
	err := fmt.Errorf("%w: parse error", &monitor.FieldError{Field: "url", Invalid: true})
	r := Failed(time.Now(), err)
	if got := Reason(r); got != "invalid url" {
		t.Errorf("expected %q, got %q", "invalid url", got)
	}
}
