package check

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/kylerisse/uptui/pkg/monitor"
)

// Category classifies why a probe failed.
// The string values are stable and shown to the user as "error: <category>".
type Category string

const (
	// CategoryNone is the category of a probe that did not fail.
	CategoryNone Category = ""
	// CategoryTimeout means the probe ran out of time.
	CategoryTimeout Category = "timeout"
	// CategoryConnectionRefused means the target actively refused the connection.
	CategoryConnectionRefused Category = "connection refused"
	// CategoryUnreachable means no route to the target network or host.
	CategoryUnreachable Category = "unreachable"
	// CategoryDNSFailure means the target name could not be resolved.
	CategoryDNSFailure Category = "dns failure"
	// CategoryProtocolError means the connection was made but the
	// protocol exchange (TLS handshake, HTTP framing) broke down.
	CategoryProtocolError Category = "protocol error"
	// CategoryValidation means the monitor spec itself is unusable.
	CategoryValidation Category = "validation"
	// CategoryOther is everything else.
	CategoryOther Category = "other"
)

func (c Category) String() string {
	return string(c)
}

// Classify maps an error returned by a probe to a failure Category.
func Classify(err error) Category {
	if err == nil {
		return CategoryOther
	}

	var (
		fieldErr *monitor.FieldError
		typeErr  *monitor.TypeError
	)
	if errors.As(err, &fieldErr) || errors.As(err, &typeErr) {
		return CategoryValidation
	}

	// Resolution errors are checked before timeouts: a resolver timeout is
	// still a name resolution problem from the user's point of view.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return CategoryConnectionRefused
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return CategoryUnreachable
	}

	if isProtocolError(err) {
		return CategoryProtocolError
	}

	return CategoryOther
}

func isProtocolError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
		authority   x509.UnknownAuthorityError
		hostname    x509.HostnameError
		invalidCert x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &authority),
		errors.As(err, &hostname),
		errors.As(err, &invalidCert):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, syscall.ECONNRESET):
		return true
	}
	return false
}

// Reason returns the short text shown after "error: " for a failed Result.
// Validation failures show the validation message itself (e.g. "missing url");
// all other failures show their category.
func Reason(r Result) string {
	if r.Category == CategoryValidation && r.Err != nil {
		var fieldErr *monitor.FieldError
		if errors.As(r.Err, &fieldErr) {
			return fieldErr.Error()
		}
		return r.Err.Error()
	}
	if r.Category == CategoryNone {
		return CategoryOther.String()
	}
	return r.Category.String()
}
