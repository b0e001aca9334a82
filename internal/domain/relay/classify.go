package relay

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/GriffinCanCode/relay/internal/infrastructure/resilience"
)

// ErrBodyTooLarge is returned by dispatchers when an upstream body exceeds
// the configured cap
var ErrBodyTooLarge = errors.New("upstream response body exceeds size limit")

// Classify maps any failure into an ErrorEnvelope. Envelopes pass through
// unchanged; everything else is a DispatchError.
func Classify(err error) *ErrorEnvelope {
	var env *ErrorEnvelope
	if errors.As(err, &env) {
		return env
	}

	return &ErrorEnvelope{
		Kind:    KindDispatch,
		Message: MsgDispatchFailed,
		Details: details(err),
		Reason:  reason(err),
		Err:     err,
	}
}

func reason(err error) Reason {
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return ReasonCircuitOpen
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return ReasonBodyTooLarge
	}
	if errors.Is(err, context.Canceled) {
		return ReasonCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ReasonTimeout
		}
		return ReasonDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonRefused
	}

	if isTLS(err) {
		return ReasonTLS
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return ReasonInvalidURL
	}
	msg := err.Error()
	if strings.Contains(msg, "unsupported protocol scheme") || strings.Contains(msg, "no Host in request URL") {
		return ReasonInvalidURL
	}

	return ReasonTransport
}

func isTLS(err error) bool {
	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}

// details strips the "Method \"URL\": " prefix net/http puts on transport
// errors; parse errors keep it since the URL is the diagnostic.
func details(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op != "parse" && urlErr.Err != nil {
		if text := urlErr.Err.Error(); text != "" {
			return text
		}
	}
	if text := err.Error(); text != "" {
		return text
	}
	return "unknown error"
}
