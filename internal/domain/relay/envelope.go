package relay

import (
	"net/http"

	"github.com/GriffinCanCode/relay/internal/shared/types"
)

// Kind is the wire-level error category
type Kind string

const (
	KindInput    Kind = "InputError"
	KindDispatch Kind = "DispatchError"
)

// Reason is the finer failure cause used for logs and metrics only
type Reason string

const (
	ReasonInvalidInput Reason = "invalid_input"
	ReasonTimeout      Reason = "timeout"
	ReasonDNS          Reason = "dns"
	ReasonRefused      Reason = "refused"
	ReasonTLS          Reason = "tls"
	ReasonCanceled     Reason = "canceled"
	ReasonInvalidURL   Reason = "invalid_url"
	ReasonBodyTooLarge Reason = "body_too_large"
	ReasonCircuitOpen  Reason = "circuit_open"
	ReasonTransport    Reason = "transport"
)

// Messages returned to callers
const (
	MsgURLRequired       = "URL is required in the request payload."
	MsgInvalidPayload    = "Invalid request payload."
	MsgPayloadTooLarge   = "Request payload too large."
	MsgUnsupportedMethod = "Unsupported HTTP method: "
	MsgDispatchFailed    = "Proxy request failed"
)

// ErrorEnvelope is the normalized failure outcome of a relay call
type ErrorEnvelope struct {
	Kind    Kind
	Message string
	Details string
	Reason  Reason
	Err     error
}

// NewInputError creates an InputError with the given message
func NewInputError(message string) *ErrorEnvelope {
	return &ErrorEnvelope{
		Kind:    KindInput,
		Message: message,
		Reason:  ReasonInvalidInput,
	}
}

// Error implements error
func (e *ErrorEnvelope) Error() string {
	if e.Details != "" {
		return string(e.Kind) + ": " + e.Message + ": " + e.Details
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the underlying cause, if any
func (e *ErrorEnvelope) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status the relay answers with
func (e *ErrorEnvelope) StatusCode() int {
	if e.Kind == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Response returns the JSON body for the error
func (e *ErrorEnvelope) Response() types.ErrorResponse {
	resp := types.ErrorResponse{Error: e.Message}
	if e.Kind == KindDispatch {
		resp.Details = e.Details
	}
	return resp
}

// ResponseEnvelope is the normalized successful outcome of a relay call
type ResponseEnvelope struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Result is exactly one of a response or an error
type Result struct {
	Response *ResponseEnvelope
	Err      *ErrorEnvelope
}

// OK reports whether the call produced an upstream response
func (r Result) OK() bool {
	return r.Err == nil && r.Response != nil
}
