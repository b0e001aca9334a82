package relay

import (
	"net/http"
	"strings"
)

// Upstream is the raw outcome of a dispatch that obtained a response
type Upstream struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Decoded is set when the dispatcher removed a content coding from Body
	Decoded bool
}

// Headers describing the upstream hop's framing. The relay re-frames the
// body itself, so these would lie to the caller.
var framingHeaders = map[string]struct{}{
	"content-encoding":  {},
	"transfer-encoding": {},
	"connection":        {},
}

// Normalize maps an upstream response into a ResponseEnvelope
func Normalize(up *Upstream) *ResponseEnvelope {
	headers := make(http.Header, len(up.Header))
	for name, values := range up.Header {
		lower := strings.ToLower(name)
		if _, skip := framingHeaders[lower]; skip {
			continue
		}
		if up.Decoded && lower == "content-length" {
			continue
		}
		headers[name] = append([]string(nil), values...)
	}

	return &ResponseEnvelope{
		StatusCode: up.StatusCode,
		Headers:    headers,
		Body:       up.Body,
	}
}
