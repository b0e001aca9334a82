package types

import (
	"bytes"
	"encoding/json"
)

// ProxyRequest is the body of POST /proxy
type ProxyRequest struct {
	URL     string          `json:"url"`
	Method  string          `json:"method"`
	Headers Headers         `json:"headers,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// HasBody reports whether the payload carries a body other than JSON null
func (r *ProxyRequest) HasBody() bool {
	trimmed := bytes.TrimSpace(r.Body)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ErrorResponse is the JSON body returned when a relay call fails
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
