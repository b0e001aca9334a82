package relay

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/GriffinCanCode/relay/internal/shared/types"
)

// BodyKind says how a RequestSpec body is sent
type BodyKind int

const (
	// BodyNone sends no body
	BodyNone BodyKind = iota
	// BodyRaw sends the text of a JSON string unchanged
	BodyRaw
	// BodyJSON sends the caller's JSON bytes unchanged
	BodyJSON
)

// String returns the string representation of the kind
func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyRaw:
		return "raw"
	case BodyJSON:
		return "json"
	default:
		return "unknown"
	}
}

// RequestSpec is a validated description of one outbound call.
// It cannot be modified after construction; accessors return copies.
type RequestSpec struct {
	url      string
	method   string
	headers  types.Headers
	bodyKind BodyKind
	body     []byte
}

// URL returns the target URL
func (s *RequestSpec) URL() string { return s.url }

// Method returns the upper-cased HTTP method
func (s *RequestSpec) Method() string { return s.method }

// Headers returns the outbound headers, unique by case-insensitive name
func (s *RequestSpec) Headers() types.Headers {
	out := make(types.Headers, len(s.headers))
	copy(out, s.headers)
	return out
}

// Header returns the value of the named header
func (s *RequestSpec) Header(name string) (string, bool) {
	return s.headers.Get(name)
}

// BodyKind reports how the body is sent
func (s *RequestSpec) BodyKind() BodyKind { return s.bodyKind }

// Body returns a copy of the body bytes
func (s *RequestSpec) Body() []byte {
	if s.body == nil {
		return nil
	}
	return bytes.Clone(s.body)
}

// dedupeHeaders keeps one entry per case-insensitive name. A later entry
// replaces both the value and the casing of an earlier one but keeps its slot.
func dedupeHeaders(in types.Headers) types.Headers {
	if len(in) == 0 {
		return nil
	}

	out := make(types.Headers, 0, len(in))
	index := make(map[string]int, len(in))
	for _, h := range in {
		key := strings.ToLower(h.Name)
		if i, ok := index[key]; ok {
			out[i] = h
			continue
		}
		index[key] = len(out)
		out = append(out, h)
	}
	return out
}

// parseBody splits the raw payload body into its send mode.
func parseBody(req *types.ProxyRequest) (BodyKind, []byte, error) {
	if !req.HasBody() {
		return BodyNone, nil, nil
	}

	raw := bytes.TrimSpace(req.Body)
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return BodyNone, nil, err
		}
		return BodyRaw, []byte(text), nil
	}
	return BodyJSON, bytes.Clone(raw), nil
}
