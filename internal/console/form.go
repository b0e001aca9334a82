package console

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/relay/internal/shared/types"
)

// HeaderRow is one key/value row as typed by the operator
type HeaderRow struct {
	Key   string
	Value string
}

// Form holds the operator's raw input for one relay call
type Form struct {
	URL     string
	Method  string
	Headers []HeaderRow
	Body    string
}

// bodyMethods are the methods whose body text is attached to the payload
var bodyMethods = map[string]bool{
	"POST":  true,
	"PUT":   true,
	"PATCH": true,
}

// Payload assembles the POST /proxy body. The relay does the validation; the
// form only shapes what the operator typed.
func (f Form) Payload() (*types.ProxyRequest, error) {
	method := strings.ToUpper(strings.TrimSpace(f.Method))
	if method == "" {
		method = "GET"
	}

	req := &types.ProxyRequest{
		URL:     strings.TrimSpace(f.URL),
		Method:  method,
		Headers: collectHeaders(f.Headers),
	}

	if bodyMethods[method] && strings.TrimSpace(f.Body) != "" {
		body, err := encodeBody(f.Body)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}

// collectHeaders trims rows, skips blank keys and lets a later row replace an
// earlier one whose key matches case-insensitively.
func collectHeaders(rows []HeaderRow) types.Headers {
	var out types.Headers
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		value := strings.TrimSpace(row.Value)

		lower := strings.ToLower(key)
		if i, ok := index[lower]; ok {
			out[i] = types.Header{Name: key, Value: value}
			continue
		}
		index[lower] = len(out)
		out = append(out, types.Header{Name: key, Value: value})
	}
	return out
}

// encodeBody sends valid JSON as-is and anything else as a JSON string
func encodeBody(text string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if sonic.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}

	quoted, err := sonic.Marshal(text)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(quoted), nil
}

// ParseHeaderFlag splits a curl-style "Key: Value" argument
func ParseHeaderFlag(arg string) HeaderRow {
	key, value, _ := strings.Cut(arg, ":")
	return HeaderRow{Key: key, Value: value}
}
