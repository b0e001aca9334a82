package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrHeadersNotObject is returned when "headers" is not a JSON object of scalars
var ErrHeadersNotObject = errors.New("headers must be an object of string values")

// Header is a single name/value pair as supplied by the caller
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header object. Document order is kept so that a
// later entry can override an earlier one with the same name.
type Headers []Header

// Get returns the last value whose name matches case-insensitively
func (h Headers) Get(name string) (string, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if strings.EqualFold(h[i].Name, name) {
			return h[i].Value, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object while keeping member order. String
// values are taken as-is, numbers and booleans by their literal text and
// null members are skipped. Nested objects and arrays are rejected.
func (h *Headers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*h = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrHeadersNotObject
	}

	var out Headers
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		value, present, err := scalarText(raw)
		if err != nil {
			return fmt.Errorf("header %q: %w", name, err)
		}
		if present {
			out = append(out, Header{Name: name, Value: value})
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*h = out
	return nil
}

// MarshalJSON encodes the headers as a JSON object in their stored order
func (h Headers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, header := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(header.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(header.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func scalarText(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false, ErrHeadersNotObject
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 'n':
		return "", false, nil
	case '{', '[':
		return "", false, ErrHeadersNotObject
	default:
		return string(trimmed), true, nil
	}
}
