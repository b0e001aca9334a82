package relay

import (
	"encoding/json"
	"testing"

	"github.com/GriffinCanCode/relay/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) *types.ProxyRequest {
	t.Helper()
	var req types.ProxyRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	return &req
}

func TestValidateRequiresURL(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		payload string
	}{
		{"missing", `{"method":"GET","headers":{},"body":null}`},
		{"empty", `{"url":""}`},
		{"blank", `{"url":"   \t"}`},
		{"missing with bad method", `{"method":"FETCH"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := v.Validate(decode(t, tt.payload))
			require.Error(t, err)
			assert.Nil(t, spec)

			env := Classify(err)
			assert.Equal(t, KindInput, env.Kind)
			assert.Equal(t, MsgURLRequired, env.Message)
			assert.Empty(t, env.Details)
		})
	}
}

func TestValidateNilPayload(t *testing.T) {
	_, err := NewValidator().Validate(nil)
	assert.Equal(t, MsgURLRequired, Classify(err).Message)
}

func TestValidateMethod(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		method string
		want   string
	}{
		{"", "GET"},
		{"get", "GET"},
		{" post ", "POST"},
		{"Patch", "PATCH"},
		{"options", "OPTIONS"},
	}

	for _, tt := range tests {
		spec, err := v.Validate(&types.ProxyRequest{URL: "http://a.test", Method: tt.method})
		require.NoError(t, err, tt.method)
		assert.Equal(t, tt.want, spec.Method())
	}

	_, err := v.Validate(&types.ProxyRequest{URL: "http://a.test", Method: "fetch"})
	require.Error(t, err)
	env := Classify(err)
	assert.Equal(t, KindInput, env.Kind)
	assert.Equal(t, "Unsupported HTTP method: FETCH", env.Message)
}

func TestValidateTrimsURL(t *testing.T) {
	spec, err := NewValidator().Validate(&types.ProxyRequest{URL: "  http://a.test/x  "})
	require.NoError(t, err)
	assert.Equal(t, "http://a.test/x", spec.URL())
}

func TestValidateHeadersLaterWins(t *testing.T) {
	spec, err := NewValidator().Validate(decode(t,
		`{"url":"http://a.test","headers":{"X-Test":"1","Accept":"text/plain","x-test":"2"}}`))
	require.NoError(t, err)

	assert.Equal(t, types.Headers{
		{Name: "x-test", Value: "2"},
		{Name: "Accept", Value: "text/plain"},
	}, spec.Headers())

	v, ok := spec.Header("X-TEST")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestValidateBodyKinds(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		payload  string
		wantKind BodyKind
		wantBody string
	}{
		{"absent", `{"url":"http://a.test"}`, BodyNone, ""},
		{"null", `{"url":"http://a.test","body":null}`, BodyNone, ""},
		{"object", `{"url":"http://a.test","body":{"x": 1, "y":[true]}}`, BodyJSON, `{"x": 1, "y":[true]}`},
		{"number", `{"url":"http://a.test","body":42}`, BodyJSON, `42`},
		{"string", `{"url":"http://a.test","body":"a=1&b=\"2\""}`, BodyRaw, `a=1&b="2"`},
		{"empty string", `{"url":"http://a.test","body":""}`, BodyRaw, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := v.Validate(decode(t, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, spec.BodyKind())
			assert.Equal(t, tt.wantBody, string(spec.Body()))
		})
	}
}

func TestRequestSpecIsImmutable(t *testing.T) {
	spec, err := NewValidator().Validate(decode(t,
		`{"url":"http://a.test","headers":{"A":"1"},"body":{"x":1}}`))
	require.NoError(t, err)

	h := spec.Headers()
	h[0].Value = "changed"
	b := spec.Body()
	b[0] = '['

	v, _ := spec.Header("A")
	assert.Equal(t, "1", v)
	assert.Equal(t, `{"x":1}`, string(spec.Body()))
}
