package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/relay/internal/shared/types"
)

func TestFormHeaders(t *testing.T) {
	form := Form{
		URL:    "  https://example.com/api  ",
		Method: "get",
		Headers: []HeaderRow{
			{Key: " Accept ", Value: " text/plain "},
			{Key: "", Value: "dropped"},
			{Key: "   ", Value: "dropped"},
			{Key: "X-Token", Value: "a"},
			{Key: "accept", Value: "application/json"},
		},
	}

	req, err := form.Payload()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api", req.URL)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, types.Headers{
		{Name: "accept", Value: "application/json"},
		{Name: "X-Token", Value: "a"},
	}, req.Headers)
}

func TestFormDefaultsToGet(t *testing.T) {
	req, err := Form{URL: "http://x"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Nil(t, req.Headers)
}

func TestFormBody(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   string
	}{
		{"json object", "POST", ` {"a": 1} `, `{"a": 1}`},
		{"json array", "PUT", `[1,2]`, `[1,2]`},
		{"plain text", "PATCH", `hello "world"`, `"hello \"world\""`},
		{"ignored for get", "GET", `{"a":1}`, ``},
		{"ignored for delete", "DELETE", `x`, ``},
		{"blank body", "POST", "  \n", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Form{URL: "http://x", Method: tt.method, Body: tt.body}.Payload()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(req.Body))
		})
	}
}

func TestParseHeaderFlag(t *testing.T) {
	assert.Equal(t, HeaderRow{Key: "Authorization", Value: " Bearer a:b"}, ParseHeaderFlag("Authorization: Bearer a:b"))
	assert.Equal(t, HeaderRow{Key: "X-Flag"}, ParseHeaderFlag("X-Flag"))
}
