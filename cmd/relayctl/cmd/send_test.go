package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCommand(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		_ = sonic.Unmarshal(raw, &payload)
		received <- payload

		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	}))
	defer relay.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"send", "http://target/ping",
		"--relay", relay.URL,
		"-X", "put",
		"-H", "X-A: 1",
		"-H", "x-a: 2",
		"-d", "hello",
	})
	require.NoError(t, rootCmd.Execute())

	payload := <-received

	assert.Equal(t, "http://target/ping", payload["url"])
	assert.Equal(t, "PUT", payload["method"])
	assert.Equal(t, map[string]interface{}{"x-a": "2"}, payload["headers"])
	assert.Equal(t, "hello", payload["body"])

	assert.Contains(t, out.String(), "200 OK")
	assert.Contains(t, out.String(), "Content-Type: text/plain")
	assert.Contains(t, out.String(), "\npong\n")
}

func TestSendRequiresURL(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"send"})
	assert.Error(t, rootCmd.Execute())
}
