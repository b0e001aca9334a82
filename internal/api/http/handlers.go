package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/relay/internal/domain/relay"
	"github.com/GriffinCanCode/relay/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/relay/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/relay/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/relay/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// HeaderErrorKind names the error category on failed relay calls
const HeaderErrorKind = "X-Relay-Error-Kind"

// Handlers contains all HTTP handlers
type Handlers struct {
	relay           *relay.Service
	metrics         *monitoring.Metrics
	breakers        func() map[string]resilience.State
	maxPayloadBytes int64
}

// NewHandlers creates a new handler set
func NewHandlers(svc *relay.Service, metrics *monitoring.Metrics, maxPayloadBytes int64) *Handlers {
	return &Handlers{
		relay:           svc,
		metrics:         metrics,
		maxPayloadBytes: maxPayloadBytes,
	}
}

// WithBreakerStates reports per-host breaker states on the health endpoint
func (h *Handlers) WithBreakerStates(fn func() map[string]resilience.State) *Handlers {
	h.breakers = fn
	return h
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Request Relay",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	if h.breakers != nil {
		states := make(map[string]string)
		for host, state := range h.breakers() {
			states[host] = state.String()
		}
		resp["breakers"] = states
	}
	c.JSON(http.StatusOK, resp)
}

// Proxy executes the described request and replays the upstream response
func (h *Handlers) Proxy(c *gin.Context) {
	var req types.ProxyRequest
	if env := h.bind(c, &req); env != nil {
		writeError(c, h.relay.Reject(env).Err)
		return
	}

	res := h.relay.Relay(c.Request.Context(), &req)
	if res.Err != nil {
		writeError(c, res.Err)
		return
	}
	writeResponse(c, res.Response)
}

// bind decodes the payload. An empty body is an empty description; anything
// after the first JSON value makes the payload malformed.
func (h *Handlers) bind(c *gin.Context, req *types.ProxyRequest) *relay.ErrorEnvelope {
	body := c.Request.Body
	if h.maxPayloadBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxPayloadBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return payloadError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return payloadError(err)
	}
	return nil
}

func payloadError(err error) *relay.ErrorEnvelope {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return relay.NewInputError(relay.MsgPayloadTooLarge)
	}
	return relay.NewInputError(relay.MsgInvalidPayload)
}

func writeError(c *gin.Context, env *relay.ErrorEnvelope) {
	c.Header(HeaderErrorKind, string(env.Kind))
	c.JSON(env.StatusCode(), env.Response())
}

// writeResponse replays a ResponseEnvelope. Headers the relay sets itself
// (CORS, trace ids) win over upstream ones of the same name.
func writeResponse(c *gin.Context, env *relay.ResponseEnvelope) {
	out := c.Writer.Header()
	for name, values := range env.Headers {
		if relayOwned(name) && len(out.Values(name)) > 0 {
			continue
		}
		out[name] = values
	}

	// Without this net/http would sniff and add a type the upstream never sent.
	if len(env.Headers.Values("Content-Type")) == 0 {
		out["Content-Type"] = nil
	}

	if !bodyAllowed(env.StatusCode) {
		out.Del("Content-Length")
		c.Writer.WriteHeader(env.StatusCode)
		c.Writer.WriteHeaderNow()
		return
	}

	// The body is complete in memory; its length is authoritative.
	out.Set("Content-Length", strconv.Itoa(len(env.Body)))
	c.Writer.WriteHeader(env.StatusCode)
	c.Writer.WriteHeaderNow()
	_, _ = c.Writer.Write(env.Body)
}

func relayOwned(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "access-control-") ||
		strings.EqualFold(name, tracing.HeaderTraceID) ||
		strings.EqualFold(name, tracing.HeaderSpanID)
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
