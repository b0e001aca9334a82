package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newObservedTracer(t *testing.T) (*Tracer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New("relay", zap.New(core)), logs
}

func TestStartSpanNewTrace(t *testing.T) {
	tracer, _ := newObservedTracer(t)
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "dispatch")

	assert.True(t, strings.HasPrefix(string(span.TraceID), "trace_"))
	assert.True(t, strings.HasPrefix(string(span.SpanID), "span_"))
	assert.Empty(t, span.ParentID)
	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))
}

func TestStartSpanChild(t *testing.T) {
	tracer, _ := newObservedTracer(t)
	defer tracer.Close()

	parent, ctx := tracer.StartSpan(context.Background(), "request")
	child, _ := tracer.StartSpan(ctx, "dispatch")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestCloseDrainsSubmittedSpans(t *testing.T) {
	tracer, logs := newObservedTracer(t)

	ok, _ := tracer.StartSpan(context.Background(), "ok")
	ok.Finish()
	tracer.Submit(ok)

	failed, _ := tracer.StartSpan(context.Background(), "failed")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()

	assert.Equal(t, 1, logs.FilterMessage("span completed").Len())
	errLogs := logs.FilterMessage("span completed with error").All()
	require.Len(t, errLogs, 1)
	assert.Equal(t, "failed", errLogs[0].ContextMap()["operation"])
	assert.Equal(t, int64(500), errLogs[0].ContextMap()["status"])

	// Submitting after close is a no-op.
	tracer.Submit(ok)
	tracer.Close()
}

func TestHTTPMiddlewarePropagatesTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObservedTracer(t)

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/health", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderTraceID, "trace_inbound")
	req.Header.Set(HeaderSpanID, "span_parent")
	router.ServeHTTP(w, req)

	tracer.Close()

	assert.Equal(t, TraceID("trace_inbound"), seen)
	assert.Equal(t, "trace_inbound", w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderSpanID))
	assert.NotEqual(t, "span_parent", w.Header().Get(HeaderSpanID))

	entries := logs.FilterMessage("span completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "span_parent", fields["parent_id"])
	assert.Equal(t, "/health", fields["operation"])
	assert.Equal(t, "200", fields["http.status"])
}
