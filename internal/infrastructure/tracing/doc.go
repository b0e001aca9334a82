/*
Package tracing provides lightweight request tracing for the relay.

# Overview

Each inbound request gets a span. Trace context arrives and leaves through the
X-Trace-ID and X-Span-ID headers, so a caller can correlate its own logs with
the relay's. The dispatch layer opens a child span per outbound call.

Completed spans are handed to a buffered collector which writes them to the
structured log. When the buffer is full spans are dropped with a warning
rather than blocking the request path.

# Usage

	tracer := tracing.New("relay", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "dispatch")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
