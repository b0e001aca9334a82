package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// Route template keeps label cardinality bounded; unmatched paths share one label.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures a single outbound dispatch
type Timer struct {
	start   time.Time
	metrics *Metrics
	method  string
}

// NewTimer starts timing a dispatch and marks it in flight
func NewTimer(metrics *Metrics, method string) *Timer {
	metrics.DispatchStarted()
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		method:  method,
	}
}

// Success stops the timer for a dispatch that obtained a response
func (t *Timer) Success(status, bodySize int) time.Duration {
	d := time.Since(t.start)
	t.metrics.RecordDispatch(t.method, status, d, bodySize)
	return d
}

// Failure stops the timer for a dispatch that failed without a response
func (t *Timer) Failure(reason string) time.Duration {
	d := time.Since(t.start)
	t.metrics.RecordDispatchFailure(t.method, reason, d)
	return d
}
