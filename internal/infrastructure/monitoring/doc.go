/*
Package monitoring provides Prometheus metrics for the relay.

# Overview

Metrics live on a private registry so that several relays (or tests) can run
in one process without duplicate registration panics. The registry carries the
Go and process collectors plus relay specific series.

# Series

  - relay_http_requests_total and friends: the relay's own endpoints, labelled
    by route template
  - relay_dispatch_total: outbound calls by method and outcome (status class
    or "error")
  - relay_dispatch_failures_total: failed calls by reason
  - relay_dispatch_duration_seconds, relay_dispatch_in_flight
  - relay_upstream_body_size_bytes
  - relay_input_errors_total
  - relay_breaker_transitions_total
  - relay_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "GET")
	// ... dispatch ...
	timer.Success(200, len(body))
*/
package monitoring
