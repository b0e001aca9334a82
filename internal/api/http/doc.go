// Package http exposes the relay over HTTP.
//
// Routes (wired in internal/infrastructure/server):
//
//	GET  /         service banner
//	GET  /health   health with metric counters and breaker states
//	POST /proxy    execute a described request and replay the response
//
// A successful /proxy call answers with the upstream status, headers (minus
// Content-Encoding, Transfer-Encoding and Connection) and body. Failures
// answer 400 or 500 with a JSON error body and an X-Relay-Error-Kind header.
package http
