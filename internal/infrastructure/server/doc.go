// Package server assembles the relay: configuration, logging, metrics,
// tracing, the outbound dispatcher and the gin router, and owns the HTTP
// listener lifecycle.
package server
