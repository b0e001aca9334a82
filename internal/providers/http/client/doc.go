// Package client is the relay's outbound dispatcher.
//
// A Client executes one relay.RequestSpec per call with go-resty/resty on a
// pooled transport from hashicorp/go-retryablehttp. Retries are disabled at
// every layer: each Dispatch is exactly one attempt.
//
// Behaviour:
//   - Any upstream status, 1xx through 5xx, is a successful dispatch
//   - Caller header casing is kept, except for headers net/http itself reads
//     (Accept, Accept-Encoding, Content-Type, Host, User-Agent), which are
//     canonicalized so they are sent once
//   - Content-Length, Transfer-Encoding and Connection from the caller are
//     dropped; the transport frames the request
//   - Bodies are read fully, capped by Options.MaxBodyBytes, and gzip, deflate
//     and zstd content codings are removed with klauspost/compress
//   - Redirects follow Options.FollowRedirects and Options.MaxRedirects; when
//     disabled the 3xx itself is returned
//   - An optional per-host circuit breaker rejects calls to a failing host
//     without touching the network
//
// Example Usage:
//
//	c := client.NewClient(client.OptionsFromConfig(cfg.Dispatch))
//	defer c.Close()
//	up, err := c.Dispatch(ctx, spec)
package client
