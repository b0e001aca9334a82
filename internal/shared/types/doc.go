// Package types provides the wire data structures of the relay endpoint.
//
// These types describe exactly what crosses the HTTP boundary between the
// relay and its callers. Decoding is strict: a payload that does not match
// the documented shape fails here, so domain code never sees a malformed
// request description.
//
// Request Types:
//   - ProxyRequest: body of POST /proxy
//   - Headers: ordered header object (later duplicates win)
//
// Response Types:
//   - ErrorResponse: JSON body of a 400 or 500 relay failure
//
// Example Usage:
//
//	var req types.ProxyRequest
//	if err := json.Unmarshal(payload, &req); err != nil {
//	    return err
//	}
//	ct, ok := req.Headers.Get("content-type")
package types
