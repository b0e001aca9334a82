/*
Package relay holds the core of the request relay.

A caller's payload is validated into an immutable RequestSpec, executed by a
Dispatcher exactly once, and the upstream response is normalized into a
ResponseEnvelope that can be re-served without breaking the caller's transport
framing. Any failure collapses into an ErrorEnvelope of one of two kinds:

  - InputError (400): the payload cannot describe a request
  - DispatchError (500): no upstream response was obtained

An upstream 4xx or 5xx is not a failure; it is returned like any other
response.

	svc := relay.NewService(dispatcher, logger).
		WithMetrics(metrics).
		WithTracer(tracer)

	res := svc.Relay(ctx, payload)
	if res.Err != nil {
		// res.Err.StatusCode(), res.Err.Response()
	}
*/
package relay
