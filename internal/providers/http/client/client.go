package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/relay/internal/domain/relay"
	"github.com/GriffinCanCode/relay/internal/infrastructure/config"
	"github.com/GriffinCanCode/relay/internal/infrastructure/resilience"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// Options configures outbound dispatch
type Options struct {
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	MaxBodyBytes    int64
	UserAgent       string
}

// OptionsFromConfig converts dispatch configuration into Options
func OptionsFromConfig(cfg config.DispatchConfig) Options {
	return Options{
		Timeout:         cfg.Timeout.Std(),
		FollowRedirects: cfg.FollowRedirects,
		MaxRedirects:    cfg.MaxRedirects,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		UserAgent:       cfg.UserAgent,
	}
}

// Client executes RequestSpecs with resty over a pooled transport.
// It never retries; each Dispatch makes exactly one attempt.
type Client struct {
	Resty    *resty.Client
	Breakers *resilience.Group
	opts     Options
}

// Headers net/http and resty read through canonical Get/Set. Sending them
// verbatim in another casing would put them on the wire twice.
var canonicalHeaders = map[string]struct{}{
	"accept":          {},
	"accept-encoding": {},
	"content-type":    {},
	"host":            {},
	"user-agent":      {},
}

// Request framing the transport computes itself.
var framingHeaders = map[string]struct{}{
	"content-length":    {},
	"transfer-encoding": {},
	"connection":        {},
}

// NewClient creates a dispatcher
func NewClient(opts Options) *Client {
	// Pooled transport only; resty drives the single attempt.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTransport(retryClient.HTTPClient.Transport).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetAllowGetMethodPayload(true).
		SetDoNotParseResponse(true).
		SetDisableWarn(true)

	if opts.FollowRedirects {
		restyClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(opts.MaxRedirects))
	} else {
		restyClient.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}

	return &Client{
		Resty: restyClient,
		opts:  opts,
	}
}

// WithBreaker guards each upstream host with its own circuit breaker.
// Only failures to obtain a response count; upstream statuses never do.
func (c *Client) WithBreaker(cfg config.BreakerConfig, onChange func(host string, from, to resilience.State)) *Client {
	c.Breakers = resilience.NewGroup(resilience.Settings{
		MaxRequests:   1,
		Timeout:       cfg.OpenTimeout.Std(),
		ReadyToTrip:   resilience.ConsecutiveFailures(cfg.ConsecutiveFailures),
		IsFailure:     isHostFailure,
		OnStateChange: onChange,
	})
	return c
}

func isHostFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, relay.ErrBodyTooLarge)
}

// Dispatch performs exactly one outbound call for spec. Any upstream status
// is returned as an Upstream; an error means no response was obtained.
func (c *Client) Dispatch(ctx context.Context, spec *relay.RequestSpec) (*relay.Upstream, error) {
	if c.Breakers == nil {
		return c.do(ctx, spec)
	}

	var up *relay.Upstream
	err := c.Breakers.Execute(relay.HostOf(spec.URL()), func() error {
		var err error
		up, err = c.do(ctx, spec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return up, nil
}

func (c *Client) do(ctx context.Context, spec *relay.RequestSpec) (*relay.Upstream, error) {
	req := c.Resty.R().SetContext(ctx)

	userAgent := false
	for _, h := range spec.Headers() {
		lower := strings.ToLower(h.Name)
		if _, skip := framingHeaders[lower]; skip {
			continue
		}
		if _, ok := canonicalHeaders[lower]; ok {
			req.SetHeader(h.Name, h.Value)
			userAgent = userAgent || lower == "user-agent"
			continue
		}
		req.SetHeaderVerbatim(h.Name, h.Value)
	}
	if !userAgent && c.opts.UserAgent != "" {
		req.SetHeader("User-Agent", c.opts.UserAgent)
	}

	switch spec.BodyKind() {
	case relay.BodyJSON:
		if _, ok := spec.Header("Content-Type"); !ok {
			req.SetHeader("Content-Type", "application/json")
		}
		req.SetBody(spec.Body())
	case relay.BodyRaw:
		req.SetBody(string(spec.Body()))
	}

	resp, err := req.Execute(spec.Method(), spec.URL())
	if err != nil {
		return nil, err
	}
	raw := resp.RawResponse
	if raw == nil {
		return nil, errors.New("no response received")
	}
	defer raw.Body.Close()

	body, err := readLimited(raw.Body, c.opts.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}

	decoded := raw.Uncompressed
	if !decoded {
		body, decoded, err = decodeContent(body, raw.Header.Get("Content-Encoding"), c.opts.MaxBodyBytes)
		if err != nil {
			return nil, err
		}
	}

	return &relay.Upstream{
		StatusCode: raw.StatusCode,
		Header:     raw.Header,
		Body:       body,
		Decoded:    decoded,
	}, nil
}

// BreakerStates reports per-host breaker states, or nil when disabled
func (c *Client) BreakerStates() map[string]resilience.State {
	if c.Breakers == nil {
		return nil
	}
	return c.Breakers.States()
}

// Close releases idle pooled connections
func (c *Client) Close() {
	c.Resty.GetClient().CloseIdleConnections()
}
