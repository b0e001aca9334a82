package console

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/relay/internal/shared/types"
)

// HeaderErrorKind mirrors the relay's error kind response header
const HeaderErrorKind = "X-Relay-Error-Kind"

// Reply is what the relay returned for one call
type Reply struct {
	StatusCode int
	Status     string
	Elapsed    time.Duration
	Header     http.Header
	Body       []byte
}

// ErrorKind returns the relay error kind, empty for relayed responses
func (r *Reply) ErrorKind() string {
	return r.Header.Get(HeaderErrorKind)
}

// Failure decodes the relay's error body when the reply is a relay failure
func (r *Reply) Failure() (*types.ErrorResponse, bool) {
	if r.ErrorKind() == "" {
		return nil, false
	}
	var resp types.ErrorResponse
	if err := sonic.Unmarshal(r.Body, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Client talks to a running relay
type Client struct {
	resty    *resty.Client
	endpoint string
}

// NewClient creates a client for the relay at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetTimeout(timeout).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Content-Type", "application/json")

	return &Client{
		resty:    r,
		endpoint: strings.TrimRight(baseURL, "/") + "/proxy",
	}
}

// Send posts the payload to the relay. An error means the relay itself
// could not be reached; relay failures come back as a Reply.
func (c *Client) Send(ctx context.Context, req *types.ProxyRequest) (*Reply, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("relay unreachable: %w", err)
	}

	return &Reply{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Elapsed:    resp.Time(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
