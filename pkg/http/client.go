package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientOption configures Client.
type ClientOption func(*resty.Client)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client is a JSON client for upstream gateways.
type Client struct {
	rc *resty.Client
}

func NewClient(opts ...ClientOption) *Client {
	rc := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{rc: rc}
}

// GetJSON issues a GET and decodes the JSON body into dest. dest may be nil.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, dest any) error {
	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.IsError() {
		b := resp.Body()
		if len(b) > 4096 {
			b = b[:4096]
		}
		return &StatusError{StatusCode: resp.StatusCode(), Body: string(b)}
	}

	if dest == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(rc *resty.Client) { rc.SetTimeout(timeout) }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(rc *resty.Client) { rc.SetHeader(key, value) }
}

// WithRetry retries transport errors, 429 and 5xx responses up to n times.
func WithRetry(n int, wait, maxWait time.Duration) ClientOption {
	return func(rc *resty.Client) {
		rc.SetRetryCount(n).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(maxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}
