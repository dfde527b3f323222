// Package http is a small fluent client for the storefront JSON API, used by
// the CLI to drive the admin endpoints of a running server.
//
//	c := http.NewClient("http://localhost:8080", http.WithRetry(3, 200*time.Millisecond))
//	resp, err := c.Patch("/api/admin/products/" + id).
//	    Bearer(token).
//	    Body(map[string]any{"featured": true}).
//	    Send(ctx)
//	if err == nil {
//	    err = resp.Throw()
//	}
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"strings"
	"time"

	"github.com/aircon-store/storefront/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 32,
	IdleConnTimeout:     90 * time.Second,
}

// Client sends requests relative to a base URL.
type Client struct {
	base      string
	hc        *gohttp.Client
	retries   int
	retryWait time.Duration
	token     string
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying client, e.g. for httptest servers.
func WithHTTPClient(hc *gohttp.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// WithRetry sets the total attempts and the initial backoff, which doubles
// after every failed attempt. Only transport errors and 5xx are retried.
func WithRetry(attempts int, wait time.Duration) ClientOption {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retries, c.retryWait = attempts, wait
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base:      strings.TrimRight(baseURL, "/"),
		hc:        &gohttp.Client{Transport: defaultTransport},
		retries:   1,
		retryWait: 250 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken makes every later request carry "Authorization: Bearer <token>".
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Get(path string) *Request    { return c.newRequest(gohttp.MethodGet, path) }
func (c *Client) Post(path string) *Request   { return c.newRequest(gohttp.MethodPost, path) }
func (c *Client) Put(path string) *Request    { return c.newRequest(gohttp.MethodPut, path) }
func (c *Client) Patch(path string) *Request  { return c.newRequest(gohttp.MethodPatch, path) }
func (c *Client) Delete(path string) *Request { return c.newRequest(gohttp.MethodDelete, path) }

func (c *Client) newRequest(method, path string) *Request {
	r := &Request{
		client:  c,
		method:  method,
		url:     c.base + "/" + strings.TrimLeft(path, "/"),
		headers: map[string]string{"Accept": "application/json"},
		timeout: 30 * time.Second,
	}
	if c.token != "" {
		r.Bearer(c.token)
	}
	return r
}

// Request is a fluent request builder.
type Request struct {
	client  *Client
	method  string
	url     string
	headers map[string]string
	body    any
	timeout time.Duration
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the payload. Strings and byte slices are sent raw, anything
// else as JSON.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout bounds each attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Send executes the request, retrying per the client's policy. A non-2xx
// response is not an error here; use Response.Throw.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	payload, ct, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	wait := r.client.retryWait
	var lastErr error
	for attempt := 1; attempt <= r.client.retries; attempt++ {
		resp, err := r.do(ctx, payload, ct)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= 500 && attempt < r.client.retries:
			lastErr = resp.Throw()
		default:
			return resp, nil
		}

		if attempt == r.client.retries {
			break
		}
		logger.Warn("http: request failed, retrying",
			"method", r.method, "url", r.url, "attempt", attempt, "backoff", wait, "error", lastErr)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, fmt.Errorf("http: %s %s failed after %d attempts: %w", r.method, r.url, r.client.retries, lastErr)
}

func (r *Request) do(ctx context.Context, payload []byte, ct string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := r.client.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

func (r *Request) encodeBody() ([]byte, string, error) {
	switch v := r.body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(v), "text/plain", nil
	case []byte:
		return v, "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return b, "application/json", nil
	}
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Data decodes the "data" member of an API envelope into dest.
func (r *Response) Data(dest any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := r.JSON(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errors.New("http: response has no data")
	}
	return json.Unmarshal(env.Data, dest)
}

func (r *Response) Header(key string) string { return r.Headers.Get(key) }

// StatusError is a non-2xx response carrying the envelope message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: status %d: %s", e.Code, e.Message)
}

// Throw returns a *StatusError for non-2xx responses.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	var env struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(r.Raw))
	if json.Unmarshal(r.Raw, &env) == nil && env.Message != "" {
		msg = env.Message
	}
	return &StatusError{Code: r.StatusCode, Message: msg}
}
