// Package fetch wraps the HTTP GETs made to third-party sites: a per-request
// timeout, a User-Agent, a status check and a cap on the body size.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "notebook/1.0"
)

var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)

// Client performs bounded GET requests.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int64
	// Header is added to every request, e.g. an Authorization token.
	Header http.Header
}

// New returns a client with the given limits; zero values fall back to the defaults.
func New(timeout time.Duration, maxBytes int64, userAgent string) *Client {
	return &Client{UserAgent: userAgent, Timeout: timeout, MaxBytes: maxBytes}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) limits() (time.Duration, int64) {
	timeout, maxBytes := c.Timeout, c.MaxBytes
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return timeout, maxBytes
}

// Response is a fetched body with the headers that matter to callers.
type Response struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

// Get downloads rawURL and returns its body.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}
	timeout, maxBytes := c.limits()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %w: %s", rawURL, ErrStatus, resp.Status)
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("fetch %s: %w: content-length %d exceeds %d", rawURL, ErrTooLarge, resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("fetch %s: %w: more than %d bytes", rawURL, ErrTooLarge, maxBytes)
	}
	return &Response{
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// Bytes downloads rawURL and returns only the body.
func (c *Client) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// JSON downloads rawURL and decodes it into dst.
func (c *Client) JSON(ctx context.Context, rawURL string, dst any) error {
	data, err := c.Bytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("fetch json %s: decode: %w", rawURL, err)
	}
	return nil
}
