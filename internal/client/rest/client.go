// Package rest is the console's only door to the API: it issues verb-keyed
// requests against a base URL, encodes bodies as JSON or multipart form
// fields and turns every non-2xx answer into an *HTTPError.
//
// The client never retries. Session cookies set by the API are kept in an
// in-memory jar for the lifetime of the process.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/dmitrijs2005/donadmin/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// ErrUnavailable wraps transport failures: the request got no response.
var ErrUnavailable = errors.New("server unavailable")

// HTTPError is a non-2xx response. Its message is the status text as sent
// by the server.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return e.StatusText
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an *HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Client talks JSON to the admin API and carries the session cookie.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client. Its Jar is used as is.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends body (may be nil) with verb to path and decodes a JSON answer
// into out when out is non-nil and the response has a body.
func (c *Client) Do(ctx context.Context, verb, path string, body Body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		r, ct, err := body.encode()
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", verb, path, err)
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, verb, c.url(path), reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "verb", verb, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request", "verb", verb, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return newHTTPError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", verb, path, err)
	}
	return nil
}

// Upload PUTs raw bytes to a signed target outside the API. The target is
// used verbatim and no cookies are attached.
func (c *Client) Upload(ctx context.Context, target, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	transport := c.http.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	resp, err := (&http.Client{Transport: transport}).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	return nil
}

func newHTTPError(resp *http.Response) *HTTPError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, StatusText: text}
}
