// Package client provides an HTTP client for the blog comments API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/evcraddock/blog-comments/internal/comment"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error! status: %d", e.Method, e.Path, e.StatusCode)
}

// ErrNotArray is returned when a comment listing decodes to JSON null.
var ErrNotArray = errors.New("decoding response: expected a JSON array of comments")

// Client is an HTTP client for the comments API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport wraps the client's transport with wrap.
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = wrap(c.httpClient.Transport)
	}
}

// New creates a new API client for the API rooted at baseURL.
// No request timeout is set; callers bound requests through their context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListComments returns the comments for a post, in the order the API sends
// them.
func (c *Client) ListComments(ctx context.Context, postID string) ([]comment.Comment, error) {
	var comments []comment.Comment
	if err := c.get(ctx, "/comments?post="+url.QueryEscape(postID), &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		return nil, ErrNotArray
	}
	return comments, nil
}

// AddComment posts a new comment. Any 2xx status is success; the response
// body is not inspected.
func (c *Client) AddComment(ctx context.Context, sub comment.Submission) error {
	return c.post(ctx, "/comments", sub, nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, result, true)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, result, false)
}

// do executes an HTTP request and handles errors. When requireBody is set
// the response must decode into result.
func (c *Client) do(req *http.Request, path string, result interface{}, requireBody bool) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: req.Method, Path: path, StatusCode: resp.StatusCode}
	}

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(respBody) == 0 && !requireBody {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
