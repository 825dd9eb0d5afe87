package quoteapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vango-dev/kite/internal/quotes"
)

// Fetcher fetches one quote.
type Fetcher interface {
	Fetch(ctx context.Context) (quotes.Quote, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (quotes.Quote, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context) (quotes.Quote, error) { return f(ctx) }

// StatusError is returned for non-2xx responses. Its message is the error
// text the API sent, or the status line.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Client fetches quotes from a quote API endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch performs GET on the endpoint and decodes {content, author}.
func (c *Client) Fetch(ctx context.Context) (quotes.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return quotes.Quote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return quotes.Quote{}, err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, 1<<20)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return quotes.Quote{}, &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
		}
		return quotes.Quote{}, &StatusError{Code: resp.StatusCode, Message: "quote api: " + resp.Status}
	}

	var q quotes.Quote
	if err := json.NewDecoder(body).Decode(&q); err != nil {
		return quotes.Quote{}, fmt.Errorf("quote api: decode: %w", err)
	}
	return q, nil
}
