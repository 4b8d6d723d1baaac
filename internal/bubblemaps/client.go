// Package bubblemaps fetches token holder graphs from the Bubblemaps API.
package bubblemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-legacy.bubblemaps.io"
	DefaultAppURL  = "https://app.bubblemaps.io"
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes caps a map-data response body.
	DefaultMaxResponseBytes = 32 << 20

	providerName = "bubblemaps"

	// maxErrorBody caps how much of a failed response is kept for logging.
	maxErrorBody = 512
)

// Failure taxonomy. Match with errors.Is.
var (
	// ErrNotComputed means the upstream has no graph for this token yet,
	// or requires an API key for it (HTTP 401).
	ErrNotComputed = errors.New("token not computed yet or API key required")

	// ErrUnsupportedChain means the chain is not served by the upstream.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrTransient covers transport failures, timeouts, rate limiting,
	// server errors and undecodable responses.
	ErrTransient = errors.New("graph provider unavailable")
)

// Client implements graph retrieval over HTTP.
type Client struct {
	baseURL string
	appURL  string
	client  *http.Client
	maxBody int64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxResponseBytes caps the response body size. Larger bodies fail
// with ErrTransient.
func WithMaxResponseBytes(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithAppURL sets the web app base used by MapURL.
func WithAppURL(appURL string) ClientOption {
	return func(c *Client) {
		c.appURL = strings.TrimRight(appURL, "/")
	}
}

// NewClient creates a new graph client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appURL:  DefaultAppURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		maxBody: DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MapURL returns the public bubble map page for a token.
func (c *Client) MapURL(address string, chain domain.Chain) string {
	return fmt.Sprintf("%s/%s/token/%s", c.appURL, chain, address)
}

// FetchGraph retrieves the holder graph for address on chain.
// The returned graph's nodes keep upstream order.
func (c *Client) FetchGraph(ctx context.Context, address string, chain domain.Chain) (graph *domain.HolderGraph, err error) {
	if !chain.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChain, chain)
	}

	start := time.Now()
	defer func() {
		observability.RecordUpstream(providerName, time.Since(start), err)
	}()

	q := url.Values{}
	q.Set("token", address)
	q.Set("chain", chain.String())
	endpoint := c.baseURL + "/map-data?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: http request: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrTransient, c.maxBody)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var raw mapDataResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransient, err)
	}

	return raw.toDomain(chain, address), nil
}

// classifyStatus maps an HTTP status to the failure taxonomy.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return ErrNotComputed
	case status == http.StatusBadRequest, status == http.StatusNotFound:
		return fmt.Errorf("%w: status %d: %s", ErrUnsupportedChain, status, snippet(body))
	default:
		// 429, 5xx and anything unexpected.
		return fmt.Errorf("%w: status %d: %s", ErrTransient, status, snippet(body))
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
