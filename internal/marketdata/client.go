// Package marketdata fetches token prices and metadata from the
// CoinMarketCap Pro API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://pro-api.coinmarketcap.com/v2"
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes caps an info or quotes response body.
	DefaultMaxResponseBytes = 4 << 20

	apiKeyHeader  = "X-CMC_PRO_API_KEY"
	providerName  = "marketdata"
	quoteCurrency = "USD"
)

var (
	// ErrUnsupportedChain means the chain has no CoinMarketCap platform.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrTokenNotFound means CoinMarketCap does not list the address.
	ErrTokenNotFound = errors.New("could not find token on CoinMarketCap")

	// ErrUnauthorized means the API key is missing or rejected.
	ErrUnauthorized = errors.New("market data API key rejected")

	// ErrTransient covers transport failures, rate limiting and server errors.
	ErrTransient = errors.New("market data provider unavailable")
)

// platforms maps chain codes to CoinMarketCap platform slugs.
var platforms = map[domain.Chain]string{
	domain.ChainEthereum:  "ethereum",
	domain.ChainBSC:       "binance-smart-chain",
	domain.ChainFantom:    "fantom",
	domain.ChainAvalanche: "avalanche",
	domain.ChainCronos:    "cronos",
	domain.ChainArbitrum:  "arbitrum-one",
	domain.ChainPolygon:   "polygon-pos",
	domain.ChainBase:      "base",
	domain.ChainSolana:    "solana",
	domain.ChainSonic:     "sonic",
}

// Platform returns the CoinMarketCap platform slug for chain.
func Platform(chain domain.Chain) (string, bool) {
	p, ok := platforms[chain]
	return p, ok
}

// Client implements market data retrieval over HTTP.
type Client struct {
	baseURL string
	apiKey  string
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

// NewClient creates a new market data client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		maxBody: DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTokenInfo resolves address to a CoinMarketCap listing and returns
// its metadata and latest USD quote.
func (c *Client) FetchTokenInfo(ctx context.Context, address string, chain domain.Chain) (info *domain.TokenInfo, err error) {
	if _, ok := Platform(chain); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChain, chain)
	}

	start := time.Now()
	defer func() {
		observability.RecordUpstream(providerName, time.Since(start), err)
	}()

	meta, err := c.fetchInfo(ctx, address)
	if err != nil {
		return nil, err
	}

	quote, err := c.fetchQuote(ctx, meta.ID)
	if err != nil {
		return nil, err
	}

	return buildTokenInfo(meta, quote), nil
}

// fetchInfo calls /cryptocurrency/info and picks one listing.
func (c *Client) fetchInfo(ctx context.Context, address string) (*infoEntry, error) {
	q := url.Values{}
	q.Set("address", address)

	var resp infoResponse
	if err := c.get(ctx, "/cryptocurrency/info", q, &resp); err != nil {
		return nil, err
	}

	entry := resp.pick()
	if entry == nil || entry.ID == 0 {
		return nil, ErrTokenNotFound
	}
	return entry, nil
}

// fetchQuote calls /cryptocurrency/quotes/latest for id.
func (c *Client) fetchQuote(ctx context.Context, id int64) (*quoteEntry, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	q.Set("convert", quoteCurrency)

	var resp quotesResponse
	if err := c.get(ctx, "/cryptocurrency/quotes/latest", q, &resp); err != nil {
		return nil, err
	}

	entry, err := resp.lookup(id)
	if err != nil {
		return nil, fmt.Errorf("%w: decode quote: %v", ErrTransient, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: no quote for id %d", ErrTokenNotFound, id)
	}
	if _, ok := entry.Quote[quoteCurrency]; !ok {
		return nil, fmt.Errorf("%w: no %s quote for id %d", ErrTokenNotFound, quoteCurrency, id)
	}
	return entry, nil
}

// get performs one GET and decodes a 200 body into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: http request: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}
	if int64(len(body)) > c.maxBody {
		return fmt.Errorf("%w: response exceeds %d bytes", ErrTransient, c.maxBody)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, statusMessage(body))
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrTokenNotFound, statusMessage(body))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrTransient, resp.StatusCode, statusMessage(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransient, err)
	}
	return nil
}

// statusMessage extracts status.error_message from an error body.
func statusMessage(body []byte) string {
	var env struct {
		Status apiStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Status.ErrorMessage != "" {
		return env.Status.ErrorMessage
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

func buildTokenInfo(meta *infoEntry, entry *quoteEntry) *domain.TokenInfo {
	usd := entry.Quote[quoteCurrency]
	info := &domain.TokenInfo{
		ID:                meta.ID,
		Name:              meta.Name,
		Symbol:            meta.Symbol,
		Description:       meta.Description,
		Website:           first(meta.URLs.Website),
		Explorer:          first(meta.URLs.Explorer),
		Twitter:           first(meta.URLs.Twitter),
		Price:             usd.Price,
		PercentChange24h:  usd.PercentChange24h,
		MarketCap:         usd.MarketCap,
		Volume24h:         usd.Volume24h,
		CirculatingSupply: entry.CirculatingSupply,
		TotalSupply:       entry.TotalSupply,
	}
	if entry.Name != "" {
		info.Name = entry.Name
	}
	if entry.Symbol != "" {
		info.Symbol = entry.Symbol
	}
	return info
}

func first(urls []string) string {
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}
