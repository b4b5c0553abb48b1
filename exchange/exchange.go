// Package exchange holds the canonical data model and the shared engine
// every adapter composes with: market metadata caching, currency code
// mapping, request pacing, nonce generation, response classification, and
// normalization helpers.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/denniswong34/ccxt/internal/metrics"
)

// Exchange is the canonical operation set every adapter implements.
// Operations an exchange does not support return ErrNotSupported.
type Exchange interface {
	ID() string
	FetchMarkets(ctx context.Context) ([]Market, error)
	FetchTicker(ctx context.Context, symbol string) (Ticker, error)
	FetchOrderBook(ctx context.Context, symbol string) (OrderBook, error)
	FetchTrades(ctx context.Context, symbol string) ([]Trade, error)
	FetchBalance(ctx context.Context) (Balances, error)
	CreateOrder(ctx context.Context, symbol string, typ OrderType, side Side, amount float64, price *float64) (Order, error)
	CancelOrder(ctx context.Context, id, symbol string) error
	FetchOrder(ctx context.Context, id, symbol string) (Order, error)
	FetchOrders(ctx context.Context, symbol string) ([]Order, error)
	FetchOpenOrders(ctx context.Context, symbol string) ([]Order, error)
	Withdraw(ctx context.Context, code string, amount float64, address string) (WithdrawResult, error)
	FetchDepositAddress(ctx context.Context, code string) (DepositAddress, error)
}

// CurrencyFetcher is implemented by adapters whose exchange publishes a
// currency metadata table.
type CurrencyFetcher interface {
	FetchCurrencies(ctx context.Context) (map[string]Currency, error)
}

// Doer executes an outbound HTTP request. The default is *http.Client;
// tests substitute their own.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Classifier inspects a raw response before any success-path parsing and
// returns the classified error, or nil for a healthy payload. It must
// catch embedded failure flags under HTTP 200.
type Classifier func(status int, body []byte) error

// Info is the static per-exchange description: identity, endpoint
// sections, pacing, and capability flags.
type Info struct {
	ID        string
	Name      string
	Countries []string
	Version   string
	RateLimit time.Duration
	URLs      map[string]string
	Has       map[string]bool
}

// Options carries caller-supplied settings layered over an adapter's
// built-in Info by mergeInfo. An option field replaces the base value
// outright; URL entries override per section key.
type Options struct {
	APIKey      string
	Secret      string
	URLs        map[string]string
	RateLimit   time.Duration
	HTTPTimeout time.Duration
	MaxTries    uint
	Transport   Doer
}

const defaultHTTPTimeout = 15 * time.Second

// mergeInfo layers caller options over the adapter's base description.
// Pure: neither input is mutated.
func mergeInfo(base Info, opts Options) Info {
	merged := base
	merged.URLs = make(map[string]string, len(base.URLs))
	for k, v := range base.URLs {
		merged.URLs[k] = v
	}
	for k, v := range opts.URLs {
		merged.URLs[k] = v
	}
	if opts.RateLimit > 0 {
		merged.RateLimit = opts.RateLimit
	}
	return merged
}

// Client is the generic adapter core. One instance owns one unit of
// mutable state: the market cache, the nonce counter, and the rate
// limiter slot. Instances do not coordinate with each other.
type Client struct {
	info     Info
	apiKey   string
	secret   string
	http     Doer
	limiter  *RateLimiter
	nonce    nonceSource
	classify Classifier
	maxTries uint

	// Markets is installed by the adapter once its loader exists.
	Markets *MarketCache
}

func NewClient(info Info, opts Options, classify Classifier) *Client {
	info = mergeInfo(info, opts)
	transport := opts.Transport
	if transport == nil {
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		transport = &http.Client{Timeout: timeout}
	}
	maxTries := opts.MaxTries
	if maxTries == 0 {
		maxTries = 1
	}
	return &Client{
		info:     info,
		apiKey:   opts.APIKey,
		secret:   opts.Secret,
		http:     transport,
		limiter:  NewRateLimiter(info.RateLimit),
		classify: classify,
		maxTries: maxTries,
	}
}

func (c *Client) ID() string { return c.info.ID }

func (c *Client) Info() Info { return c.info }

// URL returns the base URL for an endpoint section ("public", "private",
// "web", ...).
func (c *Client) URL(section string) string {
	return strings.TrimRight(c.info.URLs[section], "/")
}

// Has reports a capability flag from the exchange description.
func (c *Client) Has(feature string) bool { return c.info.Has[feature] }

// Credentials returns the API key and secret for request signing.
func (c *Client) Credentials() (key, secret string) { return c.apiKey, c.secret }

// RequireCredentials guards private calls before any network traffic.
func (c *Client) RequireCredentials() error {
	if c.apiKey == "" || c.secret == "" {
		return NewAPIError(c.info.ID, ErrAuthentication, "", "api key and secret required", nil)
	}
	return nil
}

// Nonce returns the next non-decreasing nonce for this instance.
func (c *Client) Nonce() int64 { return c.nonce.Next() }

// MaxTries is the retry cap applied by DoRetry.
func (c *Client) MaxTries() uint { return c.maxTries }

// Do throttles, executes, and classifies one request. The classifier runs
// before any success-path parsing; transport failures propagate as plain
// errors, never reinterpreted into the exchange taxonomy.
func (c *Client) Do(ctx context.Context, endpoint string, req Request) ([]byte, error) {
	wait, err := c.limiter.Wait(ctx)
	if wait > 0 {
		metrics.ThrottleWaitSeconds.WithLabelValues(c.info.ID).Observe(wait.Seconds())
	}
	if err != nil {
		return nil, err
	}
	metrics.RequestsTotal.WithLabelValues(c.info.ID, endpoint).Inc()

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.info.ID, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(c.info.ID, "transport").Inc()
		return nil, fmt.Errorf("%s: transport: %w", c.info.ID, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(c.info.ID, "transport").Inc()
		return nil, fmt.Errorf("%s: read response: %w", c.info.ID, err)
	}
	if c.classify != nil {
		if cerr := c.classify(resp.StatusCode, body); cerr != nil {
			metrics.ErrorsTotal.WithLabelValues(c.info.ID, KindLabel(cerr)).Inc()
			return nil, cerr
		}
	}
	if resp.StatusCode/100 != 2 {
		cerr := NewAPIError(c.info.ID, ErrExchange, "", fmt.Sprintf("http status %d", resp.StatusCode), body)
		metrics.ErrorsTotal.WithLabelValues(c.info.ID, KindLabel(cerr)).Inc()
		return nil, cerr
	}
	return body, nil
}

// DoRetry wraps Do with bounded transient-error retry. build runs once
// per attempt so signed requests pick up a fresh nonce.
func (c *Client) DoRetry(ctx context.Context, endpoint string, build func() (Request, error)) ([]byte, error) {
	return RetryTransient(ctx, c.maxTries, func() ([]byte, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}
		return c.Do(ctx, endpoint, req)
	})
}

// KindLabel names an error's canonical kind for metrics.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidOrder):
		return "invalid_order"
	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ErrExchangeNotAvailable):
		return "exchange_not_available"
	case errors.Is(err, ErrDDoSProtection):
		return "ddos_protection"
	case errors.Is(err, ErrNotSupported):
		return "not_supported"
	default:
		return "exchange_error"
	}
}
