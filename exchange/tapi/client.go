// Package tapi implements the BTC-e-style wire protocol shared by a
// family of exchanges: versioned public GET endpoints plus a single
// private POST endpoint multiplexed through a "method" form field, signed
// with HMAC-SHA512 over the url-encoded body. Adapters compose a Client
// with their own currency tables and error rules instead of subclassing.
package tapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/denniswong34/ccxt/exchange"
)

type Client struct {
	core  *exchange.Client
	codes exchange.CodeMapper
}

// MessageRules maps lowercased exchange error messages to canonical
// kinds: exact matches first, then substring rules.
type MessageRules struct {
	Exact     map[string]error
	Substring map[string]error
}

// DefaultMessageRules covers the failure messages the protocol family
// shares. "not available" and "external service unavailable" are
// maintenance signals the exchanges emit while throttling, so they are
// treated as retryable.
func DefaultMessageRules() MessageRules {
	return MessageRules{
		Exact: map[string]error{
			"requests too often":           exchange.ErrDDoSProtection,
			"not available":                exchange.ErrDDoSProtection,
			"external service unavailable": exchange.ErrDDoSProtection,
		},
		Substring: map[string]error{
			"insufficient funds": exchange.ErrInsufficientFunds,
			"invalid pair name":  exchange.ErrExchange,
		},
	}
}

func New(info exchange.Info, opts exchange.Options, codes exchange.CodeMapper, rules MessageRules) *Client {
	c := &Client{codes: codes}
	c.core = exchange.NewClient(info, opts, Classify(info.ID, rules))
	c.core.Markets = exchange.NewMarketCache(info.ID, c.loadMarkets)
	return c
}

// Core exposes the composed engine to adapters layered on top.
func (c *Client) Core() *exchange.Client { return c.core }

func (c *Client) Codes() exchange.CodeMapper { return c.codes }

func (c *Client) ID() string { return c.core.ID() }

// envelope is the private-API response frame. Success 0 is caught by the
// classifier before this is ever parsed.
type envelope struct {
	Success int             `json:"success"`
	Return  json.RawMessage `json:"return"`
	Error   string          `json:"error"`
}

// Classify catches the embedded {"success":0,"error":...} failure frame,
// which the exchanges return under HTTP 200. Malformed bodies fall
// through to the generic transport path.
func Classify(exchangeID string, rules MessageRules) exchange.Classifier {
	return func(status int, body []byte) error {
		trimmed := strings.TrimSpace(string(body))
		if len(trimmed) < 2 || trimmed[0] != '{' {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil
		}
		if env.Success != 0 || env.Error == "" {
			return nil
		}
		msg := strings.ToLower(strings.TrimSpace(env.Error))
		if kind, ok := rules.Exact[msg]; ok {
			return exchange.NewAPIError(exchangeID, kind, "", env.Error, body)
		}
		for substr, kind := range rules.Substring {
			if strings.Contains(msg, substr) {
				return exchange.NewAPIError(exchangeID, kind, "", env.Error, body)
			}
		}
		return exchange.NewAPIError(exchangeID, exchange.ErrExchange, "", env.Error, body)
	}
}

// CallPublic issues a GET against the versioned public API.
func (c *Client) CallPublic(ctx context.Context, path string) ([]byte, error) {
	u := c.core.URL("public") + "/" + path
	return c.core.DoRetry(ctx, path, func() (exchange.Request, error) {
		return exchange.Request{Method: http.MethodGet, URL: u}, nil
	})
}

// CallPrivate issues a signed POST for the named method and returns the
// payload under "return". Each retry attempt re-signs with a fresh nonce.
func (c *Client) CallPrivate(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if err := c.core.RequireCredentials(); err != nil {
		return nil, err
	}
	body, err := c.core.DoRetry(ctx, method, func() (exchange.Request, error) {
		form := url.Values{}
		for k, vs := range params {
			for _, v := range vs {
				form.Add(k, v)
			}
		}
		form.Set("method", method)
		form.Set("nonce", strconv.FormatInt(c.core.Nonce(), 10))
		encoded := form.Encode()
		key, secret := c.core.Credentials()
		header := http.Header{}
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		header.Set("Key", key)
		header.Set("Sign", exchange.HMACSHA512Hex(encoded, secret))
		return exchange.Request{
			Method: http.MethodPost,
			URL:    c.core.URL("private"),
			Header: header,
			Body:   encoded,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed private response", body)
	}
	return env.Return, nil
}
