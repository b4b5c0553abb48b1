// Package zb adapts the ZB REST API: public market data under /data/v1
// and a private API signed with an MD5-HMAC over the sorted query string,
// keyed by the SHA1 of the secret.
package zb

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/denniswong34/ccxt/exchange"
)

type Exchange struct {
	core  *exchange.Client
	codes exchange.CodeMapper
}

const successCode = "1000"

// errorCodes maps the documented numeric failure codes to canonical
// kinds. Anything undocumented and non-success classifies as a generic
// exchange error.
var errorCodes = map[string]error{
	"1001": exchange.ErrExchange,             // general error message
	"1002": exchange.ErrExchange,             // internal error
	"1003": exchange.ErrAuthentication,       // verification does not pass
	"1004": exchange.ErrAuthentication,       // funding security password lock
	"1005": exchange.ErrAuthentication,       // funds password incorrect
	"1006": exchange.ErrAuthentication,       // real-name certification pending
	"1009": exchange.ErrExchangeNotAvailable, // interface under maintenance
	"2001": exchange.ErrInsufficientFunds,
	"2002": exchange.ErrInsufficientFunds,
	"2003": exchange.ErrInsufficientFunds,
	"2005": exchange.ErrInsufficientFunds,
	"2006": exchange.ErrInsufficientFunds,
	"2007": exchange.ErrInsufficientFunds,
	"2009": exchange.ErrInsufficientFunds,
	"3001": exchange.ErrOrderNotFound, // pending orders not found
	"3002": exchange.ErrInvalidOrder,  // invalid price
	"3003": exchange.ErrInvalidOrder,  // invalid amount
	"3004": exchange.ErrAuthentication,
	"3005": exchange.ErrExchange, // invalid parameter
	"3006": exchange.ErrAuthentication, // invalid or unbound IP
	"3007": exchange.ErrAuthentication, // request time expired
	"3008": exchange.ErrOrderNotFound,  // transaction records not found
	"4001": exchange.ErrExchangeNotAvailable, // API locked or not enabled
	"4002": exchange.ErrDDoSProtection,       // request too often
}

var timeframes = map[string]string{
	"1m":  "1min",
	"3m":  "3min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1hour",
	"2h":  "2hour",
	"4h":  "4hour",
	"6h":  "6hour",
	"12h": "12hour",
	"1d":  "1day",
	"3d":  "3day",
	"1w":  "1week",
}

func New(opts exchange.Options) *Exchange {
	info := exchange.Info{
		ID:        "zb",
		Name:      "ZB",
		Countries: []string{"CN"},
		Version:   "v1",
		RateLimit: 1000 * time.Millisecond,
		URLs: map[string]string{
			// Their public API is plain http only.
			"public":  "http://api.zb.com/data",
			"private": "https://trade.zb.com/api",
		},
		Has: map[string]bool{
			"fetchOHLCV":          true,
			"fetchTickers":        true,
			"createMarketOrder":   false,
			"withdraw":            true,
			"fetchDepositAddress": true,
		},
	}
	e := &Exchange{codes: exchange.NewCodeMapper(nil)}
	e.core = exchange.NewClient(info, opts, classify("zb"))
	e.core.Markets = exchange.NewMarketCache("zb", e.loadMarkets)
	return e
}

func (e *Exchange) ID() string { return e.core.ID() }

// Core exposes the composed engine, chiefly for tests.
func (e *Exchange) Core() *exchange.Client { return e.core }

// classify inspects every response body for an embedded numeric code;
// ZB reports failures under HTTP 200. Bodies without a code field (all
// public market data) fall through untouched.
func classify(exchangeID string) exchange.Classifier {
	return func(status int, body []byte) error {
		trimmed := strings.TrimSpace(string(body))
		if len(trimmed) < 2 || trimmed[0] != '{' {
			return nil
		}
		var frame struct {
			Code *json.Number `json:"code"`
		}
		if err := json.Unmarshal(body, &frame); err != nil || frame.Code == nil {
			return nil
		}
		code := frame.Code.String()
		if code == successCode {
			return nil
		}
		message := messageText(body)
		if kind, ok := errorCodes[code]; ok {
			return exchange.NewAPIError(exchangeID, kind, code, message, body)
		}
		return exchange.NewAPIError(exchangeID, exchange.ErrExchange, code, message, body)
	}
}

func messageText(body []byte) string {
	var frame struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &frame); err == nil && frame.Message != "" {
		return frame.Message
	}
	return string(body)
}

// callPublic issues a GET against /data/<version>/<path>.
func (e *Exchange) callPublic(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := e.core.URL("public") + "/" + e.core.Info().Version + "/" + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return e.core.DoRetry(ctx, path, func() (exchange.Request, error) {
		return exchange.Request{Method: "GET", URL: u}, nil
	})
}

// callPrivate signs and issues a private call. The signature chain: sort
// the parameters (method and accesskey included), raw-encode them, hash
// the secret with SHA1, then HMAC-MD5 the encoded string with that
// hashed secret; sign and reqTime ride as trailing query fields. Each
// retry attempt re-signs with a fresh nonce.
func (e *Exchange) callPrivate(ctx context.Context, httpMethod, path string, params url.Values) ([]byte, error) {
	if err := e.core.RequireCredentials(); err != nil {
		return nil, err
	}
	return e.core.DoRetry(ctx, path, func() (exchange.Request, error) {
		key, secret := e.core.Credentials()
		query := url.Values{}
		for k, vs := range params {
			for _, v := range vs {
				query.Add(k, v)
			}
		}
		query.Set("method", path)
		query.Set("accesskey", key)
		auth := exchange.RawEncodeSorted(query)
		signature := exchange.HMACMD5Hex(auth, exchange.SHA1Hex(secret))
		nonce := strconv.FormatInt(e.core.Nonce(), 10)
		u := e.core.URL("private") + "/" + path + "?" + auth + "&sign=" + signature + "&reqTime=" + nonce
		return exchange.Request{Method: httpMethod, URL: u}, nil
	})
}
