// Package yobit adapts the YoBit REST API, a tapi-protocol exchange with
// deposit-address management and withdrawals on top of the shared
// operation set.
package yobit

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/denniswong34/ccxt/exchange"
	"github.com/denniswong34/ccxt/exchange/tapi"
)

type Exchange struct {
	*tapi.Client
}

// YoBit reuses well-known tickers for unrelated listings; these rename to
// distinct canonical codes so they cannot be confused with the majors.
var currencyOverrides = map[string]string{
	"AIR":  "AIRCOIN",
	"ANI":  "ANICOIN",
	"ANT":  "ANTSCOIN",
	"ATM":  "AUTUMNCOIN",
	"BCC":  "BCH",
	"BCS":  "BITCOINSTAKE",
	"BTS":  "BITSHARES2",
	"DCT":  "DISCOUNT",
	"DGD":  "DARKGOLDCOIN",
	"ICN":  "ICOIN",
	"LIZI": "LIZI",
	"LUN":  "LUNARCOIN",
	"MDT":  "MIDNIGHT",
	"NAV":  "NAVAJOCOIN",
	"OMG":  "OMGAME",
	"PAY":  "EPAY",
	"REP":  "REPUBLICOIN",
}

func New(opts exchange.Options) *Exchange {
	info := exchange.Info{
		ID:        "yobit",
		Name:      "YoBit",
		Countries: []string{"RU"},
		Version:   "3",
		// Responses are cached exchange-side every 2 seconds; pacing
		// tighter than this only returns stale data.
		RateLimit: 3000 * time.Millisecond,
		URLs: map[string]string{
			"public":  "https://yobit.net/api/3",
			"private": "https://yobit.net/tapi",
		},
		Has: map[string]bool{
			"fetchDepositAddress":  true,
			"createDepositAddress": true,
			"withdraw":             true,
		},
	}
	codes := exchange.NewCodeMapper(currencyOverrides)
	return &Exchange{Client: tapi.New(info, opts, codes, tapi.DefaultMessageRules())}
}

type addressResult struct {
	Address string `json:"address"`
}

func (e *Exchange) fetchAddress(ctx context.Context, code string, needNew bool) (exchange.DepositAddress, error) {
	params := url.Values{}
	params.Set("coinName", strings.ToLower(e.Codes().Native(code)))
	if needNew {
		params.Set("need_new", "1")
	} else {
		params.Set("need_new", "0")
	}
	ret, err := e.CallPrivate(ctx, "GetDepositAddress", params)
	if err != nil {
		return exchange.DepositAddress{}, err
	}
	var result addressResult
	if err := json.Unmarshal(ret, &result); err != nil {
		return exchange.DepositAddress{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed GetDepositAddress response", ret)
	}
	if err := checkAddress(e.ID(), result.Address); err != nil {
		return exchange.DepositAddress{}, err
	}
	return exchange.DepositAddress{
		Currency: code,
		Address:  result.Address,
		Status:   "ok",
		Info:     ret,
	}, nil
}

func (e *Exchange) FetchDepositAddress(ctx context.Context, code string) (exchange.DepositAddress, error) {
	return e.fetchAddress(ctx, code, false)
}

// CreateDepositAddress asks the exchange to generate a fresh address.
func (e *Exchange) CreateDepositAddress(ctx context.Context, code string) (exchange.DepositAddress, error) {
	return e.fetchAddress(ctx, code, true)
}

func (e *Exchange) Withdraw(ctx context.Context, code string, amount float64, address string) (exchange.WithdrawResult, error) {
	if err := checkAddress(e.ID(), address); err != nil {
		return exchange.WithdrawResult{}, err
	}
	if err := e.Core().Markets.Ensure(ctx); err != nil {
		return exchange.WithdrawResult{}, err
	}
	params := url.Values{}
	params.Set("coinName", e.Codes().Native(code))
	params.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("address", address)
	ret, err := e.CallPrivate(ctx, "WithdrawCoinsToAddress", params)
	if err != nil {
		return exchange.WithdrawResult{}, err
	}
	// The exchange does not assign withdrawal ids.
	return exchange.WithdrawResult{Info: ret}, nil
}

// checkAddress rejects obviously malformed destinations before any funds
// move: too short, padded, or all one character.
func checkAddress(exchangeID, address string) error {
	trimmed := strings.TrimSpace(address)
	if len(trimmed) < 20 || trimmed != address || strings.Count(address, string(address[0])) == len(address) {
		return exchange.NewAPIError(exchangeID, exchange.ErrExchange, "", "invalid address "+strconv.Quote(address), nil)
	}
	return nil
}
