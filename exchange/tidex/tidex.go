// Package tidex adapts the Tidex REST API. Tidex speaks the shared tapi
// protocol for everything except its currency table, which lives on a
// separate web API.
package tidex

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/denniswong34/ccxt/exchange"
	"github.com/denniswong34/ccxt/exchange/tapi"
)

type Exchange struct {
	*tapi.Client
}

// Currency overrides. DRK and DSH are both historical spellings of DASH,
// a documented many-to-one mapping that does not round-trip; their MGO is
// MGO-on-WAVES (WMGO) while EMGO is the ethereum MGO.
var currencyOverrides = map[string]string{
	"XBT":  "BTC",
	"BCC":  "BCH",
	"DRK":  "DASH",
	"DSH":  "DASH",
	"MGO":  "WMGO",
	"EMGO": "MGO",
}

func New(opts exchange.Options) *Exchange {
	info := exchange.Info{
		ID:        "tidex",
		Name:      "Tidex",
		Countries: []string{"UK"},
		Version:   "3",
		RateLimit: 2000 * time.Millisecond,
		URLs: map[string]string{
			"web":     "https://web.tidex.com/api",
			"public":  "https://api.tidex.com/api/3",
			"private": "https://api.tidex.com/tapi",
		},
		Has: map[string]bool{
			"fetchCurrencies":     true,
			"withdraw":            false,
			"fetchDepositAddress": false,
		},
	}
	codes := exchange.NewCodeMapper(currencyOverrides)
	return &Exchange{Client: tapi.New(info, opts, codes, tapi.DefaultMessageRules())}
}

type currencyInfo struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	AmountPoint      int      `json:"amountPoint"`
	Visible          bool     `json:"visible"`
	WithdrawEnable   bool     `json:"withdrawEnable"`
	DepositEnable    bool     `json:"depositEnable"`
	WithdrawFee      *float64 `json:"withdrawFee"`
	WithdrawMinAmout *float64 `json:"withdrawMinAmout"` // sic, their spelling
	DepositMinAmount *float64 `json:"depositMinAmount"`
}

// FetchCurrencies loads the asset table from the web API. A currency is
// active only when it is visible and both funding directions are enabled.
func (e *Exchange) FetchCurrencies(ctx context.Context) (map[string]exchange.Currency, error) {
	core := e.Core()
	u := core.URL("web") + "/currency"
	body, err := core.DoRetry(ctx, "currency", func() (exchange.Request, error) {
		return exchange.Request{Method: http.MethodGet, URL: u}, nil
	})
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed currency response", body)
	}
	result := make(map[string]exchange.Currency, len(rows))
	for _, raw := range rows {
		var cur currencyInfo
		if err := json.Unmarshal(raw, &cur); err != nil {
			continue
		}
		id := cur.Symbol
		code := e.Codes().Canonical(strings.ToUpper(id))
		status := exchange.CurrencyOK
		if !cur.Visible {
			status = exchange.CurrencyDisabled
		}
		active := cur.Visible && cur.WithdrawEnable && cur.DepositEnable
		maxUnit := exchange.Float(exchange.MinFromPrecision(-cur.AmountPoint))
		minUnit := exchange.Float(exchange.MinFromPrecision(cur.AmountPoint))
		result[code] = exchange.Currency{
			ID:        id,
			Code:      code,
			Name:      cur.Name,
			Active:    active,
			Status:    status,
			Precision: cur.AmountPoint,
			Funding: exchange.Funding{
				Withdraw: exchange.FundingChannel{Active: cur.WithdrawEnable, Fee: cur.WithdrawFee},
				Deposit:  exchange.FundingChannel{Active: cur.DepositEnable, Fee: exchange.Float(0)},
			},
			Limits: exchange.CurrencyLimits{
				Amount:   exchange.MinMax{Max: maxUnit},
				Price:    exchange.MinMax{Min: minUnit, Max: maxUnit},
				Withdraw: exchange.MinMax{Min: cur.WithdrawMinAmout},
				Deposit:  exchange.MinMax{Min: cur.DepositMinAmount},
			},
			Info: raw,
		}
	}
	return result, nil
}
