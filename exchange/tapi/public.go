package tapi

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/denniswong34/ccxt/exchange"
)

type pairInfo struct {
	DecimalPlaces int      `json:"decimal_places"`
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	MinAmount     *float64 `json:"min_amount"`
	MaxAmount     *float64 `json:"max_amount"`
	MinTotal      *float64 `json:"min_total"`
	Hidden        int      `json:"hidden"`
	Fee           *float64 `json:"fee"`
}

type infoResponse struct {
	ServerTime int64                      `json:"server_time"`
	Pairs      map[string]json.RawMessage `json:"pairs"`
}

func (c *Client) loadMarkets(ctx context.Context) ([]exchange.Market, error) {
	body, err := c.CallPublic(ctx, "info")
	if err != nil {
		return nil, err
	}
	var resp infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed info response", body)
	}
	markets := make([]exchange.Market, 0, len(resp.Pairs))
	seen := make(map[string]bool, len(resp.Pairs))
	for id, raw := range resp.Pairs {
		var pair pairInfo
		if err := json.Unmarshal(raw, &pair); err != nil {
			continue
		}
		baseID, quoteID, ok := splitPair(id)
		if !ok {
			continue
		}
		base := c.codes.Canonical(baseID)
		quote := c.codes.Canonical(quoteID)
		symbol := base + "/" + quote
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		markets = append(markets, exchange.Market{
			ID:      id,
			Symbol:  symbol,
			Base:    base,
			Quote:   quote,
			BaseID:  baseID,
			QuoteID: quoteID,
			Active:  pair.Hidden == 0,
			Precision: exchange.Precision{
				Amount: pair.DecimalPlaces,
				Price:  pair.DecimalPlaces,
			},
			Limits: exchange.MarketLimits{
				Amount: exchange.MinMax{Min: pair.MinAmount, Max: pair.MaxAmount},
				Price:  exchange.MinMax{Min: pair.MinPrice, Max: pair.MaxPrice},
				Cost:   exchange.MinMax{Min: pair.MinTotal},
			},
			Info: raw,
		})
	}
	return markets, nil
}

func splitPair(id string) (base, quote string, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.ToUpper(parts[0]), strings.ToUpper(parts[1]), true
}

func (c *Client) FetchMarkets(ctx context.Context) ([]exchange.Market, error) {
	return c.core.Markets.All(ctx)
}

type tickerInfo struct {
	High    *float64 `json:"high"`
	Low     *float64 `json:"low"`
	Avg     *float64 `json:"avg"`
	Vol     *float64 `json:"vol"`
	VolCur  *float64 `json:"vol_cur"`
	Last    *float64 `json:"last"`
	Buy     *float64 `json:"buy"`
	Sell    *float64 `json:"sell"`
	Updated int64    `json:"updated"`
}

func (c *Client) FetchTicker(ctx context.Context, symbol string) (exchange.Ticker, error) {
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.Ticker{}, err
	}
	body, err := c.CallPublic(ctx, "ticker/"+market.ID)
	if err != nil {
		return exchange.Ticker{}, err
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return exchange.Ticker{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed ticker response", body)
	}
	raw, ok := resp[market.ID]
	if !ok {
		return exchange.Ticker{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "ticker missing pair "+market.ID, body)
	}
	var t tickerInfo
	if err := json.Unmarshal(raw, &t); err != nil {
		return exchange.Ticker{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed ticker payload", body)
	}
	// vol is quoted in the quote currency, vol_cur in the base.
	return exchange.Ticker{
		Symbol:      symbol,
		Timestamp:   t.Updated * 1000,
		Bid:         t.Buy,
		Ask:         t.Sell,
		Last:        t.Last,
		High:        t.High,
		Low:         t.Low,
		BaseVolume:  t.VolCur,
		QuoteVolume: t.Vol,
		Info:        raw,
	}, nil
}

type depthInfo struct {
	Asks [][]float64 `json:"asks"`
	Bids [][]float64 `json:"bids"`
}

func (c *Client) FetchOrderBook(ctx context.Context, symbol string) (exchange.OrderBook, error) {
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.OrderBook{}, err
	}
	body, err := c.CallPublic(ctx, "depth/"+market.ID)
	if err != nil {
		return exchange.OrderBook{}, err
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return exchange.OrderBook{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed depth response", body)
	}
	raw, ok := resp[market.ID]
	if !ok {
		return exchange.OrderBook{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "depth missing pair "+market.ID, body)
	}
	var d depthInfo
	if err := json.Unmarshal(raw, &d); err != nil {
		return exchange.OrderBook{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed depth payload", body)
	}
	book := exchange.OrderBook{
		Bids:      levels(d.Bids),
		Asks:      levels(d.Asks),
		Timestamp: nowMillis(),
		Info:      raw,
	}
	exchange.SortOrderBook(&book)
	return book, nil
}

func levels(rows [][]float64) []exchange.BookLevel {
	out := make([]exchange.BookLevel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		out = append(out, exchange.BookLevel{Price: row[0], Amount: row[1]})
	}
	return out
}

type tradeInfo struct {
	Type      string   `json:"type"`
	Price     *float64 `json:"price"`
	Amount    *float64 `json:"amount"`
	TID       int64    `json:"tid"`
	Timestamp int64    `json:"timestamp"`
}

func (c *Client) FetchTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	body, err := c.CallPublic(ctx, "trades/"+market.ID)
	if err != nil {
		return nil, err
	}
	var resp map[string][]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed trades response", body)
	}
	rows := resp[market.ID]
	trades := make([]exchange.Trade, 0, len(rows))
	for _, raw := range rows {
		var t tradeInfo
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		side := exchange.Buy
		if t.Type == "ask" {
			side = exchange.Sell
		}
		trades = append(trades, exchange.Trade{
			ID:        strconv.FormatInt(t.TID, 10),
			Timestamp: t.Timestamp * 1000,
			Symbol:    symbol,
			Side:      side,
			Price:     t.Price,
			Amount:    t.Amount,
			Info:      raw,
		})
	}
	return trades, nil
}
