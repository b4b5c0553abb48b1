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

type marketInfo struct {
	AmountScale int `json:"amountScale"`
	PriceScale  int `json:"priceScale"`
}

func (e *Exchange) loadMarkets(ctx context.Context) ([]exchange.Market, error) {
	body, err := e.callPublic(ctx, "markets", nil)
	if err != nil {
		return nil, err
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed markets response", body)
	}
	markets := make([]exchange.Market, 0, len(resp))
	for id, raw := range resp {
		var m marketInfo
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		parts := strings.Split(id, "_")
		if len(parts) != 2 {
			continue
		}
		baseID, quoteID := parts[0], parts[1]
		base := e.codes.Canonical(baseID)
		quote := e.codes.Canonical(quoteID)
		lot := exchange.MinFromPrecision(m.AmountScale)
		markets = append(markets, exchange.Market{
			ID:      id,
			Symbol:  base + "/" + quote,
			Base:    base,
			Quote:   quote,
			BaseID:  baseID,
			QuoteID: quoteID,
			Active:  true,
			Precision: exchange.Precision{
				Amount: m.AmountScale,
				Price:  m.PriceScale,
			},
			Limits: exchange.MarketLimits{
				Amount: exchange.MinMax{Min: exchange.Float(lot)},
				Price:  exchange.MinMax{Min: exchange.Float(exchange.MinFromPrecision(m.PriceScale))},
				Cost:   exchange.MinMax{Min: exchange.Float(0)},
			},
			Info: raw,
		})
	}
	return markets, nil
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]exchange.Market, error) {
	return e.core.Markets.All(ctx)
}

type tickerInfo struct {
	High string `json:"high"`
	Low  string `json:"low"`
	Buy  string `json:"buy"`
	Sell string `json:"sell"`
	Last string `json:"last"`
	Vol  string `json:"vol"`
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (exchange.Ticker, error) {
	market, err := e.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.Ticker{}, err
	}
	params := url.Values{}
	params.Set("market", market.ID)
	body, err := e.callPublic(ctx, "ticker", params)
	if err != nil {
		return exchange.Ticker{}, err
	}
	var resp struct {
		Ticker json.RawMessage `json:"ticker"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Ticker == nil {
		return exchange.Ticker{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed ticker response", body)
	}
	var t tickerInfo
	if err := json.Unmarshal(resp.Ticker, &t); err != nil {
		return exchange.Ticker{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed ticker payload", body)
	}
	return exchange.Ticker{
		Symbol:     symbol,
		Timestamp:  time.Now().UnixMilli(),
		Bid:        exchange.ParseFloat(t.Buy),
		Ask:        exchange.ParseFloat(t.Sell),
		Last:       exchange.ParseFloat(t.Last),
		High:       exchange.ParseFloat(t.High),
		Low:        exchange.ParseFloat(t.Low),
		BaseVolume: exchange.ParseFloat(t.Vol),
		Info:       resp.Ticker,
	}, nil
}

// FetchTickers walks the whole market list one request at a time; the
// per-instance limiter paces the loop and transient throttling retries
// are already bounded at the transport layer.
func (e *Exchange) FetchTickers(ctx context.Context) (map[string]exchange.Ticker, error) {
	markets, err := e.core.Markets.All(ctx)
	if err != nil {
		return nil, err
	}
	tickers := make(map[string]exchange.Ticker, len(markets))
	for _, market := range markets {
		ticker, err := e.FetchTicker(ctx, market.Symbol)
		if err != nil {
			return nil, err
		}
		tickers[market.Symbol] = ticker
	}
	return tickers, nil
}

type depthInfo struct {
	Asks      [][]float64 `json:"asks"`
	Bids      [][]float64 `json:"bids"`
	Timestamp int64       `json:"timestamp"`
}

func (e *Exchange) FetchOrderBook(ctx context.Context, symbol string) (exchange.OrderBook, error) {
	market, err := e.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.OrderBook{}, err
	}
	params := url.Values{}
	params.Set("market", market.ID)
	body, err := e.callPublic(ctx, "depth", params)
	if err != nil {
		return exchange.OrderBook{}, err
	}
	var d depthInfo
	if err := json.Unmarshal(body, &d); err != nil {
		return exchange.OrderBook{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed depth response", body)
	}
	book := exchange.OrderBook{
		Bids:      levels(d.Bids),
		Asks:      levels(d.Asks),
		Timestamp: time.Now().UnixMilli(),
		Info:      body,
	}
	// The exchange reports asks high-to-low; canonical order is enforced
	// either way.
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
	Amount    string `json:"amount"`
	Price     string `json:"price"`
	TID       int64  `json:"tid"`
	Date      int64  `json:"date"`
	TradeType string `json:"trade_type"`
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	market, err := e.core.Markets.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("market", market.ID)
	body, err := e.callPublic(ctx, "trades", params)
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed trades response", body)
	}
	trades := make([]exchange.Trade, 0, len(rows))
	for _, raw := range rows {
		var t tradeInfo
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		side := exchange.Sell
		if t.TradeType == "bid" {
			side = exchange.Buy
		}
		trades = append(trades, exchange.Trade{
			ID:        strconv.FormatInt(t.TID, 10),
			Timestamp: t.Date * 1000,
			Symbol:    symbol,
			Side:      side,
			Price:     exchange.ParseFloat(t.Price),
			Amount:    exchange.ParseFloat(t.Amount),
			Info:      raw,
		})
	}
	return trades, nil
}

// FetchOHLCV loads candles for one of the supported timeframes.
func (e *Exchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]exchange.OHLCV, error) {
	market, err := e.core.Markets.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	native, ok := timeframes[timeframe]
	if !ok {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "unsupported timeframe "+timeframe, nil)
	}
	if limit <= 0 {
		limit = 1000
	}
	params := url.Values{}
	params.Set("market", market.ID)
	params.Set("type", native)
	params.Set("limit", strconv.Itoa(limit))
	if since > 0 {
		params.Set("since", strconv.FormatInt(since, 10))
	}
	body, err := e.callPublic(ctx, "kline", params)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data [][]float64 `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed kline response", body)
	}
	candles := make([]exchange.OHLCV, 0, len(resp.Data))
	for _, row := range resp.Data {
		if len(row) < 6 {
			continue
		}
		candles = append(candles, exchange.OHLCV{
			Timestamp: int64(row[0]),
			Open:      row[1],
			High:      row[2],
			Low:       row[3],
			Close:     row[4],
			Volume:    row[5],
		})
	}
	return candles, nil
}
