package zb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/denniswong34/ccxt/exchange"
)

type coinBalance struct {
	Key       string `json:"key"`
	EnName    string `json:"enName"`
	Available string `json:"available"`
	Freez     string `json:"freez"`
}

func (e *Exchange) FetchBalance(ctx context.Context) (exchange.Balances, error) {
	if err := e.core.Markets.Ensure(ctx); err != nil {
		return exchange.Balances{}, err
	}
	body, err := e.callPrivate(ctx, http.MethodPost, "getAccountInfo", nil)
	if err != nil {
		return exchange.Balances{}, err
	}
	var resp struct {
		Result struct {
			Coins []coinBalance `json:"coins"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return exchange.Balances{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed getAccountInfo response", body)
	}
	accounts := make(map[string]exchange.Account, len(resp.Result.Coins))
	for _, coin := range resp.Result.Coins {
		code := e.codes.Canonical(coin.EnName)
		acct := exchange.Account{
			Free: exchange.ParseFloat(coin.Available),
			Used: exchange.ParseFloat(coin.Freez),
		}
		if acct.Free != nil && acct.Used != nil {
			acct.Total = exchange.Float(*acct.Free + *acct.Used)
		}
		accounts[code] = acct
	}
	return exchange.Balances{Accounts: accounts, Info: body}, nil
}

// ParseOrderStatus maps ZB's numeric order states; 3 is a partial fill
// still resting on the book.
func ParseOrderStatus(status int) exchange.OrderStatus {
	switch status {
	case 1:
		return exchange.OrderCanceled
	case 2:
		return exchange.OrderClosed
	default:
		return exchange.OrderOpen
	}
}

type orderInfo struct {
	ID          json.Number `json:"id"`
	Currency    string      `json:"currency"`
	Price       *float64    `json:"price"`
	Status      int         `json:"status"`
	TotalAmount *float64    `json:"total_amount"`
	TradeAmount *float64    `json:"trade_amount"`
	TradeDate   int64       `json:"trade_date"`
	TradeMoney  *float64    `json:"trade_money"`
	TradePrice  *float64    `json:"trade_price"`
	Type        int         `json:"type"`
}

func (e *Exchange) parseOrder(ctx context.Context, raw json.RawMessage) (exchange.Order, error) {
	var o orderInfo
	if err := json.Unmarshal(raw, &o); err != nil {
		return exchange.Order{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed order record", raw)
	}
	side := exchange.Sell
	if o.Type == 1 {
		side = exchange.Buy
	}
	symbol := ""
	if o.Currency != "" {
		if market, err := e.core.Markets.ByID(ctx, o.Currency); err == nil {
			symbol = market.Symbol
		}
	}
	order := exchange.Order{
		ID:        o.ID.String(),
		Timestamp: o.TradeDate,
		Symbol:    symbol,
		Side:      side,
		Type:      exchange.LimitOrder, // the exchange has no market orders
		Price:     o.Price,
		Average:   o.TradePrice,
		Amount:    o.TotalAmount,
		Filled:    o.TradeAmount,
		Cost:      o.TradeMoney,
		Status:    ParseOrderStatus(o.Status),
		Info:      raw,
	}
	exchange.DeriveRemaining(&order)
	return order, nil
}

func (e *Exchange) CreateOrder(ctx context.Context, symbol string, typ exchange.OrderType, side exchange.Side, amount float64, price *float64) (exchange.Order, error) {
	if typ != exchange.LimitOrder {
		return exchange.Order{}, exchange.NewAPIError(e.ID(), exchange.ErrInvalidOrder, "", "allows limit orders only", nil)
	}
	if price == nil {
		return exchange.Order{}, exchange.NewAPIError(e.ID(), exchange.ErrInvalidOrder, "", "limit order requires a price", nil)
	}
	market, err := e.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.Order{}, err
	}
	tradeType := "0"
	if side == exchange.Buy {
		tradeType = "1"
	}
	params := url.Values{}
	params.Set("price", exchange.PriceToPrecision(*price, market.Precision.Price))
	params.Set("amount", exchange.AmountToPrecision(amount, market.Precision.Amount))
	params.Set("tradeType", tradeType)
	params.Set("currency", market.ID)
	body, err := e.callPrivate(ctx, http.MethodGet, "order", params)
	if err != nil {
		return exchange.Order{}, err
	}
	// The id rides as a JSON string here, unlike the numeric ids in order
	// records.
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return exchange.Order{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed order response", body)
	}
	return exchange.Order{
		ID:     resp.ID,
		Symbol: symbol,
		Side:   side,
		Type:   exchange.LimitOrder,
		Price:  price,
		Amount: exchange.Float(amount),
		Status: exchange.OrderOpen,
		Info:   body,
	}, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) error {
	marketID, err := e.core.Markets.MarketID(ctx, symbol)
	if err != nil {
		return err
	}
	params := url.Values{}
	params.Set("id", id)
	params.Set("currency", marketID)
	_, err = e.callPrivate(ctx, http.MethodGet, "cancelOrder", params)
	return err
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (exchange.Order, error) {
	marketID, err := e.core.Markets.MarketID(ctx, symbol)
	if err != nil {
		return exchange.Order{}, err
	}
	params := url.Values{}
	params.Set("id", id)
	params.Set("currency", marketID)
	body, err := e.callPrivate(ctx, http.MethodGet, "getOrder", params)
	if err != nil {
		return exchange.Order{}, err
	}
	return e.parseOrder(ctx, body)
}

func (e *Exchange) FetchOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	return e.fetchOrderList(ctx, symbol, "getOrdersIgnoreTradeType", 50)
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	return e.fetchOrderList(ctx, symbol, "getUnfinishedOrdersIgnoreTradeType", 10)
}

// fetchOrderList pages through an order listing endpoint. The exchange
// answers an empty page with error code 3001, which callers expect as an
// empty list rather than a failure.
func (e *Exchange) fetchOrderList(ctx context.Context, symbol, path string, pageSize int) ([]exchange.Order, error) {
	if symbol == "" {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "fetching orders requires a symbol", nil)
	}
	marketID, err := e.core.Markets.MarketID(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("currency", marketID)
	params.Set("pageIndex", "1")
	params.Set("pageSize", strconv.Itoa(pageSize))
	body, err := e.callPrivate(ctx, http.MethodPost, path, params)
	if err != nil {
		if apiErr, ok := exchange.AsAPIError(err); ok && apiErr.Code == "3001" {
			return []exchange.Order{}, nil
		}
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed order list response", body)
	}
	orders := make([]exchange.Order, 0, len(rows))
	for _, raw := range rows {
		order, err := e.parseOrder(ctx, raw)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (e *Exchange) FetchDepositAddress(ctx context.Context, code string) (exchange.DepositAddress, error) {
	params := url.Values{}
	params.Set("currency", strings.ToLower(e.codes.Native(code)))
	body, err := e.callPrivate(ctx, http.MethodGet, "getUserAddress", params)
	if err != nil {
		return exchange.DepositAddress{}, err
	}
	var resp struct {
		Message struct {
			Des   string `json:"des"`
			Datas struct {
				Key string `json:"key"`
			} `json:"datas"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Message.Des != "success" {
		return exchange.DepositAddress{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "fetchDepositAddress failed", body)
	}
	return exchange.DepositAddress{
		Currency: code,
		Address:  resp.Message.Datas.Key,
		Status:   "ok",
		Info:     body,
	}, nil
}

func (e *Exchange) Withdraw(ctx context.Context, code string, amount float64, address string) (exchange.WithdrawResult, error) {
	if address == "" {
		return exchange.WithdrawResult{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "withdraw requires an address", nil)
	}
	params := url.Values{}
	params.Set("currency", strings.ToLower(e.codes.Native(code)))
	params.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("receiveAddr", address)
	body, err := e.callPrivate(ctx, http.MethodGet, "withdraw", params)
	if err != nil {
		return exchange.WithdrawResult{}, err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return exchange.WithdrawResult{}, exchange.NewAPIError(e.ID(), exchange.ErrExchange, "", "malformed withdraw response", body)
	}
	return exchange.WithdrawResult{ID: resp.ID, Info: body}, nil
}
