package tapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/denniswong34/ccxt/exchange"
)

func nowMillis() int64 { return time.Now().UnixMilli() }

type balanceInfo struct {
	Funds           map[string]float64 `json:"funds"`
	FundsInclOrders map[string]float64 `json:"funds_incl_orders"`
}

// FetchBalance maps getInfo funds to free balances. Exchanges that also
// report funds_incl_orders yield totals, from which the locked portion is
// derived; the rest leave total and used unknown.
func (c *Client) FetchBalance(ctx context.Context) (exchange.Balances, error) {
	if err := c.core.Markets.Ensure(ctx); err != nil {
		return exchange.Balances{}, err
	}
	ret, err := c.CallPrivate(ctx, "getInfo", url.Values{})
	if err != nil {
		return exchange.Balances{}, err
	}
	var info balanceInfo
	if err := json.Unmarshal(ret, &info); err != nil {
		return exchange.Balances{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed getInfo response", ret)
	}
	accounts := make(map[string]exchange.Account)
	for nat, free := range info.Funds {
		code := c.codes.Canonical(nat)
		acct := accounts[code]
		acct.Free = exchange.Float(free)
		accounts[code] = acct
	}
	for nat, total := range info.FundsInclOrders {
		code := c.codes.Canonical(nat)
		acct := accounts[code]
		acct.Total = exchange.Float(total)
		accounts[code] = acct
	}
	for code, acct := range accounts {
		exchange.DeriveUsed(&acct)
		accounts[code] = acct
	}
	return exchange.Balances{Accounts: accounts, Info: ret}, nil
}

// ParseOrderStatus maps the protocol's numeric status codes. Code 3 is
// reported for partially filled orders that remain workable, so it maps
// to open.
func ParseOrderStatus(status int) exchange.OrderStatus {
	switch status {
	case 1:
		return exchange.OrderClosed
	case 2:
		return exchange.OrderCanceled
	default:
		return exchange.OrderOpen
	}
}

type orderInfo struct {
	Pair             string   `json:"pair"`
	Type             string   `json:"type"`
	StartAmount      *float64 `json:"start_amount"`
	Amount           *float64 `json:"amount"`
	Rate             *float64 `json:"rate"`
	TimestampCreated int64    `json:"timestamp_created"`
	Status           int      `json:"status"`
}

// parseOrder normalizes one private-API order record. Active-order
// listings omit start_amount and report only the remaining amount, so
// the original size stays unknown for them.
func (c *Client) parseOrder(ctx context.Context, id string, raw json.RawMessage) (exchange.Order, error) {
	var o orderInfo
	if err := json.Unmarshal(raw, &o); err != nil {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed order record", raw)
	}
	symbol := ""
	if o.Pair != "" {
		if market, err := c.core.Markets.ByID(ctx, o.Pair); err == nil {
			symbol = market.Symbol
		}
	}
	order := exchange.Order{
		ID:        id,
		Timestamp: o.TimestampCreated * 1000,
		Symbol:    symbol,
		Side:      exchange.Side(o.Type),
		Type:      exchange.LimitOrder,
		Price:     o.Rate,
		Status:    ParseOrderStatus(o.Status),
		Info:      raw,
	}
	if o.StartAmount != nil {
		order.Amount = o.StartAmount
		order.Remaining = o.Amount
		if o.Amount != nil {
			order.Filled = exchange.Float(*o.StartAmount - *o.Amount)
		}
	} else {
		order.Remaining = o.Amount
	}
	if order.Price != nil && order.Filled != nil {
		order.Cost = exchange.Float(*order.Price * *order.Filled)
	}
	return order, nil
}

type tradeResult struct {
	Received *float64 `json:"received"`
	Remains  *float64 `json:"remains"`
	OrderID  int64    `json:"order_id"`
}

// CreateOrder places a limit order. The protocol has no market orders;
// requesting one fails locally before any network call.
func (c *Client) CreateOrder(ctx context.Context, symbol string, typ exchange.OrderType, side exchange.Side, amount float64, price *float64) (exchange.Order, error) {
	if typ != exchange.LimitOrder {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrInvalidOrder, "", "allows limit orders only", nil)
	}
	if price == nil {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrInvalidOrder, "", "limit order requires a price", nil)
	}
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return exchange.Order{}, err
	}
	params := url.Values{}
	params.Set("pair", market.ID)
	params.Set("type", string(side))
	params.Set("rate", exchange.PriceToPrecision(*price, market.Precision.Price))
	params.Set("amount", exchange.AmountToPrecision(amount, market.Precision.Amount))
	ret, err := c.CallPrivate(ctx, "Trade", params)
	if err != nil {
		return exchange.Order{}, err
	}
	var result tradeResult
	if err := json.Unmarshal(ret, &result); err != nil {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed trade response", ret)
	}
	order := exchange.Order{
		Timestamp: nowMillis(),
		Symbol:    symbol,
		Side:      side,
		Type:      exchange.LimitOrder,
		Price:     price,
		Amount:    exchange.Float(amount),
		Filled:    result.Received,
		Remaining: result.Remains,
		Status:    exchange.OrderOpen,
		Info:      ret,
	}
	if result.OrderID == 0 {
		// Filled immediately: the exchange assigns no resting order id.
		order.Status = exchange.OrderClosed
		order.Filled = exchange.Float(amount)
		order.Remaining = exchange.Float(0)
	} else {
		order.ID = strconv.FormatInt(result.OrderID, 10)
	}
	exchange.DeriveRemaining(&order)
	return order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	params := url.Values{}
	params.Set("order_id", id)
	_, err := c.CallPrivate(ctx, "CancelOrder", params)
	return err
}

func (c *Client) FetchOrder(ctx context.Context, id, symbol string) (exchange.Order, error) {
	params := url.Values{}
	params.Set("order_id", id)
	ret, err := c.CallPrivate(ctx, "OrderInfo", params)
	if err != nil {
		return exchange.Order{}, err
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(ret, &records); err != nil {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed OrderInfo response", ret)
	}
	raw, ok := records[id]
	if !ok {
		return exchange.Order{}, exchange.NewAPIError(c.ID(), exchange.ErrOrderNotFound, "", "order "+id+" not in response", ret)
	}
	return c.parseOrder(ctx, id, raw)
}

// FetchOrders lists orders for a symbol. The protocol only reports
// resting orders, so this is the ActiveOrders view.
func (c *Client) FetchOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	return c.FetchOpenOrders(ctx, symbol)
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	if symbol == "" {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "fetching orders requires a symbol", nil)
	}
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("pair", market.ID)
	ret, err := c.CallPrivate(ctx, "ActiveOrders", params)
	if err != nil {
		return nil, err
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(ret, &records); err != nil {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed ActiveOrders response", ret)
	}
	orders := make([]exchange.Order, 0, len(records))
	for id, raw := range records {
		order, err := c.parseOrder(ctx, id, raw)
		if err != nil {
			continue
		}
		order.Status = exchange.OrderOpen
		orders = append(orders, order)
	}
	return orders, nil
}

type myTradeInfo struct {
	Pair      string   `json:"pair"`
	Type      string   `json:"type"`
	Amount    *float64 `json:"amount"`
	Rate      *float64 `json:"rate"`
	Timestamp int64    `json:"timestamp"`
}

// FetchMyTrades lists the account's trade history for a symbol via
// TradeHistory.
func (c *Client) FetchMyTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	if symbol == "" {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "fetching trade history requires a symbol", nil)
	}
	market, err := c.core.Markets.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("pair", market.ID)
	ret, err := c.CallPrivate(ctx, "TradeHistory", params)
	if err != nil {
		return nil, err
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(ret, &records); err != nil {
		return nil, exchange.NewAPIError(c.ID(), exchange.ErrExchange, "", "malformed TradeHistory response", ret)
	}
	trades := make([]exchange.Trade, 0, len(records))
	for id, raw := range records {
		var t myTradeInfo
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		trades = append(trades, exchange.Trade{
			ID:        id,
			Timestamp: t.Timestamp * 1000,
			Symbol:    symbol,
			Side:      exchange.Side(t.Type),
			Price:     t.Rate,
			Amount:    t.Amount,
			Info:      raw,
		})
	}
	return trades, nil
}

func (c *Client) Withdraw(ctx context.Context, code string, amount float64, address string) (exchange.WithdrawResult, error) {
	return exchange.WithdrawResult{}, exchange.NewAPIError(c.ID(), exchange.ErrNotSupported, "", "withdraw not supported", nil)
}

func (c *Client) FetchDepositAddress(ctx context.Context, code string) (exchange.DepositAddress, error) {
	return exchange.DepositAddress{}, exchange.NewAPIError(c.ID(), exchange.ErrNotSupported, "", "fetchDepositAddress not supported", nil)
}
