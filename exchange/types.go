package exchange

import "encoding/json"

type Side string

type OrderType string

type OrderStatus string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

const (
	LimitOrder  OrderType = "limit"
	MarketOrder OrderType = "market"
)

const (
	OrderOpen     OrderStatus = "open"
	OrderClosed   OrderStatus = "closed"
	OrderCanceled OrderStatus = "canceled"
)

const (
	CurrencyOK       = "ok"
	CurrencyDisabled = "disabled"
)

// MinMax bounds a numeric field. A nil side is unbounded/unknown.
type MinMax struct {
	Min *float64
	Max *float64
}

type Precision struct {
	Amount int
	Price  int
}

type MarketLimits struct {
	Amount MinMax
	Price  MinMax
	Cost   MinMax
}

// Market is the canonical instrument description. Symbol is the unified
// BASE/QUOTE pair, ID the exchange-native identifier used in requests.
type Market struct {
	ID        string
	Symbol    string
	Base      string
	Quote     string
	BaseID    string
	QuoteID   string
	Active    bool
	Precision Precision
	Limits    MarketLimits
	Info      json.RawMessage
}

type FundingChannel struct {
	Active bool
	Fee    *float64
}

type Funding struct {
	Withdraw FundingChannel
	Deposit  FundingChannel
}

type CurrencyLimits struct {
	Amount   MinMax
	Price    MinMax
	Withdraw MinMax
	Deposit  MinMax
}

// Currency carries per-asset metadata. Status is CurrencyOK or
// CurrencyDisabled; Active is additionally false whenever either funding
// direction is disabled.
type Currency struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	Status    string
	Precision int
	Funding   Funding
	Limits    CurrencyLimits
	Info      json.RawMessage
}

type Ticker struct {
	Symbol      string
	Timestamp   int64
	Bid         *float64
	Ask         *float64
	Last        *float64
	High        *float64
	Low         *float64
	BaseVolume  *float64
	QuoteVolume *float64
	Info        json.RawMessage
}

type BookLevel struct {
	Price  float64
	Amount float64
}

// OrderBook holds bids sorted descending and asks sorted ascending by
// price, whatever order the exchange reported them in.
type OrderBook struct {
	Bids      []BookLevel
	Asks      []BookLevel
	Timestamp int64
	Info      json.RawMessage
}

type Trade struct {
	ID        string
	Timestamp int64
	Symbol    string
	Side      Side
	Price     *float64
	Amount    *float64
	Info      json.RawMessage
}

type Order struct {
	ID        string
	Timestamp int64
	Symbol    string
	Side      Side
	Type      OrderType
	Price     *float64
	Average   *float64
	Amount    *float64
	Filled    *float64
	Remaining *float64
	Cost      *float64
	Status    OrderStatus
	Info      json.RawMessage
}

type Account struct {
	Free  *float64
	Used  *float64
	Total *float64
}

// Balances maps canonical currency codes to accounts.
type Balances struct {
	Accounts map[string]Account
	Info     json.RawMessage
}

type OHLCV struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

type DepositAddress struct {
	Currency string
	Address  string
	Status   string
	Info     json.RawMessage
}

type WithdrawResult struct {
	ID   string
	Info json.RawMessage
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }
