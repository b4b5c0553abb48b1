package exchange

import (
	"sort"
	"strconv"
)

// ParseFloat parses a string-typed numeric field, returning nil for
// absent or malformed values rather than coercing to zero.
func ParseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SortOrderBook enforces the canonical ordering: bids descending, asks
// ascending by price, regardless of exchange-native ordering.
func SortOrderBook(book *OrderBook) {
	sort.Slice(book.Bids, func(i, j int) bool {
		return book.Bids[i].Price > book.Bids[j].Price
	})
	sort.Slice(book.Asks, func(i, j int) bool {
		return book.Asks[i].Price < book.Asks[j].Price
	})
}

// DeriveUsed fills Used = Total − Free when the exchange reports both
// sides but not the locked portion.
func DeriveUsed(acct *Account) {
	if acct.Used == nil && acct.Total != nil && acct.Free != nil {
		acct.Used = Float(*acct.Total - *acct.Free)
	}
}

// DeriveRemaining fills Remaining = Amount − Filled when both are known.
func DeriveRemaining(o *Order) {
	if o.Remaining == nil && o.Amount != nil && o.Filled != nil {
		o.Remaining = Float(*o.Amount - *o.Filled)
	}
}
