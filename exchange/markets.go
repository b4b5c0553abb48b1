package exchange

import (
	"context"
	"fmt"
	"sync"
)

// MarketLoader fetches the exchange-native market list.
type MarketLoader func(ctx context.Context) ([]Market, error)

// MarketCache lazily loads instrument metadata once per adapter instance
// and keeps the id↔symbol indexes consistent with the loaded list.
// Concurrent callers racing before the first successful load share a
// single in-flight fetch.
type MarketCache struct {
	exchange string
	load     MarketLoader

	mu       sync.Mutex
	loading  chan struct{} // non-nil while a load is in flight
	loaded   bool
	markets  []Market
	bySymbol map[string]Market
	byID     map[string]Market
}

func NewMarketCache(exchange string, load MarketLoader) *MarketCache {
	return &MarketCache{exchange: exchange, load: load}
}

// Ensure populates the cache if it is empty. Idempotent: once a load has
// succeeded no further network fetch happens until Reload.
func (c *MarketCache) Ensure(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.loaded {
			c.mu.Unlock()
			return nil
		}
		if c.loading == nil {
			c.loading = make(chan struct{})
			done := c.loading
			c.mu.Unlock()
			markets, err := c.load(ctx)
			c.mu.Lock()
			c.loading = nil
			if err == nil {
				c.install(markets)
			}
			close(done)
			c.mu.Unlock()
			return err
		}
		done := c.loading
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
	}
}

// Reload forces a fresh fetch, the only invalidation path. The previous
// indexes stay visible until the new list installs.
func (c *MarketCache) Reload(ctx context.Context) error {
	markets, err := c.load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.install(markets)
	c.mu.Unlock()
	return nil
}

func (c *MarketCache) install(markets []Market) {
	bySymbol := make(map[string]Market, len(markets))
	byID := make(map[string]Market, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
		byID[m.ID] = m
	}
	c.markets = markets
	c.bySymbol = bySymbol
	c.byID = byID
	c.loaded = true
}

// Market resolves a canonical symbol, loading the cache first if needed.
func (c *MarketCache) Market(ctx context.Context, symbol string) (Market, error) {
	if err := c.Ensure(ctx); err != nil {
		return Market{}, err
	}
	c.mu.Lock()
	m, ok := c.bySymbol[symbol]
	c.mu.Unlock()
	if !ok {
		return Market{}, fmt.Errorf("%s: %q: %w", c.exchange, symbol, ErrSymbolNotFound)
	}
	return m, nil
}

// MarketID resolves a canonical symbol to the exchange-native id.
func (c *MarketCache) MarketID(ctx context.Context, symbol string) (string, error) {
	m, err := c.Market(ctx, symbol)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// ByID resolves an exchange-native market id back to its Market.
func (c *MarketCache) ByID(ctx context.Context, id string) (Market, error) {
	if err := c.Ensure(ctx); err != nil {
		return Market{}, err
	}
	c.mu.Lock()
	m, ok := c.byID[id]
	c.mu.Unlock()
	if !ok {
		return Market{}, fmt.Errorf("%s: market id %q: %w", c.exchange, id, ErrSymbolNotFound)
	}
	return m, nil
}

// All returns the cached market list, loading it first if needed.
func (c *MarketCache) All(ctx context.Context) ([]Market, error) {
	if err := c.Ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	markets := make([]Market, len(c.markets))
	copy(markets, c.markets)
	c.mu.Unlock()
	return markets, nil
}
