// Package ccxt exposes a unified client for a set of cryptocurrency
// exchanges. Adapters are resolved through an explicit registry at
// construction time; the canonical operation set and data model live in
// the exchange package.
package ccxt

import (
	"fmt"
	"sort"

	"github.com/denniswong34/ccxt/exchange"
	"github.com/denniswong34/ccxt/exchange/tidex"
	"github.com/denniswong34/ccxt/exchange/yobit"
	"github.com/denniswong34/ccxt/exchange/zb"
)

// Constructor builds one adapter instance. Instances do not share state;
// rate limiting and market caches are per instance.
type Constructor func(opts exchange.Options) exchange.Exchange

var registry = map[string]Constructor{
	"tidex": func(opts exchange.Options) exchange.Exchange { return tidex.New(opts) },
	"yobit": func(opts exchange.Options) exchange.Exchange { return yobit.New(opts) },
	"zb":    func(opts exchange.Options) exchange.Exchange { return zb.New(opts) },
}

// Exchanges lists the supported exchange ids.
func Exchanges() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New constructs the adapter registered under id.
func New(id string, opts exchange.Options) (exchange.Exchange, error) {
	build, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown exchange %q", id)
	}
	return build(opts), nil
}
