// marketprobe exercises the public surface of one exchange adapter:
// markets, ticker, order book, and recent trades for a symbol.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/denniswong34/ccxt"
	"github.com/denniswong34/ccxt/config"
	"github.com/denniswong34/ccxt/internal/logging"
)

func main() {
	var (
		exchangeID = flag.String("exchange", "", "exchange id ("+strings.Join(ccxt.Exchanges(), ", ")+")")
		symbol     = flag.String("symbol", "", "canonical symbol, e.g. BTC/USDT (optional)")
		configPath = flag.String("config", "", "path to YAML config (optional)")
		timeout    = flag.Duration("timeout", 60*time.Second, "overall deadline")
	)
	flag.Parse()

	if *exchangeID == "" {
		fmt.Fprintln(os.Stderr, "usage: marketprobe -exchange <id> [-symbol BASE/QUOTE]")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)

	ex, err := ccxt.New(*exchangeID, cfg.Exchange(*exchangeID).Options())
	if err != nil {
		logger.Error("construct exchange", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	markets, err := ex.FetchMarkets(ctx)
	if err != nil {
		logger.Error("fetch markets", "exchange", ex.ID(), "error", err)
		os.Exit(1)
	}
	logger.Info("markets loaded", "exchange", ex.ID(), "count", len(markets))

	if *symbol == "" {
		for i, m := range markets {
			if i >= 10 {
				break
			}
			logger.Info("market", "symbol", m.Symbol, "id", m.ID,
				"amount_precision", m.Precision.Amount, "price_precision", m.Precision.Price)
		}
		return
	}

	ticker, err := ex.FetchTicker(ctx, *symbol)
	if err != nil {
		logger.Error("fetch ticker", "symbol", *symbol, "error", err)
		os.Exit(1)
	}
	logger.Info("ticker", "symbol", ticker.Symbol,
		"bid", deref(ticker.Bid), "ask", deref(ticker.Ask), "last", deref(ticker.Last))

	book, err := ex.FetchOrderBook(ctx, *symbol)
	if err != nil {
		logger.Error("fetch order book", "symbol", *symbol, "error", err)
		os.Exit(1)
	}
	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		logger.Info("order book", "symbol", *symbol,
			"best_bid", book.Bids[0].Price, "best_ask", book.Asks[0].Price,
			"bid_levels", len(book.Bids), "ask_levels", len(book.Asks))
	}

	trades, err := ex.FetchTrades(ctx, *symbol)
	if err != nil {
		logger.Error("fetch trades", "symbol", *symbol, "error", err)
		os.Exit(1)
	}
	logger.Info("trades", "symbol", *symbol, "count", len(trades))
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
