package ccxt

import (
	"testing"

	"github.com/denniswong34/ccxt/exchange"
)

func TestExchanges(t *testing.T) {
	ids := Exchanges()
	want := []string{"tidex", "yobit", "zb"}
	if len(ids) != len(want) {
		t.Fatalf("Exchanges() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Exchanges() = %v, want sorted %v", ids, want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, id := range Exchanges() {
		ex, err := New(id, exchange.Options{})
		if err != nil {
			t.Fatalf("New(%s): %v", id, err)
		}
		if ex.ID() != id {
			t.Fatalf("New(%s).ID() = %s", id, ex.ID())
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("mtgox", exchange.Options{}); err == nil {
		t.Fatal("unknown exchange should fail")
	}
}

func TestInstancesIndependent(t *testing.T) {
	a, _ := New("tidex", exchange.Options{APIKey: "a"})
	b, _ := New("tidex", exchange.Options{APIKey: "b"})
	if a == b {
		t.Fatal("constructor returned a shared instance")
	}
}

func TestCurrencyFetcherSurface(t *testing.T) {
	tidex, _ := New("tidex", exchange.Options{})
	if _, ok := tidex.(exchange.CurrencyFetcher); !ok {
		t.Fatal("tidex should implement CurrencyFetcher")
	}
	zb, _ := New("zb", exchange.Options{})
	if _, ok := zb.(exchange.CurrencyFetcher); ok {
		t.Fatal("zb does not publish a currency table")
	}
}
