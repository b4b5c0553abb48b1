package yobit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/denniswong34/ccxt/exchange"
)

type privateCall struct {
	method string
	params url.Values
}

func newTestExchange(t *testing.T, private map[string]string) (*Exchange, *[]privateCall) {
	t.Helper()
	calls := &[]privateCall{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/info", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"server_time": 1700000000, "pairs": {
			"btc_usdt": {"decimal_places": 3, "min_amount": 0.001, "hidden": 0, "fee": 0.2}
		}}`)
	})
	mux.HandleFunc("/tapi", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(body))
		if err != nil {
			t.Errorf("parse private body: %v", err)
		}
		*calls = append(*calls, privateCall{method: form.Get("method"), params: form})
		resp, ok := private[form.Get("method")]
		if !ok {
			io.WriteString(w, `{"success":0,"error":"invalid method"}`)
			return
		}
		io.WriteString(w, resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	e := New(exchange.Options{
		APIKey: "key",
		Secret: "s",
		URLs: map[string]string{
			"public":  srv.URL + "/api/3",
			"private": srv.URL + "/tapi",
		},
	})
	return e, calls
}

const validAddress = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"

func TestFetchDepositAddress(t *testing.T) {
	e, calls := newTestExchange(t, map[string]string{
		"GetDepositAddress": `{"success":1,"return":{"address":"` + validAddress + `","processed_amount":0,"server_time":1700000000}}`,
	})

	addr, err := e.FetchDepositAddress(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("FetchDepositAddress: %v", err)
	}
	if addr.Address != validAddress {
		t.Fatalf("Address = %s", addr.Address)
	}
	if addr.Currency != "BTC" || addr.Status != "ok" {
		t.Fatalf("addr = %+v", addr)
	}
	last := (*calls)[len(*calls)-1]
	if last.params.Get("coinName") != "btc" {
		t.Fatalf("coinName = %s, want lowercased btc", last.params.Get("coinName"))
	}
	if last.params.Get("need_new") != "0" {
		t.Fatalf("need_new = %s, want 0", last.params.Get("need_new"))
	}
}

func TestCreateDepositAddress(t *testing.T) {
	e, calls := newTestExchange(t, map[string]string{
		"GetDepositAddress": `{"success":1,"return":{"address":"` + validAddress + `"}}`,
	})

	if _, err := e.CreateDepositAddress(context.Background(), "BTC"); err != nil {
		t.Fatalf("CreateDepositAddress: %v", err)
	}
	last := (*calls)[len(*calls)-1]
	if last.params.Get("need_new") != "1" {
		t.Fatalf("need_new = %s, want 1", last.params.Get("need_new"))
	}
}

func TestFetchDepositAddressRejectsBadAddress(t *testing.T) {
	e, _ := newTestExchange(t, map[string]string{
		"GetDepositAddress": `{"success":1,"return":{"address":"short"}}`,
	})
	if _, err := e.FetchDepositAddress(context.Background(), "BTC"); err == nil {
		t.Fatal("suspicious address should be rejected")
	}
}

func TestWithdraw(t *testing.T) {
	e, calls := newTestExchange(t, map[string]string{
		"WithdrawCoinsToAddress": `{"success":1,"return":{"server_time":1700000000}}`,
	})

	result, err := e.Withdraw(context.Background(), "BCH", 0.5, validAddress)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	// YoBit assigns no withdrawal ids.
	if result.ID != "" {
		t.Fatalf("ID = %s, want empty", result.ID)
	}
	last := (*calls)[len(*calls)-1]
	if last.method != "WithdrawCoinsToAddress" {
		t.Fatalf("method = %s", last.method)
	}
	// Canonical BCH maps back to YoBit's native BCC ticker.
	if last.params.Get("coinName") != "BCC" {
		t.Fatalf("coinName = %s, want BCC", last.params.Get("coinName"))
	}
}

func TestWithdrawRejectsBadAddressLocally(t *testing.T) {
	e, calls := newTestExchange(t, nil)
	cases := []string{
		"",
		"tooshort",
		" " + validAddress, // padded
		"1111111111111111111111111111111111", // one repeated character
	}
	for _, address := range cases {
		if _, err := e.Withdraw(context.Background(), "BTC", 1, address); err == nil {
			t.Errorf("address %q accepted, want rejection", address)
		}
	}
	if len(*calls) != 0 {
		t.Fatal("invalid withdrawals reached the network")
	}
}

func TestCurrencyOverrides(t *testing.T) {
	e, _ := newTestExchange(t, nil)
	codes := e.Codes()
	if got := codes.Canonical("PAY"); got != "EPAY" {
		t.Fatalf("Canonical(PAY) = %s, want EPAY", got)
	}
	if got := codes.Canonical("REP"); got != "REPUBLICOIN" {
		t.Fatalf("Canonical(REP) = %s, want REPUBLICOIN", got)
	}
	if got := codes.Native("BCH"); got != "BCC" {
		t.Fatalf("Native(BCH) = %s, want BCC", got)
	}
}

func TestCheckAddress(t *testing.T) {
	if err := checkAddress("yobit", validAddress); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
	if err := checkAddress("yobit", ""); err == nil {
		t.Fatal("empty address accepted")
	}
	if err := checkAddress("yobit", validAddress+" "); err == nil {
		t.Fatal("padded address accepted")
	}
}

func TestInfo(t *testing.T) {
	e := New(exchange.Options{})
	core := e.Core()
	if core.ID() != "yobit" {
		t.Fatalf("ID = %s", core.ID())
	}
	for _, feature := range []string{"fetchDepositAddress", "createDepositAddress", "withdraw"} {
		if !core.Has(feature) {
			t.Fatalf("capability %s missing", feature)
		}
	}
}
