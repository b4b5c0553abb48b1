package exchange

import "testing"

func TestAmountToPrecision(t *testing.T) {
	cases := []struct {
		amount float64
		digits int
		want   string
	}{
		{1.23456789, 4, "1.2345"}, // truncates, never rounds up
		{1.0, 4, "1"},
		{0.00012345, 8, "0.00012345"},
		{10.999, 0, "10"},
	}
	for _, tc := range cases {
		if got := AmountToPrecision(tc.amount, tc.digits); got != tc.want {
			t.Errorf("AmountToPrecision(%v, %d) = %s, want %s", tc.amount, tc.digits, got, tc.want)
		}
	}
}

func TestPriceToPrecision(t *testing.T) {
	if got := PriceToPrecision(1234.5678, 2); got != "1234.56" {
		t.Fatalf("PriceToPrecision = %s, want 1234.56", got)
	}
}

func TestMinFromPrecision(t *testing.T) {
	cases := []struct {
		digits int
		want   float64
	}{
		{0, 1},
		{2, 0.01},
		{4, 0.0001},
		{8, 0.00000001},
	}
	for _, tc := range cases {
		if got := MinFromPrecision(tc.digits); got != tc.want {
			t.Errorf("MinFromPrecision(%d) = %v, want %v", tc.digits, got, tc.want)
		}
	}
}
