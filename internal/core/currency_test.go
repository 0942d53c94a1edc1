package core

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		cents int64
		code  string
		want  string
	}{
		{123456, "USD", "$1,234.56"},
		{123456, "EUR", "1.234,56 €"},
		{123456, "INR", "₹1,234.56"},
		{12345678, "INR", "₹1,23,456.78"},
		{100, "USD", "$1.00"},
		{-5000, "USD", "-$50.00"},
		{0, "EUR", "0,00 €"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(Money{Cents: tc.cents}, tc.code); got != tc.want {
			t.Fatalf("%d %s: expected %q, got %q", tc.cents, tc.code, tc.want, got)
		}
	}
}

func TestFormatCurrencyUnknownCodeFallsBackToINR(t *testing.T) {
	got := FormatCurrency(Money{Cents: 123456}, "XYZ")
	if got != "₹1,234.56" {
		t.Fatalf("expected INR fallback, got %q", got)
	}
}
