package core

import "strconv"

// currencySpec captures the display convention of a supported currency:
// symbol and placement, separators, and digit grouping.
type currencySpec struct {
	symbol       string
	suffix       bool // symbol after the number (EUR convention)
	thousandsSep string
	decimalSep   string
	indianGroups bool // 1,23,456 style grouping
}

var currencySpecs = map[string]currencySpec{
	"USD": {symbol: "$", thousandsSep: ",", decimalSep: "."},
	"EUR": {symbol: "€", suffix: true, thousandsSep: ".", decimalSep: ","},
	"INR": {symbol: "₹", thousandsSep: ",", decimalSep: ".", indianGroups: true},
}

// DefaultCurrency is used when a profile carries an unknown currency code.
const DefaultCurrency = "INR"

// FormatCurrency renders an amount with the given currency's symbol and
// locale convention, always with exactly two fraction digits. An unknown
// code falls back to the default currency rather than failing.
func FormatCurrency(m Money, code string) string {
	cs, ok := currencySpecs[code]
	if !ok {
		cs = currencySpecs[DefaultCurrency]
	}

	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := groupDigits(strconv.FormatInt(cents/100, 10), cs)
	number := whole + cs.decimalSep + pad2(cents%100)

	if cs.suffix {
		return sign + number + " " + cs.symbol
	}
	return sign + cs.symbol + number
}

// groupDigits inserts thousands separators into a bare digit string.
// Indian grouping separates the last three digits, then pairs.
func groupDigits(digits string, cs currencySpec) string {
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	rest := digits
	groups = append(groups, rest[len(rest)-3:])
	rest = rest[:len(rest)-3]
	width := 3
	if cs.indianGroups {
		width = 2
	}
	for len(rest) > width {
		groups = append(groups, rest[len(rest)-width:])
		rest = rest[:len(rest)-width]
	}
	groups = append(groups, rest)

	out := groups[len(groups)-1]
	for i := len(groups) - 2; i >= 0; i-- {
		out += cs.thousandsSep + groups[i]
	}
	return out
}
