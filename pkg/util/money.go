package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var currencyReplacer = strings.NewReplacer(
	"$", "",
	"\u20ac", "",
	"\u00a3", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// ParseNumber cleans currency symbols, thousands separators and the
// accounting "(123.45)" negative form, then parses the remainder.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsSentinel(s) {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = currencyReplacer.Replace(s)
	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseMoney is ParseNumber restricted to non-negative amounts.
func ParseMoney(s string) (decimal.Decimal, bool) {
	d, ok := ParseNumber(s)
	if !ok || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseFlag accepts the usual spellings of a yes/no cell.
func ParseFlag(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "x":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}
