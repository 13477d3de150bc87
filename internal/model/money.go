package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatAmount renders an amount with two fraction digits and the symbol
// for currency, e.g. "$184.00" or "-€3.50". Unknown currencies are
// rendered as a code prefix ("CHF 10.00").
func FormatAmount(currency string, amount decimal.Decimal) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + amount.StringFixed(2)
	}
	return sign + code + " " + amount.StringFixed(2)
}
