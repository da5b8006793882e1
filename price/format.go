package price

import (
	"math"
	"strconv"
	"strings"
)

// symbols maps ISO currency codes to the symbol shown after the amount.
var symbols = map[string]string{
	"VND": "₫",
	"USD": "US$",
	"EUR": "€",
}

// zeroDecimal lists currencies without a minor unit.
var zeroDecimal = map[string]bool{
	"VND": true,
	"JPY": true,
	"KRW": true,
}

// Format renders v in vi-VN style: '.' groups thousands, ',' marks
// decimals, symbol last. Format(12990000, "VND") is "12.990.000 ₫".
func Format(v float64, currency string) string {
	currency = strings.ToUpper(currency)
	decimals := 2
	if zeroDecimal[currency] {
		decimals = 0
	}

	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}

	sym, ok := symbols[currency]
	if !ok {
		sym = currency
	}
	if sym != "" {
		b.WriteByte(' ')
		b.WriteString(sym)
	}
	return b.String()
}
