package product

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// currencySymbols maps visible currency markers to ISO 4217 codes. Longer
// symbols are tried first so "A$" resolves before "$".
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"A$", "AUD"},
	{"C$", "CAD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"₽", "RUB"},
}

var priceDigitsRe = regexp.MustCompile(`[\d,]+\.?\d*`)

// ParsePriceText parses a visible price string into a two-decimal price and
// an ISO currency code. Values above 1000 with no decimal separator are
// treated as integer cents and divided by 100. Returns ok=false when no
// numeric value is present.
func ParsePriceText(text string) (price, currency string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}

	currency = "USD"
	for _, c := range currencySymbols {
		if strings.Contains(text, c.symbol) {
			currency = c.code
			break
		}
	}

	match := priceDigitsRe.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return "", "", false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return "", "", false
	}
	if value > 1000 && !strings.Contains(match, ".") {
		value /= 100
	}

	return formatPrice(value), currency, true
}

// rescaleNumeric applies the integer-cents heuristic to a numeric price
// that arrived without a decimal separator (embedded script state).
func rescaleNumeric(value float64, hadDecimal bool) float64 {
	if value > 1000 && !hadDecimal {
		return value / 100
	}
	return value
}

// priceFromAny converts a script-state price value (number or string) into
// a two-decimal price string. Returns ok=false when the value is unusable.
func priceFromAny(v any) (string, bool) {
	switch price := v.(type) {
	case float64:
		hadDecimal := price != float64(int64(price))
		return formatPrice(rescaleNumeric(price, hadDecimal)), true
	case string:
		p, _, ok := ParsePriceText(price)
		return p, ok
	case int:
		return formatPrice(rescaleNumeric(float64(price), false)), true
	}
	return "", false
}

func formatPrice(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
