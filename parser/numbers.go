package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`\d+\.?\d*`)
	intPattern    = regexp.MustCompile(`[\d,]+`)
)

// extractNumber pulls the first decimal number out of free text, e.g.
// "4.5 out of 5 stars" -> 4.5, "$1,299.99" -> 1299.99.
func extractNumber(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, ",", "")
	match := numberPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// extractInt pulls the first integer out of free text, tolerating
// thousands separators, e.g. "12,345 ratings" -> 12345.
func extractInt(text string) int {
	match := intPattern.FindString(text)
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return value
}

// currencySymbols maps price-text markers to ISO currency codes. The
// serving infrastructure sometimes answers in a currency other than
// the marketplace's own, so the observed symbol wins over the locale
// expectation.
var currencySymbols = []struct {
	marker string
	code   string
}{
	{"£", "GBP"},
	{"€", "EUR"},
	{"¥", "JPY"},
	{"￥", "JPY"},
	{"$", "USD"},
}

// detectCurrency returns the currency a price string is denominated
// in, falling back to the marketplace's expected code when the text
// carries no recognizable marker.
func detectCurrency(priceText, fallback string) string {
	for _, s := range currencySymbols {
		if strings.Contains(priceText, s.marker) {
			return s.code
		}
	}
	return fallback
}
