package marketplace

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/wzlphp/asin-ai/models"
)

// Locale holds the per-marketplace parameters the session layer needs
// to look like a plausible regional visitor.
type Locale struct {
	Code       string
	Host       string
	Currency   string
	Language   string
	TimezoneID string
}

// locales is the supported marketplace set. Keys are the lowercase
// codes callers pass in.
var locales = map[string]Locale{
	"us": {Code: "us", Host: "www.amazon.com", Currency: "USD", Language: "en-US", TimezoneID: "America/New_York"},
	"uk": {Code: "uk", Host: "www.amazon.co.uk", Currency: "GBP", Language: "en-GB", TimezoneID: "Europe/London"},
	"de": {Code: "de", Host: "www.amazon.de", Currency: "EUR", Language: "de-DE", TimezoneID: "Europe/Berlin"},
	"jp": {Code: "jp", Host: "www.amazon.co.jp", Currency: "JPY", Language: "ja-JP", TimezoneID: "Asia/Tokyo"},
}

// lookupAlias maps common variants back to the canonical code, e.g.
// the ISO code "gb" for the United Kingdom storefront.
var lookupAlias = map[string]string{
	"gb": "uk",
}

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// Codes returns the supported marketplace codes in stable order.
func Codes() []string {
	codes := make([]string, 0, len(locales))
	for code := range locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup resolves a marketplace code (case-insensitive, aliases
// accepted) to its locale parameters.
func Lookup(code string) (Locale, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := lookupAlias[normalized]; ok {
		normalized = canonical
	}
	loc, ok := locales[normalized]
	if !ok {
		return Locale{}, fmt.Errorf("%w: %q", models.ErrUnknownMarketplace, code)
	}
	return loc, nil
}

// NormalizeASIN validates and canonicalizes an identifier: exactly ten
// alphanumeric characters, uppercased.
func NormalizeASIN(asin string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(asin))
	if !asinPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidASIN, asin)
	}
	return normalized, nil
}

// ProductURL builds the product detail page URL. An optional language
// override is appended for screenshot localization.
func (l Locale) ProductURL(asin, language string) string {
	u := fmt.Sprintf("https://%s/dp/%s", l.Host, url.PathEscape(asin))
	if language != "" {
		u += "?language=" + url.QueryEscape(language)
	}
	return u
}

// SearchURL builds a keyword search URL for the given result page
// (1-based).
func (l Locale) SearchURL(query string, page int) string {
	params := url.Values{}
	params.Set("k", query)
	if page > 1 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	return fmt.Sprintf("https://%s/s?%s", l.Host, params.Encode())
}
