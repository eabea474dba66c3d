package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/models"
)

// ParseSearchResults extracts identifier + position for every listing
// on a search results page, in page order. Listings without an ASIN
// (sponsored shells, editorial widgets) are dropped silently; their
// slots still count toward the position numbering so ranks match what
// a shopper sees.
func ParseSearchResults(raw, marketplaceCode string) ([]models.SearchResultRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse search markup: %w", err)
	}

	expectedCurrency := ""
	if loc, lookupErr := marketplace.Lookup(marketplaceCode); lookupErr == nil {
		expectedCurrency = loc.Currency
	}

	var rows []models.SearchResultRow
	doc.Find("[data-component-type='s-search-result']").Each(func(i int, item *goquery.Selection) {
		asin, _ := item.Attr("data-asin")
		asin = strings.TrimSpace(asin)
		if asin == "" {
			return
		}

		row := models.SearchResultRow{
			Position: i + 1,
			ASIN:     asin,
			Title:    firstText(item, "h2 a span", "h2 span"),
		}

		if priceText := strings.TrimSpace(item.Find("span.a-price span.a-offscreen").First().Text()); priceText != "" {
			if amount, ok := extractNumber(priceText); ok {
				row.Price = models.Price{
					Amount:   amount,
					Currency: detectCurrency(priceText, expectedCurrency),
					Known:    true,
				}
			}
		}

		if rating, ok := extractNumber(item.Find("span.a-icon-alt").First().Text()); ok && rating <= 5 {
			row.Rating = rating
		}

		row.ReviewCount = extractInt(firstText(item,
			"span.a-size-base.s-underline-text",
			"a[href*='customerReviews'] span",
		))

		row.Sponsored = item.Find("[data-component-type='sp-sponsored-result']").Length() > 0 ||
			item.Find(".s-label-popover-default").Length() > 0

		rows = append(rows, row)
	})

	return rows, nil
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if value := strings.TrimSpace(sel.Find(s).First().Text()); value != "" {
			return value
		}
	}
	return ""
}
