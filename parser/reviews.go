package parser

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wzlphp/asin-ai/models"
)

// ParseReviews yields the reviews embedded in a product page's own
// review block as a finite, single-pass sequence. There is no
// pagination: dedicated review pages require a signed-in session,
// which is out of scope, so the sequence is bounded by what one page
// surfaces (typically 8-10). Snippets with neither title nor body are
// skipped.
func ParseReviews(raw string) iter.Seq[models.ReviewSnippet] {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	return func(yield func(models.ReviewSnippet) bool) {
		if err != nil {
			return
		}
		doc.Find("[data-hook='review']").EachWithBreak(func(_ int, div *goquery.Selection) bool {
			snippet := parseReview(div)
			if snippet.Title == "" && snippet.Body == "" {
				return true
			}
			return yield(snippet)
		})
	}
}

func parseReview(div *goquery.Selection) models.ReviewSnippet {
	snippet := models.ReviewSnippet{
		Reviewer: strings.TrimSpace(div.Find("span.a-profile-name").First().Text()),
		Title:    strings.TrimSpace(div.Find("[data-hook='review-title'] span:last-child").First().Text()),
		Body:     strings.TrimSpace(div.Find("[data-hook='review-body'] span").First().Text()),
		Date:     strings.TrimSpace(div.Find("[data-hook='review-date']").First().Text()),
	}

	starText := div.Find("[data-hook='review-star-rating'] span, [data-hook='cmps-review-star-rating'] span").First().Text()
	if stars, ok := extractNumber(starText); ok && stars >= 1 && stars <= 5 {
		snippet.Rating = int(stars)
	}

	// The badge only ever asserts a verified purchase; its absence
	// says nothing, so Verified stays nil in that case.
	if div.Find("[data-hook='avp-badge']").Length() > 0 {
		verified := true
		snippet.Verified = &verified
	}

	return snippet
}
