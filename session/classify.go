package session

import (
	"strings"

	"github.com/wzlphp/asin-ai/models"
)

// Phrases that only appear on the respective interstitial pages. All
// of them arrive with HTTP 200, which is why classification works on
// the markup, not the status code.
var (
	challengeSignals = []string{
		"captcha",
		"robot check",
		"sorry, we just need to make sure",
		"type the characters you see",
	}

	notFoundSignals = []string{
		"looking for something?",
		"we couldn't find that page",
		"the web address you entered is not a functioning page",
	}
)

// Classify tags raw markup as real content, an anti-bot challenge, or
// a dead listing. Challenge pages are never parsed and never retried.
func Classify(html string) models.PageStatus {
	lower := strings.ToLower(html)
	for _, signal := range challengeSignals {
		if strings.Contains(lower, signal) {
			return models.PageChallenge
		}
	}
	for _, signal := range notFoundSignals {
		if strings.Contains(lower, signal) {
			return models.PageNotFound
		}
	}
	return models.PageOK
}
