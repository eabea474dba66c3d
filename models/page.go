package models

import "time"

// PageStatus classifies a fetched page before any parsing happens.
// Anti-bot walls answer HTTP 200, so status codes alone say nothing.
type PageStatus string

const (
	PageOK        PageStatus = "ok"
	PageChallenge PageStatus = "challenge-detected"
	PageNotFound  PageStatus = "not-found"
)

// RawPage is the markup a fetch produced plus its classification.
// Challenge and not-found pages carry their HTML too, for logging.
type RawPage struct {
	URL       string
	HTML      string
	Status    PageStatus
	FetchedAt time.Time
}
