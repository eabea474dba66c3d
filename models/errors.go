package models

import "errors"

var (
	// ErrInvalidASIN is returned when the input identifier fails the
	// 10-character alphanumeric check.
	ErrInvalidASIN = errors.New("invalid ASIN")

	// ErrUnknownMarketplace is returned for marketplace codes outside
	// the supported set.
	ErrUnknownMarketplace = errors.New("unknown marketplace")

	// ErrChallengeDetected means the fetch hit an anti-bot wall. It is
	// never retried automatically; callers degrade or abort.
	ErrChallengeDetected = errors.New("challenge page detected")

	// ErrNotFound means the identifier does not resolve to a listing
	// on the requested marketplace.
	ErrNotFound = errors.New("listing not found")

	// ErrNavigationFailed is surfaced only after internal retries for
	// transient navigation failures are exhausted.
	ErrNavigationFailed = errors.New("navigation failed")

	// ErrDiscoveryDegraded flags a competitor list built from the
	// primary signal alone because the keyword-search supplement
	// failed. The list itself is still a valid result.
	ErrDiscoveryDegraded = errors.New("competitor discovery degraded")

	// ErrCacheMiss is returned by cache implementations when no entry
	// exists for a key.
	ErrCacheMiss = errors.New("cache miss")
)
