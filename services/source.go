package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/wzlphp/asin-ai/models"
	"github.com/wzlphp/asin-ai/parser"
	"github.com/wzlphp/asin-ai/session"
)

// productSource adapts a live marketplace session to the discovery
// engine's fetch boundary. It keeps the review snippets each product
// page surfaced, so the assembler can use them without a second visit.
type productSource struct {
	sess *session.Session

	mu      sync.Mutex
	reviews map[string][]models.ReviewSnippet
}

func newProductSource(sess *session.Session) *productSource {
	return &productSource{
		sess:    sess,
		reviews: make(map[string][]models.ReviewSnippet),
	}
}

func (s *productSource) Product(ctx context.Context, asin string) (*models.Product, error) {
	raw, err := s.sess.FetchProduct(ctx, asin)
	if err != nil {
		return nil, err
	}
	if err := statusError(raw.Status); err != nil {
		return nil, fmt.Errorf("%s: %w", asin, err)
	}

	product, err := parser.ParseProduct(raw.HTML, asin, s.sess.Locale.Code)
	if err != nil {
		return nil, err
	}
	// A parse with no title means the page carried no listing content.
	if product.Title == "" {
		return nil, fmt.Errorf("%s: %w", asin, models.ErrNotFound)
	}
	product.FetchedAt = raw.FetchedAt

	var snippets []models.ReviewSnippet
	for r := range parser.ParseReviews(raw.HTML) {
		snippets = append(snippets, r)
	}
	s.mu.Lock()
	s.reviews[asin] = snippets
	s.mu.Unlock()

	return product, nil
}

func (s *productSource) Search(ctx context.Context, query string, page int) ([]models.SearchResultRow, error) {
	raw, err := s.sess.FetchSearch(ctx, query, page)
	if err != nil {
		return nil, err
	}
	if err := statusError(raw.Status); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return parser.ParseSearchResults(raw.HTML, s.sess.Locale.Code)
}

// Reviews returns every stashed snippet set, keyed by ASIN.
func (s *productSource) Reviews() map[string][]models.ReviewSnippet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]models.ReviewSnippet, len(s.reviews))
	for asin, snippets := range s.reviews {
		out[asin] = snippets
	}
	return out
}

func statusError(status models.PageStatus) error {
	switch status {
	case models.PageChallenge:
		return models.ErrChallengeDetected
	case models.PageNotFound:
		return models.ErrNotFound
	default:
		return nil
	}
}
