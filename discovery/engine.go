package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/models"
)

// ProductSource is the fetch+parse boundary the engine discovers
// through. Implementations sit on top of a live marketplace session;
// tests substitute fixtures.
type ProductSource interface {
	Product(ctx context.Context, asin string) (*models.Product, error)
	Search(ctx context.Context, query string, page int) ([]models.SearchResultRow, error)
}

// Engine produces a ranked, deduplicated competitor list from two
// independent signals: the target page's related references (primary)
// and a title-keyword search (supplement).
type Engine struct {
	src            ProductSource
	log            *zap.SugaredLogger
	maxCompetitors int
	resolveWorkers int
}

// Result is one discovery run's output. Degraded marks a list built
// from the primary signal alone because the supplement pass failed;
// an empty degraded list is a valid "no competitors found", not an
// error.
type Result struct {
	Candidates []models.CompetitorCandidate
	Degraded   bool
}

func NewEngine(src ProductSource, cfg config.DiscoveryConfig, log *zap.SugaredLogger) *Engine {
	return &Engine{
		src:            src,
		log:            log,
		maxCompetitors: cfg.MaxCompetitors,
		resolveWorkers: cfg.ResolveWorkers,
	}
}

// Discover runs both passes and merges them. The primary pass cannot
// fail (it reads the already-fetched target); a supplement failure
// degrades the result instead of erroring.
func (e *Engine) Discover(ctx context.Context, target *models.Product) (*Result, error) {
	primary := relatedCandidates(target)

	var supplement []models.CompetitorCandidate
	degraded := false

	query := SearchQuery(target.Title, target.Brand)
	if query == "" {
		e.log.Warnf("[%s] no searchable query from title, primary signal only", target.Marketplace)
		degraded = true
	} else {
		rows, err := e.src.Search(ctx, query, 1)
		if err != nil {
			e.log.Warnf("[%s] supplement search %q failed: %v", target.Marketplace, query, err)
			degraded = true
		} else {
			supplement = searchCandidates(target, rows)
		}
	}

	merged := merge(primary, supplement, e.maxCompetitors)
	e.log.Infof("[%s] discovery: %d related + %d keyword -> %d candidates (degraded=%v)",
		target.Marketplace, len(primary), len(supplement), len(merged), degraded)

	return &Result{Candidates: merged, Degraded: degraded}, nil
}

// relatedCandidates tags the target's related references in the order
// the page surfaced them. The target itself never competes with
// itself.
func relatedCandidates(target *models.Product) []models.CompetitorCandidate {
	var out []models.CompetitorCandidate
	for i, asin := range target.RelatedASINs {
		if asin == target.ASIN {
			continue
		}
		out = append(out, models.CompetitorCandidate{
			ASIN:        asin,
			Marketplace: target.Marketplace,
			Source:      models.SourceRelated,
			Rank:        i + 1,
		})
	}
	return out
}

func searchCandidates(target *models.Product, rows []models.SearchResultRow) []models.CompetitorCandidate {
	var out []models.CompetitorCandidate
	for _, row := range rows {
		if row.ASIN == target.ASIN {
			continue
		}
		out = append(out, models.CompetitorCandidate{
			ASIN:        row.ASIN,
			Marketplace: target.Marketplace,
			Source:      models.SourceKeywordSearch,
			Rank:        row.Position,
		})
	}
	return out
}

// merge unions both passes by identifier. A candidate surfaced by both
// keeps the related tag and rank: the page's own reference is the
// higher-confidence signal, so the keyword duplicate is dropped. The
// cap keeps related entries first, then fills remaining slots from the
// keyword pass in rank order.
func merge(primary, supplement []models.CompetitorCandidate, limit int) []models.CompetitorCandidate {
	seen := make(map[string]struct{}, len(primary))
	merged := make([]models.CompetitorCandidate, 0, len(primary)+len(supplement))

	for _, c := range primary {
		if _, dup := seen[c.ASIN]; dup {
			continue
		}
		seen[c.ASIN] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range supplement {
		if _, dup := seen[c.ASIN]; dup {
			continue
		}
		seen[c.ASIN] = struct{}{}
		merged = append(merged, c)
	}

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
