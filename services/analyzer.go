package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wzlphp/asin-ai/analysis"
	"github.com/wzlphp/asin-ai/cache"
	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/discovery"
	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/models"
	"github.com/wzlphp/asin-ai/session"
	"github.com/wzlphp/asin-ai/storage"
)

// Request identifies one analysis target. Keywords overrides the
// title-derived keyword set when non-empty.
type Request struct {
	ASIN        string
	Marketplace string
	Keywords    []string
}

// Analyzer runs the full pipeline: target fetch, competitor discovery
// and resolution, keyword-visibility scan, and comparison assembly.
// Cache and store are optional collaborators; a nil for either just
// disables that concern.
type Analyzer struct {
	cfg      *config.Config
	sessions *session.Manager
	cache    cache.Cache
	store    *storage.PostgresStore
	log      *zap.SugaredLogger
}

func NewAnalyzer(cfg *config.Config, sessions *session.Manager, c cache.Cache, store *storage.PostgresStore, log *zap.SugaredLogger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		sessions: sessions,
		cache:    c,
		store:    store,
		log:      log,
	}
}

// Analyze produces the complete analysis for one ASIN. The target
// fetch is the only hard dependency: a challenge or dead listing there
// fails the run, while competitor, review, and keyword gaps degrade
// the output instead.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.Analysis, error) {
	asin, err := marketplace.NormalizeASIN(req.ASIN)
	if err != nil {
		return nil, err
	}
	locale, err := marketplace.Lookup(req.Marketplace)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(asin, locale.Code); ok {
			a.log.Infof("[%s] cache hit for %s", locale.Code, asin)
			return cached, nil
		}
	}

	sess, err := a.sessions.Acquire(locale.Code)
	if err != nil {
		return nil, err
	}
	src := newProductSource(sess)

	a.log.Infof("[%s] analyzing %s", locale.Code, asin)
	target, err := src.Product(ctx, asin)
	if err != nil {
		return nil, err
	}

	engine := discovery.NewEngine(src, a.cfg.Discovery, a.log)
	result, err := engine.Discover(ctx, target)
	if err != nil {
		return nil, err
	}
	engine.Resolve(ctx, target, result.Candidates)

	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = analysis.KeywordsFromTitle(target.Title)
	}
	rankings := a.scanKeywords(ctx, src, keywords, target, result.Candidates)

	reviews := src.Reviews()
	comparison := analysis.Assemble(analysis.Input{
		Target:      target,
		Competitors: result.Candidates,
		Reviews:     reviews,
		Keywords:    keywords,
		Rankings:    rankings,
		ScanDepth:   a.cfg.Keywords.ScanPages,
		Degraded:    result.Degraded,
	})

	out := &models.Analysis{
		Target:      target,
		Competitors: result.Candidates,
		Reviews:     reviews[asin],
		Rankings:    rankings,
		Comparison:  comparison,
		Degraded:    result.Degraded,
		CreatedAt:   time.Now(),
	}

	if a.cache != nil {
		a.cache.Put(asin, locale.Code, out)
	}
	if a.store != nil {
		if n, err := a.store.SaveAnalysis(ctx, out); err != nil {
			a.log.Warnf("[%s] snapshot persistence failed: %v", locale.Code, err)
		} else {
			a.log.Infof("[%s] persisted %d snapshots", locale.Code, n)
		}
	}

	a.log.Infof("[%s] analysis complete: %d competitors, %d reviews, %d rankings (degraded=%v)",
		locale.Code, len(result.Candidates), len(out.Reviews), len(rankings), out.Degraded)
	return out, nil
}

// scanKeywords searches each keyword across up to the configured
// number of result pages, positions offset-accumulated across pages,
// and records where the target and every competitor landed. An ASIN
// absent from all scanned pages gets a nil position; a failed keyword
// is logged and skipped.
func (a *Analyzer) scanKeywords(ctx context.Context, src discovery.ProductSource, keywords []string, target *models.Product, competitors []models.CompetitorCandidate) []models.KeywordRanking {
	asins := []string{target.ASIN}
	for _, c := range competitors {
		asins = append(asins, c.ASIN)
	}

	depth := a.cfg.Keywords.ScanPages
	var rankings []models.KeywordRanking
	for _, kw := range keywords {
		rows, err := a.collectSearchPages(ctx, src, kw, depth)
		if err != nil {
			a.log.Warnf("[%s] keyword scan %q failed: %v", target.Marketplace, kw, err)
			continue
		}

		byASIN := make(map[string]models.SearchResultRow, len(rows))
		for _, r := range rows {
			if _, seen := byASIN[r.ASIN]; !seen {
				byASIN[r.ASIN] = r
			}
		}

		for _, asin := range asins {
			ranking := models.KeywordRanking{
				Keyword:     kw,
				Marketplace: target.Marketplace,
				ASIN:        asin,
				ScanDepth:   depth,
			}
			if row, found := byASIN[asin]; found {
				pos := row.Position
				ranking.Position = &pos
				ranking.Sponsored = row.Sponsored
			}
			rankings = append(rankings, ranking)
		}
	}
	return rankings
}

// collectSearchPages walks result pages in order, rebasing each page's
// positions onto the accumulated total so ranks stay global. An empty
// page ends the walk early.
func (a *Analyzer) collectSearchPages(ctx context.Context, src discovery.ProductSource, keyword string, depth int) ([]models.SearchResultRow, error) {
	var all []models.SearchResultRow
	for page := 1; page <= depth; page++ {
		rows, err := src.Search(ctx, keyword, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			a.log.Warnf("keyword %q page %d failed, keeping %d rows: %v", keyword, page, len(all), err)
			break
		}
		if len(rows) == 0 {
			break
		}
		offset := len(all)
		for i := range rows {
			rows[i].Position += offset
		}
		all = append(all, rows...)
	}
	return all, nil
}
