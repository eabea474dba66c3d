package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/logging"
	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/models"
	"github.com/wzlphp/asin-ai/parser"
	"github.com/wzlphp/asin-ai/session"
	"github.com/wzlphp/asin-ai/utils"
)

// keywordscan checks where a set of ASINs rank for a set of keywords
// and writes the result as CSV. It is the keyword-visibility scan from
// the analyzer, runnable on its own against hand-picked ASINs.
func main() {
	keywordsFlag := flag.String("keywords", "", "comma-separated keywords to scan (required)")
	asinsFlag := flag.String("asins", "", "comma-separated ASINs to locate (required)")
	market := flag.String("marketplace", "us", "marketplace code: "+strings.Join(marketplace.Codes(), ", "))
	pages := flag.Int("pages", 0, "search pages to scan per keyword (default: from config)")
	outFile := flag.String("out", "rankings.csv", "output CSV filename")
	headless := flag.Bool("headless", true, "run the browser headless")
	flag.Parse()

	cfg := config.Default()
	cfg.Browser.Headless = *headless
	if *pages > 0 {
		cfg.Keywords.ScanPages = *pages
	}

	log, err := logging.New(cfg.Environment)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	keywords := splitTrim(*keywordsFlag, ",")
	if len(keywords) == 0 {
		log.Fatal("missing required -keywords flag")
	}
	var asins []string
	for _, raw := range splitTrim(*asinsFlag, ",") {
		asin, err := marketplace.NormalizeASIN(raw)
		if err != nil {
			log.Fatalf("invalid ASIN %q: %v", raw, err)
		}
		asins = append(asins, asin)
	}
	if len(asins) == 0 {
		log.Fatal("missing required -asins flag")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(cfg, log)
	defer sessions.Close()

	sess, err := sessions.Acquire(*market)
	if err != nil {
		log.Fatalf("acquire session: %v", err)
	}

	log.Infof("[%s] scanning %d keywords for %d ASINs, %d pages each",
		sess.Locale.Code, len(keywords), len(asins), cfg.Keywords.ScanPages)

	var rankings []models.KeywordRanking
	for _, kw := range keywords {
		rows, err := collectPages(ctx, sess, kw, cfg.Keywords.ScanPages, log)
		if err != nil {
			log.Warnf("[%s] keyword %q failed: %v", sess.Locale.Code, kw, err)
			continue
		}
		log.Infof("[%s] keyword %q: %d rows", sess.Locale.Code, kw, len(rows))

		byASIN := make(map[string]models.SearchResultRow, len(rows))
		for _, r := range rows {
			if _, seen := byASIN[r.ASIN]; !seen {
				byASIN[r.ASIN] = r
			}
		}
		for _, asin := range asins {
			ranking := models.KeywordRanking{
				Keyword:     kw,
				Marketplace: sess.Locale.Code,
				ASIN:        asin,
				ScanDepth:   cfg.Keywords.ScanPages,
			}
			if row, found := byASIN[asin]; found {
				pos := row.Position
				ranking.Position = &pos
				ranking.Sponsored = row.Sponsored
			}
			rankings = append(rankings, ranking)
		}
	}

	if err := utils.WriteRankingsCSV(*outFile, rankings); err != nil {
		log.Fatalf("write %s: %v", *outFile, err)
	}
	log.Infof("DONE — %d ranking rows -> %s", len(rankings), *outFile)
}

// collectPages walks a keyword's result pages, rebasing positions onto
// the accumulated total. A challenge page aborts the keyword; a
// deep-page failure keeps what was already collected.
func collectPages(ctx context.Context, sess *session.Session, keyword string, depth int, log *zap.SugaredLogger) ([]models.SearchResultRow, error) {
	var all []models.SearchResultRow
	for page := 1; page <= depth; page++ {
		raw, err := sess.FetchSearch(ctx, keyword, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.Warnf("keyword %q page %d failed, keeping %d rows: %v", keyword, page, len(all), err)
			break
		}
		if raw.Status != models.PageOK {
			if page == 1 {
				return nil, models.ErrChallengeDetected
			}
			break
		}
		rows, err := parser.ParseSearchResults(raw.HTML, sess.Locale.Code)
		if err != nil {
			return nil, err
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

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
