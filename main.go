package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/wzlphp/asin-ai/cache"
	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/logging"
	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/services"
	"github.com/wzlphp/asin-ai/session"
	"github.com/wzlphp/asin-ai/storage"
	"github.com/wzlphp/asin-ai/utils"
)

func main() {
	asin := flag.String("asin", "", "target ASIN (10-char alphanumeric)")
	market := flag.String("marketplace", "us", "marketplace code: "+strings.Join(marketplace.Codes(), ", "))
	keywords := flag.String("keywords", "", "comma-separated keywords (default: derived from title)")
	out := flag.String("out", "", "output JSON file (default: from config)")
	screenshot := flag.String("screenshot", "", "optional PNG file for a target page screenshot")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *out != "" {
		cfg.OutFile = *out
	}

	log, err := logging.New(cfg.Environment)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if *asin == "" {
		log.Fatal("missing required -asin flag")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(cfg, log)
	defer sessions.Close()

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		mem := cache.NewMemory(cfg.Cache.TTL)
		defer mem.Close()
		resultCache = mem
	}

	var store *storage.PostgresStore
	if cfg.DB.Enabled {
		store, err = storage.NewPostgresStore(cfg.DB)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer store.Close()
	}

	req := services.Request{ASIN: *asin, Marketplace: *market}
	if *keywords != "" {
		for _, kw := range strings.Split(*keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				req.Keywords = append(req.Keywords, kw)
			}
		}
	}

	analyzer := services.NewAnalyzer(cfg, sessions, resultCache, store, log)
	result, err := analyzer.Analyze(ctx, req)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if err := utils.WriteJSON(cfg.OutFile, result); err != nil {
		log.Fatalf("write %s: %v", cfg.OutFile, err)
	}

	if *screenshot != "" {
		sess, err := sessions.Acquire(*market)
		if err != nil {
			log.Fatalf("acquire session: %v", err)
		}
		png, err := sess.CaptureScreenshot(ctx, result.Target.ASIN, "")
		if err != nil {
			log.Warnf("screenshot failed: %v", err)
		} else if err := os.WriteFile(*screenshot, png, 0o644); err != nil {
			log.Warnf("write %s: %v", *screenshot, err)
		} else {
			log.Infof("screenshot -> %s", *screenshot)
		}
	}

	log.Infof("DONE — %s (%s) -> %s", result.Target.ASIN, result.Target.Marketplace, cfg.OutFile)
	log.Infof("  target     : %s", result.Target.Title)
	log.Infof("  competitors: %d", len(result.Competitors))
	for _, c := range result.Competitors {
		title := "(unresolved)"
		if c.Product != nil {
			title = c.Product.Title
		}
		log.Infof("    %-12s %-10s %s", c.ASIN, c.Tier, title)
	}
	log.Infof("  reviews    : %d sampled", len(result.Reviews))
	log.Infof("  rankings   : %d rows across %d keywords",
		len(result.Rankings), len(result.Comparison.Keywords.Keywords))
	if result.Degraded {
		log.Warn("  result is degraded: keyword-search supplement unavailable")
	}
}
