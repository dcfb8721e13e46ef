package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/aluiziolira/go-scrape-laptops/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Scraper walks the laptop catalog one page and one product at a time.
type Scraper struct {
	cfg     *config.Config
	session *Session
	Metrics *Metrics

	// seen holds ids whose characteristics were already requested.
	seen  *lru.Cache[string, struct{}]
	sleep func(context.Context, time.Duration) error

	retryCount    int
	degradedCount int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	metrics := NewMetrics()
	session, err := NewSession(cfg, metrics)
	if err != nil {
		return nil, err
	}
	seen, err := lru.New[string, struct{}](cfg.DedupeMaxSize)
	if err != nil {
		return nil, fmt.Errorf("create dedupe cache: %w", err)
	}

	return &Scraper{
		cfg:     cfg,
		session: session,
		Metrics: metrics,
		seen:    seen,
		sleep:   sleepContext,
	}, nil
}

// Session exposes the underlying API session.
func (s *Scraper) Session() *Session {
	return s.session
}

// Run collects ids, names, prices and characteristics for the whole catalog.
// Only a listing failure aborts the run; cancelling ctx stops it early with
// whatever was collected so far.
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeResult, error) {
	start := time.Now()

	idsPerPage, err := s.ProductIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect product ids: %w", err)
	}

	result := &models.ScrapeResult{
		IDsPerPage:      idsPerPage,
		Names:           make(map[string]string),
		Prices:          make(map[string]models.PriceRecord),
		Characteristics: make(map[string]models.Characteristics),
		StartTime:       start,
		PageCount:       len(idsPerPage),
	}

	pages := slices.Sorted(maps.Keys(idsPerPage))
pageLoop:
	for _, page := range pages {
		ids := idsPerPage[page]
		slog.Info("collecting page",
			slog.Int("page", page),
			slog.Int("of", len(pages)),
			slog.Int("products", len(ids)),
		)

		maps.Copy(result.Names, s.ProductNames(ctx, page, ids))
		maps.Copy(result.Prices, s.ProductPrices(ctx, page, ids))

		for _, id := range ids {
			if ctx.Err() != nil {
				slog.Warn("collection interrupted", slog.Int("page", page), slog.Any("error", ctx.Err()))
				break pageLoop
			}
			if s.seen.Contains(id) {
				result.DuplicateCount++
				continue
			}
			s.seen.Add(id, struct{}{})
			result.ProductCount++

			name, ok := result.Names[id]
			if !ok {
				result.SkippedCount++
				slog.Warn("skipping characteristics without resolved name", slog.String("id", id))
				continue
			}

			maps.Copy(result.Characteristics, s.ProductCharacteristics(ctx, id, name))
			s.Metrics.IncProducts()
			if err := s.sleep(ctx, s.cfg.Throttle); err != nil {
				slog.Debug("throttle interrupted", slog.Any("error", err))
			}
		}
	}

	result.EndTime = time.Now()
	result.RequestCount = s.session.RequestCount()
	result.RetryCount = s.retryCount
	result.DegradedCount = s.degradedCount
	result.ErrorsByType = s.session.snapshotErrors()
	for _, count := range result.ErrorsByType {
		result.ErrorCount += count
	}
	return result, nil
}

func (s *Scraper) retryPolicy() retryPolicy {
	return retryPolicy{
		attempts: s.cfg.RetryAttempts,
		cooldown: s.cfg.RetryCooldown,
		sleep:    s.sleep,
	}
}
