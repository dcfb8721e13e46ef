package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/dataset"
	"github.com/aluiziolira/go-scrape-laptops/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func init() {
	flags := scrapeCmd.Flags()
	flags.String("metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	flags.String("category", "", "Catalog category id")
	flags.Int("page-size", 0, "Listing page size; 0 uses the size of the first page")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collects ids, names, prices and characteristics, then assembles the raw table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		slog.Info("starting scrape",
			slog.String("base_url", cfg.BaseURL),
			slog.String("category", cfg.CategoryID),
			slog.String("output_dir", cfg.OutputDir),
		)

		s, err := scraper.NewScraper(cfg)
		if err != nil {
			return fmt.Errorf("initialise scraper: %w", err)
		}

		var metricsServer *http.Server
		if cfg.MetricsAddr != "" && s.Metrics != nil {
			metricsServer = &http.Server{
				Addr:    cfg.MetricsAddr,
				Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
			}
			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("metrics server failed", slog.Any("error", err))
				}
			}()
			slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					slog.Error("metrics server shutdown failed", slog.Any("error", err))
				}
			}()
		}

		result, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("scraping failed: %w", err)
		}
		if err := dataset.SaveScrapeResult(cfg.OutputDir, result); err != nil {
			return fmt.Errorf("save artifacts: %w", err)
		}

		rawPath := cfg.OutputPath(dataset.UnfilteredFile)
		rows, err := dataset.AssembleFiles(
			cfg.OutputPath(dataset.CharacteristicsFile),
			cfg.OutputPath(dataset.PricesFile),
			rawPath,
		)
		switch {
		case errors.Is(err, dataset.ErrNoRows):
			slog.Warn("no priced products, raw table not written")
		case err != nil:
			return fmt.Errorf("assemble raw table: %w", err)
		}

		printScrapeSummary(cmd.OutOrStdout(), result, len(rows), rawPath)
		return nil
	},
}
