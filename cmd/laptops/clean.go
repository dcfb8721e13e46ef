package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aluiziolira/go-scrape-laptops/dataset"
	"github.com/aluiziolira/go-scrape-laptops/pipeline"
	"github.com/spf13/cobra"
)

var cleanInput string

func init() {
	rootCmd.AddCommand(assembleCmd)

	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "Raw parquet table (default <output-dir>/unfiltered_features.parquet)")
	cleanCmd.Flags().String("format", "", "Output format: csv, json, or dual")
	rootCmd.AddCommand(cleanCmd)
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Joins the characteristics and price artifacts into the raw parquet table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cfg.OutputPath(dataset.UnfilteredFile)
		rows, err := dataset.AssembleFiles(
			cfg.OutputPath(dataset.CharacteristicsFile),
			cfg.OutputPath(dataset.PricesFile),
			out,
		)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), out)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Cleans the raw table into the feature table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cleanInput
		if input == "" {
			input = cfg.OutputPath(dataset.UnfilteredFile)
		}
		rows, err := dataset.ReadParquet(input)
		if err != nil {
			return err
		}

		filename := cfg.OutputPath(dataset.CleanCSVFile)
		writer, err := createWriter(strings.ToLower(cfg.OutputFormat), filename)
		if err != nil {
			return fmt.Errorf("create writer: %w", err)
		}

		p := pipeline.NewPipeline(writer, pipeline.OptionsFromConfig(cfg))
		report, runErr := p.Run(rows)
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
		if runErr != nil {
			return fmt.Errorf("cleaning failed: %w", runErr)
		}

		printCleanSummary(cmd.OutOrStdout(), report, p.GetMetrics(), filename)
		return nil
	},
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	jsonFilename := strings.TrimSuffix(filename, ".csv") + ".jsonl"
	switch format {
	case "json":
		return pipeline.NewJSONWriter(jsonFilename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		return pipeline.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
