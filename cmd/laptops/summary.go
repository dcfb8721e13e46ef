package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/aluiziolira/go-scrape-laptops/pipeline"
	"github.com/aluiziolira/go-scrape-laptops/predict"
	"github.com/jedib0t/go-pretty/v6/table"
)

func printScrapeSummary(out io.Writer, result *models.ScrapeResult, rows int, rawPath string) {
	duration := result.EndTime.Sub(result.StartTime)
	rate := 0.0
	if duration > 0 {
		rate = float64(result.ProductCount) / duration.Seconds()
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Scrape summary")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Duration", duration.Round(time.Millisecond)},
		{"Pages", result.PageCount},
		{"Products", result.ProductCount},
		{"Duplicates", result.DuplicateCount},
		{"Skipped (no name)", result.SkippedCount},
		{"Priced", len(result.Prices)},
		{"Degraded characteristics", result.DegradedCount},
		{"Requests", result.RequestCount},
		{"Retries", result.RetryCount},
		{"Errors", result.ErrorCount},
		{"Products/sec", fmt.Sprintf("%.2f", rate)},
		{"Raw rows", rows},
		{"Raw table", rawPath},
	})
	for _, kind := range sortedKeys(result.ErrorsByType) {
		t.AppendRow(table.Row{"  " + kind, result.ErrorsByType[kind]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printCleanSummary(out io.Writer, report pipeline.Report, metrics map[string]interface{}, filename string) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Cleaning summary")
	t.AppendHeader(table.Row{"Column", "Imputed", "Still missing"})
	for _, column := range pipeline.Columns {
		t.AppendRow(table.Row{column, report.Imputed[column], report.Missing[column]})
	}
	t.AppendFooter(table.Row{"Rows", metrics["processed_rows"], report.Duration.Round(time.Millisecond)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(out, "Output: %s\n", filename)
}

func printPrediction(out io.Writer, price predict.Range) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Min price", "Max price"})
	t.AppendRow(table.Row{fmt.Sprintf("%.0f", price.Min), fmt.Sprintf("%.0f", price.Max)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
