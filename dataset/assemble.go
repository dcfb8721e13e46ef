package dataset

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/aluiziolira/go-scrape-laptops/models"
)

// Assemble right-joins characteristics onto the price table. Every priced
// product yields exactly one row, ordered by product id; products without a
// price are dropped.
func Assemble(characteristics map[string]models.Characteristics, prices map[string]models.PriceRecord) []models.RawRow {
	rows := make([]models.RawRow, 0, len(prices))
	for _, id := range slices.Sorted(maps.Keys(prices)) {
		chars := maps.Clone(characteristics[id])
		if chars == nil {
			chars = models.Characteristics{}
		}
		rows = append(rows, models.RawRow{
			ProductID:       id,
			Characteristics: chars,
			Price:           prices[id],
		})
	}
	return rows
}

// AssembleFiles loads the characteristics and price artifacts, joins them
// and writes the parquet table to outPath.
func AssembleFiles(charsPath, pricesPath, outPath string) ([]models.RawRow, error) {
	characteristics, err := LoadCharacteristics(charsPath)
	if err != nil {
		return nil, err
	}
	prices, err := LoadPrices(pricesPath)
	if err != nil {
		return nil, err
	}

	rows := Assemble(characteristics, prices)
	if len(rows) == 0 {
		return nil, fmt.Errorf("assemble %s: %w", outPath, ErrNoRows)
	}
	slog.Info("raw dataset assembled",
		slog.Int("rows", len(rows)),
		slog.Int("characteristics", len(characteristics)),
		slog.Int("unpriced_dropped", countMissing(characteristics, prices)),
	)

	if err := WriteParquet(outPath, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func countMissing(characteristics map[string]models.Characteristics, prices map[string]models.PriceRecord) int {
	n := 0
	for id := range characteristics {
		if _, ok := prices[id]; !ok {
			n++
		}
	}
	return n
}
