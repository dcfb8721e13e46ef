// Package dataset persists collection artifacts and assembles the raw
// feature table from them.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-scrape-laptops/models"
)

// Artifact file names inside the output directory.
const (
	IDsPerPageFile      = "all_products_ids_per_page.json"
	PricesFile          = "product_prices_per_id.json"
	NamesFile           = "product_translit_names.json"
	CharacteristicsFile = "product_characteristics.json"
	UnfilteredFile      = "unfiltered_features.parquet"
	CleanCSVFile        = "clean_data.csv"
	CleanJSONFile       = "clean_data.jsonl"
)

// ErrNoRows is returned when there is nothing to assemble.
var ErrNoRows = errors.New("dataset: no rows")

// SaveJSON writes v as indented UTF-8 JSON, replacing any existing file.
// Non-ASCII text is written as is.
func SaveJSON(path string, v any) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadJSON decodes the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SaveScrapeResult writes the four collection artifacts into dir.
func SaveScrapeResult(dir string, result *models.ScrapeResult) error {
	artifacts := []struct {
		name  string
		value any
	}{
		{IDsPerPageFile, result.IDsPerPage},
		{PricesFile, result.Prices},
		{NamesFile, result.Names},
		{CharacteristicsFile, result.Characteristics},
	}
	for _, artifact := range artifacts {
		if err := SaveJSON(filepath.Join(dir, artifact.name), artifact.value); err != nil {
			return err
		}
	}
	return nil
}

// LoadPrices reads a product_prices_per_id artifact.
func LoadPrices(path string) (map[string]models.PriceRecord, error) {
	prices := make(map[string]models.PriceRecord)
	if err := LoadJSON(path, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// LoadCharacteristics reads a product_characteristics artifact.
func LoadCharacteristics(path string) (map[string]models.Characteristics, error) {
	characteristics := make(map[string]models.Characteristics)
	if err := LoadJSON(path, &characteristics); err != nil {
		return nil, err
	}
	return characteristics, nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
