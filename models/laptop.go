// Package models defines data structures shared by the scraper, the dataset
// assembler and the cleaning pipeline.
package models

import "time"

// Keys that the characteristics fetcher adds next to the flattened properties.
const (
	KeyURL   = "url"
	KeyBrand = "brand_name"
)

// PriceRecord holds the three price kinds reported for one product.
type PriceRecord struct {
	BasePrice      *float64 `json:"basePrice"`
	BasePromoPrice *float64 `json:"basePromoPrice"`
	SalePrice      *float64 `json:"salePrice"`
}

// Characteristics is the flattened "{category}_{property}" map of one product
// plus the brand and canonical URL. Values are kept as raw strings.
type Characteristics map[string]string

// URL returns the canonical product page URL.
func (c Characteristics) URL() string {
	return c[KeyURL]
}

// Degraded reports whether the record only carries the canonical URL.
func (c Characteristics) Degraded() bool {
	return c.URL() != "" && len(c) == 1
}

// RawRow is one product of the unfiltered feature table: characteristics
// right-joined onto the price table.
type RawRow struct {
	ProductID       string
	Characteristics Characteristics
	Price           PriceRecord
}

// Has reports whether the characteristic was present in the source, even
// with an empty value.
func (r RawRow) Has(key string) bool {
	_, ok := r.Characteristics[key]
	return ok
}

// Value returns a characteristic and whether it is present and non-empty.
func (r RawRow) Value(key string) (string, bool) {
	v, ok := r.Characteristics[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// CleanRow is the typed feature row produced by the cleaning pipeline.
// Nil pointers and empty strings mark missing values.
type CleanRow struct {
	BrandName       string   `json:"brand_name"`
	PriceLog        *float64 `json:"priceLog,omitempty"`
	ProcFreq        *float64 `json:"proc_freq"`
	ProcBrand       string   `json:"proc_brand"`
	ProcName        string   `json:"proc_name"`
	ProcCount       *float64 `json:"proc_count"`
	Videocard       string   `json:"videocard"`
	VideocardMemory *float64 `json:"videocard_memory"`
	Screen          *float64 `json:"screen"`
	SSDVolume       float64  `json:"ssd_volume"`
	RAM             *float64 `json:"ram"`
	HDMI            bool     `json:"hdmi"`
	Material        string   `json:"material"`
	BatteryLife     *float64 `json:"battery_life"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// ScrapeResult holds everything one collection run produced.
type ScrapeResult struct {
	IDsPerPage      map[int][]string
	Names           map[string]string
	Prices          map[string]PriceRecord
	Characteristics map[string]Characteristics

	StartTime      time.Time
	EndTime        time.Time
	PageCount      int
	ProductCount   int
	DuplicateCount int
	SkippedCount   int
	DegradedCount  int
	RequestCount   int
	RetryCount     int
	ErrorCount     int
	ErrorsByType   map[string]int
}
