// Package pipeline turns the raw feature table into the clean, typed feature
// table and writes it out.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/aluiziolira/go-scrape-laptops/models"
)

var (
	// ErrNoRows is returned when the raw table is empty.
	ErrNoRows = errors.New("pipeline: no rows")
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(rows []*models.CleanRow) error
	Close() error
	Validate() error
}

// Options holds the category thresholds used by the cleaning stages.
type Options struct {
	RareThreshold          float64
	VideocardRareThreshold float64
	PopularProcThreshold   float64
}

// DefaultOptions returns the thresholds of DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig picks the cleaning thresholds out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RareThreshold:          cfg.RareThreshold,
		VideocardRareThreshold: cfg.VideocardRareThreshold,
		PopularProcThreshold:   cfg.PopularProcThreshold,
	}
}

// Report summarises one cleaning run.
type Report struct {
	Rows     int
	Imputed  map[string]int
	Missing  map[string]int
	Duration time.Duration
}

// Clean runs every stage over rows in order and returns one clean row per raw
// row. Grouped statistics are computed from rows alone.
func Clean(rows []models.RawRow, opts Options) ([]*models.CleanRow, Report, error) {
	start := time.Now()
	if len(rows) == 0 {
		return nil, Report{}, ErrNoRows
	}

	t := newTable(rows)
	for _, s := range stages {
		s.apply(t, opts)
		slog.Debug("cleaning stage done", slog.String("stage", s.name), slog.Int("rows", len(t.out)))
	}

	report := Report{
		Rows:     len(t.out),
		Imputed:  impute(t.out),
		Missing:  countMissing(t.out),
		Duration: time.Since(start),
	}
	return t.out, report, nil
}

// Pipeline cleans a raw table and streams the result to a writer in batches.
type Pipeline struct {
	writer    OutputWriter
	opts      Options
	batchSize int

	metrics metrics
}

// NewPipeline builds a pipeline writing to writer.
func NewPipeline(writer OutputWriter, opts Options) *Pipeline {
	return &Pipeline{
		writer:    writer,
		opts:      opts,
		batchSize: 64,
		metrics:   newMetrics(),
	}
}

// Run cleans rows, writes them and validates the output.
func (p *Pipeline) Run(rows []models.RawRow) (Report, error) {
	clean, report, err := Clean(rows, p.opts)
	if err != nil {
		return report, err
	}
	for column, n := range report.Imputed {
		p.metrics.addImputed(column, n)
	}

	for start := 0; start < len(clean); start += p.batchSize {
		batch := clean[start:min(start+p.batchSize, len(clean))]
		if err := p.writer.Write(batch); err != nil {
			return report, fmt.Errorf("write batch: %w", err)
		}
		p.metrics.addProcessed(len(batch))
	}

	if err := p.writer.Validate(); err != nil {
		return report, fmt.Errorf("validate output: %w", err)
	}
	return report, nil
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

type metrics struct {
	mu        sync.Mutex
	processed int64
	imputed   map[string]int
}

func newMetrics() metrics {
	return metrics{
		imputed: make(map[string]int),
	}
}

func (m *metrics) addProcessed(n int) {
	m.mu.Lock()
	m.processed += int64(n)
	m.mu.Unlock()
}

func (m *metrics) addImputed(column string, n int) {
	m.mu.Lock()
	m.imputed[column] += n
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyImputed := make(map[string]int, len(m.imputed))
	for k, v := range m.imputed {
		copyImputed[k] = v
	}

	return map[string]interface{}{
		"processed_rows": m.processed,
		"imputed_values": copyImputed,
	}
}
