package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// API paths relative to BaseURL.
const (
	ListingPath     = "/bff/products/listing"
	NamesPath       = "/bff/product-details/list"
	PricesPath      = "/bff/products/prices"
	DetailsPath     = "/bff/product-details"
	ProductPagePath = "/products/"
)

// Config holds scraper and cleaning configuration. Collection functions take
// it by pointer but never mutate it.
type Config struct {
	BaseURL    string            `mapstructure:"base_url"`
	CategoryID string            `mapstructure:"category_id"`
	PageSize   int               `mapstructure:"page_size"`
	Headers    map[string]string `mapstructure:"headers"`
	// Cookie is the raw Cookie header copied from a browser session.
	Cookie     string            `mapstructure:"cookie"`
	PriceQuery map[string]string `mapstructure:"price_query"`
	NamesBody  map[string]any    `mapstructure:"-"`
	UserAgent  string            `mapstructure:"user_agent"`
	Timeout    time.Duration     `mapstructure:"timeout"`

	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryCooldown time.Duration `mapstructure:"retry_cooldown"`
	Throttle      time.Duration `mapstructure:"throttle"`
	DedupeMaxSize int           `mapstructure:"dedupe_max_size"`

	OutputDir    string `mapstructure:"output_dir"`
	OutputFormat string `mapstructure:"output_format"` // csv, json, or dual

	RareThreshold          float64 `mapstructure:"rare_threshold"`
	VideocardRareThreshold float64 `mapstructure:"videocard_rare_threshold"`
	PopularProcThreshold   float64 `mapstructure:"popular_proc_threshold"`

	InferenceURL     string        `mapstructure:"inference_url"`
	InferenceAPIKey  string        `mapstructure:"inference_api_key"`
	InferenceTimeout time.Duration `mapstructure:"inference_timeout"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	Verbose     bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the request parameters the catalog API expects for
// the laptop category along with conservative pacing.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://www.mvideo.ru",
		CategoryID: "118",
		PageSize:   24,
		Headers:    map[string]string{},
		PriceQuery: map[string]string{
			"addBonusRubles": "true",
			"isPromoApplied": "true",
		},
		NamesBody: map[string]any{
			"mediaTypes":       []string{"images"},
			"category":         true,
			"status":           true,
			"brand":            true,
			"propertyTypes":    []string{"KEY"},
			"propertiesConfig": map[string]any{"propertiesPortionSize": 5},
			"multioffer":       false,
		},
		UserAgent:              "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Timeout:                15 * time.Second,
		RetryAttempts:          5,
		RetryCooldown:          40 * time.Second,
		Throttle:               100 * time.Millisecond,
		DedupeMaxSize:          100000,
		OutputDir:              "data",
		OutputFormat:           "csv",
		RareThreshold:          0.05,
		VideocardRareThreshold: 0.03,
		PopularProcThreshold:   0.05,
		InferenceURL:           "https://njs0kuvzkj.execute-api.us-west-1.amazonaws.com/prod/predict-price",
		InferenceTimeout:       30 * time.Second,
	}
}

// Load reads an optional config file and LAPTOPS_* environment variables on
// top of DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("LAPTOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("category_id", cfg.CategoryID)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("cookie", cfg.Cookie)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("retry_attempts", cfg.RetryAttempts)
	v.SetDefault("retry_cooldown", cfg.RetryCooldown)
	v.SetDefault("throttle", cfg.Throttle)
	v.SetDefault("dedupe_max_size", cfg.DedupeMaxSize)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("rare_threshold", cfg.RareThreshold)
	v.SetDefault("videocard_rare_threshold", cfg.VideocardRareThreshold)
	v.SetDefault("popular_proc_threshold", cfg.PopularProcThreshold)
	v.SetDefault("inference_url", cfg.InferenceURL)
	v.SetDefault("inference_api_key", cfg.InferenceAPIKey)
	v.SetDefault("inference_timeout", cfg.InferenceTimeout)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("verbose", cfg.Verbose)
}

// Endpoint joins an API path onto BaseURL.
func (c *Config) Endpoint(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

// ProductURL builds the canonical product page URL.
func (c *Config) ProductURL(translitName, productID string) string {
	return c.Endpoint(ProductPagePath) + translitName + "-" + productID
}

// OutputPath places an artifact file name inside OutputDir.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.CategoryID == "" {
		return fmt.Errorf("category id cannot be empty")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page size cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be positive")
	}
	if c.RetryCooldown < 0 {
		return fmt.Errorf("retry cooldown cannot be negative")
	}
	if c.Throttle < 0 {
		return fmt.Errorf("throttle cannot be negative")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	for name, threshold := range map[string]float64{
		"rare threshold":           c.RareThreshold,
		"videocard rare threshold": c.VideocardRareThreshold,
		"popular proc threshold":   c.PopularProcThreshold,
	} {
		if threshold < 0 || threshold >= 1 {
			return fmt.Errorf("%s must be in [0, 1)", name)
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
