package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "negative page size",
			mutate: func(cfg *Config) {
				cfg.PageSize = -1
			},
			wantErr: "page size",
		},
		{
			name: "zero retry attempts",
			mutate: func(cfg *Config) {
				cfg.RetryAttempts = 0
			},
			wantErr: "retry attempts",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "threshold out of range",
			mutate: func(cfg *Config) {
				cfg.VideocardRareThreshold = 1.5
			},
			wantErr: "videocard rare threshold",
		},
		{
			name: "unknown output format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laptops.yaml")
	content := `
base_url: http://example.test
page_size: 12
retry_cooldown: 2s
cookie: "MVID_CITY_ID=CityCZ_975; MVID_REGION_ID=1"
headers:
  x-set-application-id: web
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://example.test" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.PageSize != 12 {
		t.Fatalf("page size = %d, want 12", cfg.PageSize)
	}
	if cfg.RetryCooldown != 2*time.Second {
		t.Fatalf("retry cooldown = %v, want 2s", cfg.RetryCooldown)
	}
	if cfg.Cookie != "MVID_CITY_ID=CityCZ_975; MVID_REGION_ID=1" {
		t.Fatalf("cookie = %q", cfg.Cookie)
	}
	if cfg.Headers["x-set-application-id"] != "web" {
		t.Fatalf("headers = %v", cfg.Headers)
	}
	if cfg.CategoryID != "118" || cfg.RetryAttempts != 5 {
		t.Fatalf("defaults not preserved: category=%q attempts=%d", cfg.CategoryID, cfg.RetryAttempts)
	}
	if cfg.NamesBody["multioffer"] != false {
		t.Fatalf("names body should keep defaults, got %v", cfg.NamesBody)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LAPTOPS_CATEGORY_ID", "205")
	t.Setenv("LAPTOPS_THROTTLE", "250ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CategoryID != "205" {
		t.Fatalf("category = %q, want 205", cfg.CategoryID)
	}
	if cfg.Throttle != 250*time.Millisecond {
		t.Fatalf("throttle = %v, want 250ms", cfg.Throttle)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestProductURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://example.test/"
	got := cfg.ProductURL("noutbuk-acer-aspire", "30064063")
	want := "http://example.test/products/noutbuk-acer-aspire-30064063"
	if got != want {
		t.Fatalf("product url = %q, want %q", got, want)
	}
}
