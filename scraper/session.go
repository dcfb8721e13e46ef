package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/gocolly/colly/v2"
)

// Session issues JSON API requests through one colly backend. Every call
// runs on a clone of the base collector, so callbacks stay per-request while
// the HTTP client and its connection pool are shared.
type Session struct {
	collector *colly.Collector
	headers   http.Header
	metrics   *Metrics

	requestCount int
	errorsByType map[string]int
}

// NewSession configures the shared collector from cfg.
func NewSession(cfg *config.Config, metrics *Metrics) (*Session, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	// colly only applies its own UserAgent when no headers are passed.
	headers.Set("User-Agent", cfg.UserAgent)
	for key, value := range cfg.Headers {
		headers.Set(key, value)
	}
	if cfg.Cookie != "" {
		headers.Set("Cookie", cfg.Cookie)
	}

	return &Session{
		collector:    collector,
		headers:      headers,
		metrics:      metrics,
		errorsByType: make(map[string]int),
	}, nil
}

// Do sends one request and returns the response body. A non-nil body is sent
// as JSON. Failures come back classified as *RequestError.
func (s *Session) Do(ctx context.Context, phase, method, endpoint string, query url.Values, body []byte, extra http.Header) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	hdr := s.headers.Clone()
	for key, values := range extra {
		hdr[key] = values
	}
	var requestData io.Reader
	if body != nil {
		requestData = bytes.NewReader(body)
		hdr.Set("Content-Type", "application/json")
	}

	c := s.collector.Clone()
	var (
		payload []byte
		status  int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		payload = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	s.requestCount++
	s.metrics.IncRequest(phase)
	start := time.Now()
	err := c.Request(method, target, requestData, colly.NewContext(), hdr)
	s.metrics.ObserveDuration(phase, time.Since(start))

	if err != nil {
		classified := classifyError(err, status)
		s.recordError(phase, classified)
		slog.Debug("request failed",
			slog.String("phase", phase),
			slog.String("url", target),
			slog.String("category", errorTypeLabel(classified)),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, classified)
	}
	return payload, nil
}

// recordError counts a failed request, including responses that arrived but
// could not be decoded.
func (s *Session) recordError(phase string, err error) {
	category := errorTypeLabel(err)
	s.errorsByType[category]++
	s.metrics.IncError(category)
	if category == string(KindDecode) {
		slog.Debug("response decode failed", slog.String("phase", phase), slog.Any("error", err))
	}
}

// WithTransport swaps the HTTP transport of the shared backend.
func (s *Session) WithTransport(transport http.RoundTripper) {
	s.collector.WithTransport(transport)
}

// RequestCount returns the number of requests issued so far.
func (s *Session) RequestCount() int {
	return s.requestCount
}

func (s *Session) snapshotErrors() map[string]int {
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}
