package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/aluiziolira/go-scrape-laptops/models"
)

type detailsResponse struct {
	Body *detailsBody `json:"body"`
}

type detailsBody struct {
	BrandName  string `json:"brandName"`
	Properties *struct {
		All []propertyGroup `json:"all"`
	} `json:"properties"`
}

type propertyGroup struct {
	Name       string     `json:"name"`
	Properties []property `json:"properties"`
}

type property struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// ProductCharacteristics fetches the property sheet of one product. When
// every attempt fails the product is still returned, carrying only its
// canonical URL.
func (s *Scraper) ProductCharacteristics(ctx context.Context, productID, translitName string) map[string]models.Characteristics {
	productURL := s.cfg.ProductURL(translitName, productID)
	query := url.Values{"productId": {productID}}
	hdr := http.Header{}
	hdr.Set("Referer", productURL)

	onRetry := func(attempt int, err error) {
		s.retryCount++
		s.Metrics.IncRetries()
		if attempt == 1 {
			slog.Warn("characteristics fetch failed, cooling down",
				slog.String("id", productID),
				slog.Duration("cooldown", s.cfg.RetryCooldown),
				slog.Any("error", err),
			)
		}
	}

	result := withRetry(ctx, s.retryPolicy(), onRetry, func() (*detailsBody, error) {
		payload, err := s.session.Do(ctx, phaseCharacteristics, http.MethodGet, s.cfg.Endpoint(config.DetailsPath), query, nil, hdr)
		if err != nil {
			return nil, err
		}
		body, err := decodeDetails(payload)
		if err != nil {
			s.session.recordError(phaseCharacteristics, err)
		}
		return body, err
	})

	if !result.ok() {
		s.degradedCount++
		s.Metrics.IncDegraded()
		slog.Error("characteristics unavailable",
			slog.String("id", productID),
			slog.Int("attempts", result.attempts),
			slog.Any("error", result.err),
		)
		return map[string]models.Characteristics{
			productID: {models.KeyURL: productURL},
		}
	}

	return map[string]models.Characteristics{
		productID: flattenProperties(result.value, productURL),
	}
}

func decodeDetails(payload []byte) (*detailsBody, error) {
	var resp detailsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, decodeError(err)
	}
	if resp.Body == nil || resp.Body.Properties == nil {
		return nil, decodeError(ErrMalformed)
	}
	return resp.Body, nil
}

// flattenProperties keys every property as "{category}_{property}".
func flattenProperties(body *detailsBody, productURL string) models.Characteristics {
	out := models.Characteristics{
		models.KeyBrand: body.BrandName,
		models.KeyURL:   productURL,
	}
	for _, category := range body.Properties.All {
		for _, detail := range category.Properties {
			if v, ok := rawString(detail.Value); ok {
				out[category.Name+"_"+detail.Name] = v
			}
		}
	}
	return out
}

// rawString keeps JSON strings unquoted and any other literal verbatim.
// Absent and null values report false so the key stays out of the record;
// an empty string is a present value.
func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}
