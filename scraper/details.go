package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/aluiziolira/go-scrape-laptops/config"
	"github.com/aluiziolira/go-scrape-laptops/models"
)

type namesResponse struct {
	Body *struct {
		Products []struct {
			ProductID    string `json:"productId"`
			NameTranslit string `json:"nameTranslit"`
		} `json:"products"`
	} `json:"body"`
}

type pricesResponse struct {
	Body *struct {
		MaterialPrices []struct {
			ProductID string             `json:"productId"`
			Price     models.PriceRecord `json:"price"`
		} `json:"materialPrices"`
	} `json:"body"`
}

// ProductNames resolves transliterated names for the ids of one page. A
// failed or malformed batch is logged and yields an empty map.
func (s *Scraper) ProductNames(ctx context.Context, page int, ids []string) map[string]string {
	names := make(map[string]string)

	body := maps.Clone(s.cfg.NamesBody)
	if body == nil {
		body = make(map[string]any)
	}
	body["productIds"] = ids
	payload, err := json.Marshal(body)
	if err != nil {
		slog.Error("encode names request", slog.Int("page", page), slog.Any("error", err))
		return names
	}

	resp, err := s.session.Do(ctx, phaseNames, http.MethodPost, s.cfg.Endpoint(config.NamesPath), nil, payload, nil)
	if err == nil {
		if err = decodeNames(resp, names); err != nil {
			s.session.recordError(phaseNames, err)
		}
	}
	if err != nil {
		slog.Error("could not parse product names", slog.Int("page", page), slog.Any("error", err))
		return map[string]string{}
	}
	return names
}

func decodeNames(payload []byte, into map[string]string) error {
	var resp namesResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return decodeError(err)
	}
	if resp.Body == nil {
		return decodeError(ErrMalformed)
	}
	for _, product := range resp.Body.Products {
		into[product.ProductID] = product.NameTranslit
	}
	return nil
}

// ProductPrices fetches the base, promo and sale prices for the ids of one
// page. A failed or malformed batch is logged and yields an empty map.
func (s *Scraper) ProductPrices(ctx context.Context, page int, ids []string) map[string]models.PriceRecord {
	query := url.Values{}
	for key, value := range s.cfg.PriceQuery {
		query.Set(key, value)
	}
	query.Set("productIds", strings.Join(ids, ","))

	prices := make(map[string]models.PriceRecord)
	resp, err := s.session.Do(ctx, phasePrices, http.MethodGet, s.cfg.Endpoint(config.PricesPath), query, nil, nil)
	if err == nil {
		if err = decodePrices(resp, prices); err != nil {
			s.session.recordError(phasePrices, err)
		}
	}
	if err != nil {
		slog.Error("could not parse product prices", slog.Int("page", page), slog.Any("error", err))
		return map[string]models.PriceRecord{}
	}
	return prices
}

func decodePrices(payload []byte, into map[string]models.PriceRecord) error {
	var resp pricesResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return decodeError(err)
	}
	if resp.Body == nil {
		return decodeError(fmt.Errorf("prices: %w", ErrMalformed))
	}
	for _, product := range resp.Body.MaterialPrices {
		into[product.ProductID] = product.Price
	}
	return nil
}
