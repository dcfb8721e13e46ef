package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aluiziolira/go-scrape-laptops/config"
)

type listingResponse struct {
	Body *listingBody `json:"body"`
}

type listingBody struct {
	Total    int      `json:"total"`
	Products []string `json:"products"`
}

// PageCount returns ceil(total/pageSize). An empty catalog has no pages.
func PageCount(total, pageSize int) (int, error) {
	if total <= 0 {
		return 0, nil
	}
	if pageSize <= 0 {
		return 0, ErrEmptyPage
	}
	return (total + pageSize - 1) / pageSize, nil
}

// ProductIDs walks the paginated listing and returns the product ids of every
// page keyed by zero-based page index. The first response doubles as page 0.
// Any failure is returned as is: without the listing there is nothing to
// collect.
func (s *Scraper) ProductIDs(ctx context.Context) (map[int][]string, error) {
	first, err := s.listingPage(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("first listing page: %w", err)
	}

	pageSize := s.cfg.PageSize
	if pageSize == 0 {
		pageSize = len(first.Products)
	}
	pages, err := PageCount(first.Total, pageSize)
	if err != nil {
		return nil, fmt.Errorf("total %d: %w", first.Total, err)
	}
	slog.Info("listing discovered",
		slog.Int("total", first.Total),
		slog.Int("page_size", pageSize),
		slog.Int("pages", pages),
	)

	idsPerPage := make(map[int][]string, pages)
	for page := 0; page < pages; page++ {
		if page == 0 {
			idsPerPage[page] = first.Products
			continue
		}
		listing, err := s.listingPage(ctx, page*pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}
		idsPerPage[page] = listing.Products
	}
	return idsPerPage, nil
}

func (s *Scraper) listingPage(ctx context.Context, offset int) (*listingBody, error) {
	query := url.Values{}
	query.Set("categoryId", s.cfg.CategoryID)
	query.Set("offset", strconv.Itoa(offset))
	if s.cfg.PageSize > 0 {
		query.Set("limit", strconv.Itoa(s.cfg.PageSize))
	}

	payload, err := s.session.Do(ctx, phaseListing, http.MethodGet, s.cfg.Endpoint(config.ListingPath), query, nil, nil)
	if err != nil {
		return nil, err
	}

	var resp listingResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		err = decodeError(err)
		s.session.recordError(phaseListing, err)
		return nil, err
	}
	if resp.Body == nil {
		err := decodeError(ErrMalformed)
		s.session.recordError(phaseListing, err)
		return nil, err
	}
	return resp.Body, nil
}
