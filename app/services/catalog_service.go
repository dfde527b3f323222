package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
)

// ProductFilter is the parsed form of the public catalogue query string.
type ProductFilter = repositories.ProductFilter

const (
	maxFilterIDs    = 50
	maxPageLimit    = 100
	defaultFeatured = 8
)

// ParseProductFilter reads brand, horsepower, inverter, minPrice, maxPrice,
// search, ids, limit and cursor. Malformed values are treated as absent.
func ParseProductFilter(q url.Values) ProductFilter {
	f := ProductFilter{
		Brand:      strings.TrimSpace(q.Get("brand")),
		Horsepower: strings.TrimSpace(q.Get("horsepower")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	if raw := strings.TrimSpace(q.Get("inverter")); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			f.Inverter = &b
		}
	}
	if v, ok := parsePrice(q.Get("minPrice")); ok {
		n := int64(math.Ceil(v))
		f.MinPrice = &n
	}
	if v, ok := parsePrice(q.Get("maxPrice")); ok {
		n := int64(math.Floor(v))
		f.MaxPrice = &n
	}

	if raw := q.Get("ids"); raw != "" {
		seen := map[string]bool{}
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			f.IDs = append(f.IDs, id)
			if len(f.IDs) == maxFilterIDs {
				break
			}
		}
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil && n > 0 {
		if n > maxPageLimit {
			n = maxPageLimit
		}
		f.Limit = n
		if raw := strings.TrimSpace(q.Get("cursor")); raw != "" {
			if c, err := repositories.DecodeCursor(raw); err == nil {
				f.Cursor = &c
			}
		}
	}
	return f
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// ProductPage is one page of the public catalogue.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// FilterOptions lists the values offered by the catalogue filter UI.
type FilterOptions struct {
	Brands      []string `json:"brands"`
	Horsepowers []string `json:"horsepowers"`
}

// CatalogService answers public catalogue queries. Every call re-queries
// the database.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(products *repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// Products returns active products matching f, newest first.
func (s *CatalogService) Products(ctx context.Context, f ProductFilter) (ProductPage, error) {
	items, err := s.products.Active(ctx, f)
	if err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	page := ProductPage{Items: items}
	if f.Limit > 0 && len(items) == f.Limit {
		last := items[len(items)-1]
		page.NextCursor = repositories.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

func (s *CatalogService) FilterOptions(ctx context.Context) (FilterOptions, error) {
	brands, err := s.products.DistinctActive(ctx, "brand")
	if err != nil {
		return FilterOptions{}, fmt.Errorf("filter brands: %w", err)
	}
	hps, err := s.products.DistinctActive(ctx, "horsepower")
	if err != nil {
		return FilterOptions{}, fmt.Errorf("filter horsepowers: %w", err)
	}
	return FilterOptions{Brands: brands, Horsepowers: hps}, nil
}

// Featured returns up to limit active featured products for the homepage.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultFeatured
	}
	items, err := s.products.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return items, nil
}
