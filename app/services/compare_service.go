package services

import (
	"context"
	"fmt"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/compare"
)

// CompareService feeds the comparison selection with product summaries
// and builds the side-by-side matrix.
type CompareService struct {
	products *repositories.ProductRepository
}

func NewCompareService(products *repositories.ProductRepository) *CompareService {
	return &CompareService{products: products}
}

// Summary is the compare view of a product.
func Summary(p models.Product) compare.Item {
	return compare.Item{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Image: p.PrimaryImage(),
		Price: p.Price,
		Brand: p.Brand,
	}
}

// Add puts the active product id into sel. It returns compare.ErrFull or
// compare.ErrDuplicate, leaving sel unchanged, before touching the
// database.
func (s *CompareService) Add(ctx context.Context, sel *compare.Selection, id string) (compare.Item, error) {
	if sel.Len() >= compare.MaxItems {
		return compare.Item{}, compare.ErrFull
	}
	if sel.Contains(id) {
		return compare.Item{}, compare.ErrDuplicate
	}
	found, err := s.products.FindActiveByIDs(ctx, []string{id})
	if err != nil {
		return compare.Item{}, fmt.Errorf("compare lookup: %w", err)
	}
	if len(found) == 0 {
		return compare.Item{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	item := Summary(found[0])
	if err := sel.Add(item); err != nil {
		return compare.Item{}, err
	}
	return item, nil
}

// Matrix loads the active products among ids, in order, and lays out their
// specifications. Unknown or inactive ids are skipped.
func (s *CompareService) Matrix(ctx context.Context, ids []string) (compare.Matrix, error) {
	if len(ids) > compare.MaxItems {
		ids = ids[:compare.MaxItems]
	}
	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return compare.Matrix{}, fmt.Errorf("compare products: %w", err)
	}
	cols := make([]compare.Column, len(products))
	for i, p := range products {
		specs := p.Specs()
		rows := make([]compare.Spec, len(specs))
		for j, sp := range specs {
			rows[j] = compare.Spec(sp)
		}
		cols[i] = compare.Column{
			Item:           Summary(p),
			Horsepower:     p.Horsepower,
			Inverter:       p.Inverter,
			Specifications: rows,
		}
	}
	return compare.BuildMatrix(cols), nil
}
