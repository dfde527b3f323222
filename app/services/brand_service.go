package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/slug"
)

type BrandInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"nullable,slug,max=255"`
	Logo        *string `json:"logo" validate:"nullable,link"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
	Active      *bool   `json:"active"`
}

type BrandService struct {
	brands *repositories.BrandRepository
}

func NewBrandService(brands *repositories.BrandRepository) *BrandService {
	return &BrandService{brands: brands}
}

// List returns brands by display order; activeOnly hides disabled ones.
func (s *BrandService) List(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	return s.brands.List(ctx, activeOnly)
}

func (s *BrandService) Get(ctx context.Context, id string) (models.Brand, error) {
	b, err := s.brands.FindByID(ctx, id)
	return b, notFound(err, "brand", id)
}

func (s *BrandService) validate(in *BrandInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("Brand name is required", map[string]string{"name": "Brand name is required"})
	}
	return check(in, "")
}

// slugFor uses the given slug or derives one from the name, then makes it
// unique.
func (s *BrandService) slugFor(ctx context.Context, in *BrandInput, exceptID string) (string, error) {
	base := strings.TrimSpace(in.Slug)
	if base == "" {
		base = slug.Make(in.Name)
	}
	if base == "" {
		return "", invalid("", map[string]string{"slug": "The slug could not be derived from the name."})
	}
	return slug.Unique(base, func(c string) (bool, error) {
		return s.brands.SlugTaken(ctx, c, exceptID)
	})
}

func (s *BrandService) Create(ctx context.Context, in BrandInput) (models.Brand, error) {
	if err := s.validate(&in); err != nil {
		return models.Brand{}, err
	}
	sl, err := s.slugFor(ctx, &in, "")
	if err != nil {
		return models.Brand{}, err
	}
	b := models.Brand{
		Name:        strings.TrimSpace(in.Name),
		Slug:        sl,
		Logo:        blankToNil(in.Logo),
		Description: blankToNil(in.Description),
		Order:       in.Order,
		Active:      in.Active == nil || *in.Active,
	}
	if err := s.brands.Create(ctx, &b); err != nil {
		return models.Brand{}, fmt.Errorf("create brand: %w", err)
	}
	return b, nil
}

func (s *BrandService) Update(ctx context.Context, id string, in BrandInput) (models.Brand, error) {
	if err := s.validate(&in); err != nil {
		return models.Brand{}, err
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return models.Brand{}, err
	}

	name := strings.TrimSpace(in.Name)
	if (in.Slug != "" && in.Slug != b.Slug) || (in.Slug == "" && name != b.Name) {
		sl, err := s.slugFor(ctx, &in, b.ID)
		if err != nil {
			return models.Brand{}, err
		}
		b.Slug = sl
	}
	b.Name = name
	b.Logo = blankToNil(in.Logo)
	b.Description = blankToNil(in.Description)
	b.Order = in.Order
	if in.Active != nil {
		b.Active = *in.Active
	}

	if err := s.brands.Save(ctx, &b); err != nil {
		return models.Brand{}, fmt.Errorf("update brand: %w", err)
	}
	return b, nil
}

// Delete removes the brand. Products keep their brand name.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	return notFound(s.brands.Delete(ctx, id), "brand", id)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
