package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
)

type BannerInput struct {
	ImageURL string  `json:"imageUrl" validate:"required,link"`
	Title    *string `json:"title" validate:"nullable,max=255"`
	Link     *string `json:"link" validate:"nullable,link"`
	Order    int     `json:"order"`
	Active   *bool   `json:"active"`
}

type BannerService struct {
	banners *repositories.BannerRepository
}

func NewBannerService(banners *repositories.BannerRepository) *BannerService {
	return &BannerService{banners: banners}
}

func (s *BannerService) List(ctx context.Context) ([]models.Banner, error) {
	return s.banners.List(ctx)
}

// Hero returns the first active banner by display order.
func (s *BannerService) Hero(ctx context.Context) (models.Banner, error) {
	b, err := s.banners.Hero(ctx)
	return b, notFound(err, "banner", "hero")
}

func (s *BannerService) Get(ctx context.Context, id string) (models.Banner, error) {
	b, err := s.banners.FindByID(ctx, id)
	return b, notFound(err, "banner", id)
}

func (s *BannerService) Create(ctx context.Context, in BannerInput) (models.Banner, error) {
	if err := check(&in, ""); err != nil {
		return models.Banner{}, err
	}
	b := models.Banner{
		ImageURL: strings.TrimSpace(in.ImageURL),
		Title:    blankToNil(in.Title),
		Link:     blankToNil(in.Link),
		Order:    in.Order,
		Active:   in.Active == nil || *in.Active,
	}
	if err := s.banners.Create(ctx, &b); err != nil {
		return models.Banner{}, fmt.Errorf("create banner: %w", err)
	}
	return b, nil
}

func (s *BannerService) Update(ctx context.Context, id string, in BannerInput) (models.Banner, error) {
	if err := check(&in, ""); err != nil {
		return models.Banner{}, err
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return models.Banner{}, err
	}
	b.ImageURL = strings.TrimSpace(in.ImageURL)
	b.Title = blankToNil(in.Title)
	b.Link = blankToNil(in.Link)
	b.Order = in.Order
	if in.Active != nil {
		b.Active = *in.Active
	}
	if err := s.banners.Save(ctx, &b); err != nil {
		return models.Banner{}, fmt.Errorf("update banner: %w", err)
	}
	return b, nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	return notFound(s.banners.Delete(ctx, id), "banner", id)
}
