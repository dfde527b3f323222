package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
)

type BannerRepository struct {
	table[models.Banner]
}

func NewBannerRepository(db *gorm.DB) *BannerRepository {
	return &BannerRepository{table[models.Banner]{db: db}}
}

func byDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC").Order("created_at ASC")
}

func (r *BannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	out := []models.Banner{}
	err := r.q(ctx).Model(&models.Banner{}).Scopes(byDisplayOrder).Get(&out)
	return out, err
}

// Hero returns the first active banner by display order.
func (r *BannerRepository) Hero(ctx context.Context) (models.Banner, error) {
	var b models.Banner
	err := r.q(ctx).Model(&models.Banner{}).Where("active = ?", true).Scopes(byDisplayOrder).First(&b)
	return b, err
}

func (r *BannerRepository) FindByID(ctx context.Context, id string) (models.Banner, error) {
	return r.find(ctx, id)
}

func (r *BannerRepository) Create(ctx context.Context, b *models.Banner) error {
	return r.create(ctx, b)
}

func (r *BannerRepository) Save(ctx context.Context, b *models.Banner) error {
	return r.save(ctx, b)
}

func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
