package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
)

type BrandRepository struct {
	table[models.Brand]
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{table[models.Brand]{db: db}}
}

// List returns brands by display order then name.
func (r *BrandRepository) List(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	q := r.q(ctx).Model(&models.Brand{}).Order("display_order ASC").Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	out := []models.Brand{}
	err := q.Get(&out)
	return out, err
}

func (r *BrandRepository) FindByID(ctx context.Context, id string) (models.Brand, error) {
	return r.find(ctx, id)
}

func (r *BrandRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	return r.exists(ctx, "slug", slug, exceptID)
}

func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	return r.create(ctx, b)
}

func (r *BrandRepository) Save(ctx context.Context, b *models.Brand) error {
	return r.save(ctx, b)
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
