package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
)

type UserRepository struct {
	table[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{table[models.User]{db: db}}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.q(ctx).Model(&models.User{}).Where("email = ?", email).First(&u)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.find(ctx, id)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email, "")
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.create(ctx, u)
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.save(ctx, u)
}
