package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/pkg/orm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

// Latest returns the most recently updated SiteSettings row.
func (r *SettingsRepository) Latest(ctx context.Context) (models.SiteSettings, error) {
	var s models.SiteSettings
	err := r.q(ctx).Model(&models.SiteSettings{}).Order("updated_at DESC").First(&s)
	return s, err
}

// Legacy returns the legacy key/value rows for keys. Missing keys are
// absent from the map.
func (r *SettingsRepository) Legacy(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []models.Setting
	if err := r.q(ctx).Model(&models.Setting{}).Where("setting_key IN ?", keys).Get(&rows); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Write upserts the first SiteSettings row and the three legacy keys in one
// transaction.
func (r *SettingsRepository) Write(ctx context.Context, phone, zalo, facebook string) (models.SiteSettings, error) {
	var saved models.SiteSettings
	err := r.q(ctx).Transaction(func(tx *orm.Query) error {
		var existing models.SiteSettings
		err := tx.Model(&models.SiteSettings{}).Order("created_at ASC").First(&existing)
		switch {
		case errors.Is(err, ErrNotFound):
			existing = models.SiteSettings{}
		case err != nil:
			return err
		}

		existing.PhoneNumber = phone
		existing.ZaloNumber = zalo
		existing.FacebookURL = facebook
		if existing.ID == "" {
			err = tx.Create(&existing)
		} else {
			err = tx.Save(&existing)
		}
		if err != nil {
			return err
		}

		for key, value := range map[string]string{
			models.SettingPhone:    phone,
			models.SettingZalo:     zalo,
			models.SettingFacebook: facebook,
		} {
			row := models.Setting{Key: key, Value: value}
			err := tx.Raw().Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		saved = existing
		return nil
	})
	return saved, err
}

// PutLegacy writes one legacy key. Used by seeders and tests.
func (r *SettingsRepository) PutLegacy(ctx context.Context, key, value string) error {
	row := models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&row).Error
}
