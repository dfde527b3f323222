package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/internal/testdb"
)

var defaults = services.Settings{
	PhoneNumber: "0901234567",
	ZaloNumber:  "0901234567",
	FacebookURL: "https://facebook.com",
}

func newSettings(t *testing.T) (*services.SettingsService, *repositories.SettingsRepository) {
	svc, repo, _ := newSettingsDB(t)
	return svc, repo
}

func newSettingsDB(t *testing.T) (*services.SettingsService, *repositories.SettingsRepository, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	repo := repositories.NewSettingsRepository(db)
	return services.NewSettingsService(repo, defaults), repo, db
}

func TestSettingsEmptyReturnsDefaults(t *testing.T) {
	svc, _ := newSettings(t)
	got := svc.Get(context.Background())
	assert.Equal(t, "0901234567", got.PhoneNumber)
	assert.Equal(t, "https://facebook.com", got.FacebookURL)
	assert.Equal(t, "https://zalo.me/0901234567", got.ZaloChatURL)
}

func TestSettingsLegacyOnly(t *testing.T) {
	svc, repo := newSettings(t)
	ctx := context.Background()
	require.NoError(t, repo.PutLegacy(ctx, models.SettingPhone, "0281111111"))
	require.NoError(t, repo.PutLegacy(ctx, models.SettingZalo, "0912 345 678"))

	got := svc.Get(ctx)
	assert.Equal(t, "0281111111", got.PhoneNumber)
	assert.Equal(t, "0912 345 678", got.ZaloNumber)
	assert.Equal(t, defaults.FacebookURL, got.FacebookURL, "missing legacy keys fall back")
	assert.Equal(t, "https://zalo.me/0912345678", got.ZaloChatURL)
}

func TestSettingsSiteRowTakesPrecedence(t *testing.T) {
	svc, repo := newSettings(t)
	ctx := context.Background()
	require.NoError(t, repo.PutLegacy(ctx, models.SettingPhone, "0281111111"))

	_, err := repo.Write(ctx, "0283333333", "0987654321", "https://facebook.com/shop")
	require.NoError(t, err)
	require.NoError(t, repo.PutLegacy(ctx, models.SettingPhone, "stale"))

	got := svc.Get(ctx)
	assert.Equal(t, "0283333333", got.PhoneNumber)
	assert.Equal(t, "https://facebook.com/shop", got.FacebookURL)
}

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Resolve(context.Context) (services.Settings, bool, error) {
	return services.Settings{}, false, errors.New("db down")
}

func TestSettingsFailureReturnsDefaults(t *testing.T) {
	svc, _ := newSettings(t)
	svc.WithChain(failing{}, services.DefaultResolver{Defaults: services.Settings{PhoneNumber: "never"}})

	got := svc.Get(context.Background())
	assert.Equal(t, defaults.PhoneNumber, got.PhoneNumber)
}

func TestSettingsUpdateWritesBoth(t *testing.T) {
	svc, repo, db := newSettingsDB(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, services.SettingsInput{PhoneNumber: "1", ZaloNumber: ""})
	var ve *services.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "All fields are required", ve.Message)

	for i := 0; i < 2; i++ {
		got, err := svc.Update(ctx, services.SettingsInput{
			PhoneNumber: "0280000000",
			ZaloNumber:  "0900000001",
			FacebookURL: "https://facebook.com/aircon",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://zalo.me/0900000001", got.ZaloChatURL)
	}

	var rows int64
	require.NoError(t, db.Model(&models.SiteSettings{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "the first row is updated in place")

	legacy, err := repo.Legacy(ctx, models.SettingPhone, models.SettingZalo, models.SettingFacebook)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		models.SettingPhone:    "0280000000",
		models.SettingZalo:     "0900000001",
		models.SettingFacebook: "https://facebook.com/aircon",
	}, legacy)
}
