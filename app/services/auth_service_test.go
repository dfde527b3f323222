package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/internal/testdb"
	"github.com/aircon-store/storefront/pkg/auth"
)

func TestLogin(t *testing.T) {
	svc := services.NewAuthService(repositories.NewUserRepository(testdb.Open(t)))
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, services.AdminInput{Name: "Admin", Email: "Admin@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "secret1", admin.Password)

	u, token, err := svc.Login(ctx, services.LoginInput{Email: " admin@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, u.ID)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)

	_, _, err = svc.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "wrong-one"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, _, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestCreateAdminResetsExisting(t *testing.T) {
	svc := services.NewAuthService(repositories.NewUserRepository(testdb.Open(t)))
	ctx := context.Background()

	first, err := svc.CreateAdmin(ctx, services.AdminInput{Name: "Admin", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	again, err := svc.CreateAdmin(ctx, services.AdminInput{Name: "Renamed", Email: "a@example.com", Password: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Renamed", again.Name)

	_, _, err = svc.Login(ctx, services.LoginInput{Email: "a@example.com", Password: "secret2"})
	assert.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, services.AdminInput{Name: "x", Email: "b@example.com", Password: "123"})
	assert.Error(t, err)
}
