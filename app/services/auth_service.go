package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/auth"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login checks the credentials and returns the user with a bearer token.
// Unknown emails and wrong passwords both yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(&in, ""); err != nil {
		return models.User{}, "", err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, "", ErrUnauthorized
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return models.User{}, "", ErrUnauthorized
	}

	token, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("login token: %w", err)
	}
	return u, token, nil
}

func (s *AuthService) User(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	return u, notFound(err, "user", id)
}

// CreateAdmin adds an admin account, or resets the name and password of
// an existing one with the same email.
func (s *AuthService) CreateAdmin(ctx context.Context, in AdminInput) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(&in, ""); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		u = models.User{Name: strings.TrimSpace(in.Name), Email: in.Email, Password: hash, Role: models.RoleAdmin}
		err = s.users.Create(ctx, &u)
	case err == nil:
		u.Name = strings.TrimSpace(in.Name)
		u.Password = hash
		u.Role = models.RoleAdmin
		err = s.users.Save(ctx, &u)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("save admin: %w", err)
	}
	return u, nil
}
