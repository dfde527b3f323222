package controllers

import (
	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/middleware"
	"github.com/aircon-store/storefront/pkg/session"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login handles POST /api/auth/login. It starts an admin session and also
// returns a bearer token for API clients.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.DecodeJSON(&in) {
		return
	}
	u, token, err := ac.auth.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	sess := session.FromCtx(c.R)
	if err := sess.Regenerate(c.Context()); err != nil {
		fail(c, err)
		return
	}
	sess.Set(middleware.SessionUserID, u.ID)
	sess.Set(middleware.SessionRole, u.Role)
	if err := sess.Save(c.Context(), c.W); err != nil {
		fail(c, err)
		return
	}

	logger.WithCtx(c.Context()).Info("admin logged in", "user_id", u.ID)
	c.Success(loginResponse{User: u, Token: token})
}

// Logout handles POST /api/auth/logout.
func (ac *AuthController) Logout(c *ctx.Context) {
	if err := session.FromCtx(c.R).Destroy(c.Context(), c.W); err != nil {
		fail(c, err)
		return
	}
	c.Message("Logged out")
}

// Me handles GET /api/auth/me behind the admin gate.
func (ac *AuthController) Me(c *ctx.Context) {
	id, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}
	u, err := ac.auth.User(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}
