package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aircon-store/storefront/pkg/auth"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/response"
	"github.com/aircon-store/storefront/pkg/session"
)

// Session keys written at login.
const (
	SessionUserID = "user_id"
	SessionRole   = "role"
)

type principalKey struct{}

type principal struct {
	userID string
	role   string
}

// WithPrincipal stores an authenticated user in ctx.
func WithPrincipal(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal{userID: userID, role: role})
}

func UserIDFromCtx(r *http.Request) (string, bool) {
	p, ok := r.Context().Value(principalKey{}).(principal)
	return p.userID, ok && p.userID != ""
}

func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := r.Context().Value(principalKey{}).(principal)
	return p.role, ok && p.role != ""
}

// Authenticate admits requests carrying a logged-in session or a valid
// bearer token and answers 401 otherwise.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, role, ok := fromSession(r); ok {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), userID, role)))
			return
		}

		if token, ok := bearer(r); ok {
			claims, err := auth.ValidateToken(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.UserID, claims.Role)))
				return
			}
			logger.WithCtx(r.Context()).Debug("bearer token rejected", "error", err)
		}

		response.Unauthorized(w)
	})
}

func fromSession(r *http.Request) (string, string, bool) {
	sess := session.FromCtx(r)
	userID, ok := sess.Get(SessionUserID)
	if !ok || userID == "" {
		return "", "", false
	}
	role, _ := sess.Get(SessionRole)
	return userID, role, true
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(h[7:])
	return t, t != ""
}
