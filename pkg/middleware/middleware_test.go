package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/auth"
	"github.com/aircon-store/storefront/pkg/cache"
	"github.com/aircon-store/storefront/pkg/middleware"
	"github.com/aircon-store/storefront/pkg/rbac"
	"github.com/aircon-store/storefront/pkg/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.UserIDFromCtx(r)
	w.Header().Set("X-User", id)
	w.WriteHeader(http.StatusOK)
})

func adminChain() http.Handler {
	return session.Middleware(session.DefaultOptions(), cache.NewMemory())(
		middleware.Authenticate(rbac.HasRole("admin")(okHandler)),
	)
}

func TestAuthenticateWithoutCredentials(t *testing.T) {
	rec := httptest.NewRecorder()
	adminChain().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/products/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWithBearer(t *testing.T) {
	tok, err := auth.GenerateToken("u-7", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	adminChain().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-7", rec.Header().Get("X-User"))
}

func TestHasRoleForbidsOtherRoles(t *testing.T) {
	tok, err := auth.GenerateToken("u-8", "editor")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	adminChain().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestCORSCredentialsOnlyForListedOrigin(t *testing.T) {
	opts := middleware.DefaultCORSOptions()
	opts.AllowedOrigins = []string{"https://shop.example"}
	h := middleware.CORS(opts)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturns500(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
