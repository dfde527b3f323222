package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func deny(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestGroupMiddlewareIsPerRoute(t *testing.T) {
	r := router.New()
	api := r.Group("/api/admin")
	api.Get("/brands", "brands.index", ok)
	api.Post("/brands", "brands.store", ok, deny)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/brands", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/brands", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("api").Group("products").Patch("{id}", "products.patch", ok)

	u, err := r.URL("products.patch", map[string]string{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/abc", u)

	_, err = r.URL("products.patch", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Delete("/b", "b.delete", ok)
	r.Get("/a", "a.index", ok)
	r.Put("/a", "a.update", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: http.MethodGet, Path: "/a", Name: "a.index"}, routes[0])
	assert.Equal(t, http.MethodPut, routes[1].Method)
	assert.Equal(t, "/b", routes[2].Path)
}
