package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/cache"
	"github.com/aircon-store/storefront/pkg/session"
)

func TestSessionSurvivesAcrossRequests(t *testing.T) {
	store := cache.NewMemory()
	opts := session.DefaultOptions()

	login := session.Middleware(opts, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		require.NoError(t, sess.Regenerate(r.Context()))
		sess.Set("user_id", "u-1")
		require.NoError(t, sess.Save(r.Context(), w))
	}))

	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)

	var seen string
	read := session.Middleware(opts, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.FromCtx(r).Get("user_id")
	}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	read.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u-1", seen)
}

func TestUnknownCookieStartsFreshSession(t *testing.T) {
	var fresh bool
	h := session.Middleware(session.DefaultOptions(), cache.NewMemory())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		fresh = sess.IsNew()
		_, ok := sess.Get("user_id")
		assert.False(t, ok)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_session", Value: "forged"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, fresh)
}

func TestDestroyExpiresCookie(t *testing.T) {
	store := cache.NewMemory()
	h := session.Middleware(session.DefaultOptions(), store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, session.FromCtx(r).Destroy(r.Context(), w))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
