// Package session keeps server-side admin sessions in a cache.Store, keyed
// by an opaque id carried in a cookie.
//
//	r.Use(session.Middleware(session.DefaultOptions(), cache.Default()))
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", user.ID)
//	_ = sess.Save(w)
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aircon-store/storefront/pkg/cache"
)

type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

func DefaultOptions() Options {
	return Options{
		CookieName: "storefront_session",
		TTL:        24 * time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is the per-request handle. It is not safe for concurrent use.
type Session struct {
	id      string
	data    map[string]string
	opts    Options
	store   cache.Store
	changed bool
	fresh   bool
}

func storeKey(id string) string { return "storefront:session:" + id }

func (s *Session) ID() string { return s.id }

// IsNew reports whether the request carried no usable session cookie.
func (s *Session) IsNew() bool { return s.fresh }

func (s *Session) Set(key, value string) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Regenerate moves the data to a new id, dropping the old one. Called on
// login so a pre-auth id is never promoted.
func (s *Session) Regenerate(ctx context.Context) error {
	if !s.fresh {
		if err := s.store.Del(ctx, storeKey(s.id)); err != nil {
			return fmt.Errorf("session: drop old id: %w", err)
		}
	}
	s.id = uuid.NewString()
	s.fresh = true
	s.changed = true
	return nil
}

// Save persists the data and writes the cookie when anything changed.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if err := s.store.Set(ctx, storeKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// Destroy removes the stored data and expires the cookie.
func (s *Session) Destroy(ctx context.Context, w http.ResponseWriter) error {
	s.data = map[string]string{}
	s.changed = false
	if err := s.store.Del(ctx, storeKey(s.id)); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     s.opts.Path,
		MaxAge:   -1,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
	return nil
}

// Middleware loads the session named by the cookie, or starts an empty one,
// and stores it in the request context.
func Middleware(opts Options, store cache.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts, store: store, data: map[string]string{}}

			cookie, err := r.Cookie(opts.CookieName)
			if err == nil && cookie.Value != "" && store.Get(r.Context(), storeKey(cookie.Value), &sess.data) {
				sess.id = cookie.Value
			} else {
				sess.id = uuid.NewString()
				sess.fresh = true
				sess.data = map[string]string{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx returns the request's session, or a detached empty one when the
// middleware did not run.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return &Session{
		id:    uuid.NewString(),
		data:  map[string]string{},
		opts:  DefaultOptions(),
		store: cache.Default(),
		fresh: true,
	}
}
