package compare

import (
	"net/http"
	"time"

	"github.com/aircon-store/storefront/pkg/crypt"
)

// CookieName is the key the selection is persisted under.
const CookieName = "compare_items"

// CookieStore persists a selection in a sealed cookie. Every write stores
// the full list.
type CookieStore struct {
	box    *crypt.Box
	secure bool
	maxAge time.Duration
}

func NewCookieStore(box *crypt.Box, secure bool) *CookieStore {
	return &CookieStore{box: box, secure: secure, maxAge: 30 * 24 * time.Hour}
}

// Load returns the stored selection. A missing, tampered or malformed
// cookie loads as empty.
func (s *CookieStore) Load(r *http.Request) *Selection {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Selection{}
	}
	var items []Item
	if err := s.box.OpenJSON(c.Value, &items); err != nil {
		return &Selection{}
	}
	return NewSelection(items)
}

// Save writes the whole selection. An empty selection expires the cookie.
func (s *CookieStore) Save(w http.ResponseWriter, sel *Selection) error {
	if sel.Len() == 0 {
		http.SetCookie(w, s.cookie("", -1))
		return nil
	}
	v, err := s.box.SealJSON(sel.Items())
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(v, int(s.maxAge.Seconds())))
	return nil
}

func (s *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
