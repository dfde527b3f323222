// Package compare holds the side-by-side comparison selection and the
// attribute matrix built from it.
package compare

import (
	"errors"
	"net/url"
	"strings"
)

// MaxItems is the largest selection that can be compared.
const MaxItems = 3

var (
	// ErrFull is returned by Add when MaxItems products are already held.
	ErrFull = errors.New("Bạn chỉ có thể so sánh tối đa 3 sản phẩm")
	// ErrDuplicate is returned by Add when the product is already held.
	ErrDuplicate = errors.New("Sản phẩm đã có trong danh sách so sánh")
)

// Item is the product summary kept in a selection.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Price int64  `json:"price"`
	Brand string `json:"brand"`
}

// Selection is an ordered set of at most MaxItems items. The zero value is
// an empty selection.
type Selection struct {
	items []Item
}

// NewSelection builds a selection from stored items, dropping blanks,
// duplicates and anything past MaxItems.
func NewSelection(items []Item) *Selection {
	s := &Selection{}
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		_ = s.Add(it)
	}
	return s
}

// Add appends it. The selection is unchanged when it returns ErrFull or
// ErrDuplicate.
func (s *Selection) Add(it Item) error {
	if len(s.items) >= MaxItems {
		return ErrFull
	}
	if s.Contains(it.ID) {
		return ErrDuplicate
	}
	s.items = append(s.items, it)
	return nil
}

// Remove drops id and reports whether it was present.
func (s *Selection) Remove(id string) bool {
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Selection) Clear() { s.items = nil }

func (s *Selection) Contains(id string) bool {
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s *Selection) Len() int { return len(s.items) }

// Items returns a copy, never nil.
func (s *Selection) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) IDs() []string {
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// ShareURL renders the selection as "/compare?ids=a,b,c". An empty
// selection yields "/compare".
func (s *Selection) ShareURL() string {
	if len(s.items) == 0 {
		return "/compare"
	}
	q := url.Values{"ids": {strings.Join(s.IDs(), ",")}}
	return "/compare?" + strings.ReplaceAll(q.Encode(), "%2C", ",")
}

// ParseIDs reads a comma list of ids, trimming blanks and duplicates and
// keeping at most MaxItems.
func ParseIDs(raw string) []string {
	seen := map[string]bool{}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == MaxItems {
			break
		}
	}
	return ids
}
