package compare

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/crypt"
)

func item(id string) Item { return Item{ID: id, Name: "P " + id, Slug: "p-" + id, Price: 100} }

func TestAddUpToThree(t *testing.T) {
	s := &Selection{}
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(item(id)))
	}

	assert.ErrorIs(t, s.Add(item("d")), ErrFull)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
}

func TestAddDuplicateIsNoop(t *testing.T) {
	s := &Selection{}
	require.NoError(t, s.Add(item("a")))
	assert.ErrorIs(t, s.Add(item("a")), ErrDuplicate)
	assert.Equal(t, 1, s.Len())
}

func TestRemoveAndClear(t *testing.T) {
	s := NewSelection([]Item{item("a"), item("b")})

	assert.False(t, s.Remove("zzz"))
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.True(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, s.IDs())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.NotNil(t, s.Items())
	assert.Equal(t, "/compare", s.ShareURL())
}

func TestNewSelectionSanitises(t *testing.T) {
	s := NewSelection([]Item{item("a"), {}, item("a"), item("b"), item("c"), item("d")})
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
}

func TestShareURLAndParseIDs(t *testing.T) {
	s := NewSelection([]Item{item("a"), item("b")})
	assert.Equal(t, "/compare?ids=a,b", s.ShareURL())

	assert.Equal(t, []string{"a", "b", "c"}, ParseIDs(" a, b,,a ,c,d"))
	assert.Nil(t, ParseIDs(""))
}

func TestCookieStoreRoundTrip(t *testing.T) {
	box, err := crypt.New("test-secret")
	require.NoError(t, err)
	store := NewCookieStore(box, false)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, NewSelection([]Item{item("a"), item("b")})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	assert.Equal(t, []string{"a", "b"}, store.Load(req).IDs())
}

func TestCookieStoreTamperedLoadsEmpty(t *testing.T) {
	box, err := crypt.New("test-secret")
	require.NoError(t, err)
	store := NewCookieStore(box, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-sealed-value"})
	assert.Zero(t, store.Load(req).Len())
}

func TestCookieStoreEmptyExpires(t *testing.T) {
	box, err := crypt.New("test-secret")
	require.NoError(t, err)
	store := NewCookieStore(box, false)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, &Selection{}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix([]Column{
		{Item: item("a"), Specifications: []Spec{{"Gas", "R32"}, {"Công suất", "9000 BTU"}}},
		{Item: item("b"), Specifications: []Spec{{"Xuất xứ", "Thái Lan"}, {"Gas", "R410A"}, {"Độ ồn", ""}}},
	})

	require.Len(t, m.Columns, 2)
	assert.Equal(t, []Row{
		{Key: "Gas", Values: []string{"R32", "R410A"}},
		{Key: "Công suất", Values: []string{"9000 BTU", Placeholder}},
		{Key: "Xuất xứ", Values: []string{Placeholder, "Thái Lan"}},
		{Key: "Độ ồn", Values: []string{Placeholder, Placeholder}},
	}, m.Rows)
}

func TestBuildMatrixEmpty(t *testing.T) {
	m := BuildMatrix(nil)
	assert.NotNil(t, m.Columns)
	assert.Empty(t, m.Rows)
}
