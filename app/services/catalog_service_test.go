package services_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/services"
)

func ids(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestParseProductFilter(t *testing.T) {
	f := services.ParseProductFilter(url.Values{
		"brand":      {" Daikin "},
		"horsepower": {"1HP"},
		"inverter":   {"true"},
		"minPrice":   {"9999999.2"},
		"maxPrice":   {"15000000.9"},
		"search":     {"  inverter "},
		"ids":        {"a, b,,a"},
		"limit":      {"500"},
	})

	assert.Equal(t, "Daikin", f.Brand)
	assert.Equal(t, "1HP", f.Horsepower)
	require.NotNil(t, f.Inverter)
	assert.True(t, *f.Inverter)
	require.NotNil(t, f.MinPrice)
	assert.EqualValues(t, 10000000, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.EqualValues(t, 15000000, *f.MaxPrice)
	assert.Equal(t, "inverter", f.Search)
	assert.Equal(t, []string{"a", "b"}, f.IDs)
	assert.Equal(t, 100, f.Limit)
}

func TestParseProductFilterMalformedIsAbsent(t *testing.T) {
	f := services.ParseProductFilter(url.Values{
		"inverter": {"maybe"},
		"minPrice": {"cheap"},
		"maxPrice": {"-5"},
		"limit":    {"zero"},
		"cursor":   {"!!!"},
	})
	assert.Nil(t, f.Inverter)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Zero(t, f.Limit)
	assert.Nil(t, f.Cursor)
}

func TestProductsNeverReturnsInactive(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1), withInverter(true), withDesc("Tiết kiệm điện"))
	fx.seed(t, "Daikin Standard 1HP", "Daikin", day(2), withStatus(models.StatusInactive))
	fx.seed(t, "Panasonic Inverter 2HP", "Panasonic", day(3), withInverter(true), withHP("2HP"), withPrice(19_000_000))
	fx.seed(t, "LG Inverter 1HP", "LG", day(4), withInverter(true), withStatus(models.StatusOutOfStock))

	yes, no := true, false
	filters := []services.ProductFilter{
		{},
		{Brand: "Daikin"},
		{Horsepower: "1HP"},
		{Inverter: &yes},
		{Inverter: &no},
		{MinPrice: i64(1)},
		{MaxPrice: i64(50_000_000)},
		{Search: "inverter"},
		{Search: "standard"},
		{Brand: "LG"},
		{Brand: "Daikin", Horsepower: "1HP", Inverter: &yes, Search: "daikin"},
	}
	for _, f := range filters {
		page, err := fx.catalog.Products(ctx, f)
		require.NoError(t, err)
		for _, p := range page.Items {
			assert.Equal(t, models.StatusActive, p.Status, "filter %+v returned %s", f, p.Name)
		}
	}
}

func TestProductsFiltersAndOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1), withInverter(true), withDesc("Máy lạnh tiết kiệm điện"))
	b := fx.seed(t, "Daikin Mono 1HP", "Daikin", day(2), withPrice(8_000_000))
	c := fx.seed(t, "Panasonic Inverter 2HP", "Panasonic", day(3), withInverter(true), withHP("2HP"), withPrice(19_000_000))

	page, err := fx.catalog.Products(ctx, services.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids(page.Items))
	assert.Empty(t, page.NextCursor)

	page, err = fx.catalog.Products(ctx, services.ProductFilter{Brand: "Daikin"})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, ids(page.Items))

	page, err = fx.catalog.Products(ctx, services.ProductFilter{MinPrice: i64(8_000_000), MaxPrice: i64(10_000_000)})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, ids(page.Items), "price bounds are inclusive")

	page, err = fx.catalog.Products(ctx, services.ProductFilter{Search: "TIẾT KIỆM"})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(page.Items), "search matches description")

	page, err = fx.catalog.Products(ctx, services.ProductFilter{Search: "mono"})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids(page.Items), "search is case-insensitive")

	page, err = fx.catalog.Products(ctx, services.ProductFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "wildcards are literal")
}

func TestSearchFoldsNonASCIICapitals(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "ĐIỀU HÒA Daikin 1HP", "Daikin", day(1), withDesc("MÁY LẠNH TIẾT KIỆM ĐIỆN"))
	fx.seed(t, "LG Dual 1HP", "LG", day(2))

	for _, q := range []string{"điều hòa", "ĐIỀU HÒA", "Điều Hòa", "tiết kiệm điện", "MÁY LẠNH"} {
		page, err := fx.catalog.Products(ctx, services.ProductFilter{Search: q})
		require.NoError(t, err)
		assert.Equal(t, []string{p.ID}, ids(page.Items), "search %q", q)
	}

	rows, _, err := fx.product.List(ctx, 1, 20, "", "điều hòa")
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, ids(rows), "back office search")

	yes := true
	_, err = fx.product.Patch(ctx, p.ID, services.ProductPatch{Featured: &yes})
	require.NoError(t, err)
	page, err := fx.catalog.Products(ctx, services.ProductFilter{Search: "điều hòa"})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, ids(page.Items), "quick edit keeps the search columns")

	_, err = fx.product.Update(ctx, p.ID, services.ProductInput{
		Name:       "MÁY LẠNH Daikin 1HP",
		Price:      i64(10_000_000),
		Brand:      "Daikin",
		Horsepower: "1HP",
	})
	require.NoError(t, err)
	page, err = fx.catalog.Products(ctx, services.ProductFilter{Search: "điều hòa"})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "renamed product no longer matches its old name")
	page, err = fx.catalog.Products(ctx, services.ProductFilter{Search: "máy lạnh"})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, ids(page.Items))
}

func TestProductsCursorPagination(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	var want []string
	for i := 5; i >= 1; i-- {
		p := fx.seed(t, "Model "+string(rune('A'+i)), "Daikin", day(i))
		want = append(want, p.ID)
	}

	var got []string
	q := url.Values{"limit": {"2"}}
	for pages := 0; pages < 5; pages++ {
		page, err := fx.catalog.Products(ctx, services.ParseProductFilter(q))
		require.NoError(t, err)
		got = append(got, ids(page.Items)...)
		if page.NextCursor == "" {
			break
		}
		q.Set("cursor", page.NextCursor)
	}
	assert.Equal(t, want, got)
}

func TestFilterOptionsAndFeatured(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.seed(t, "Panasonic Inverter 2HP", "Panasonic", day(1), withHP("2HP"))
	d := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(2))
	fx.seed(t, "LG Hidden 3HP", "LG", day(3), withHP("3HP"), withStatus(models.StatusInactive))

	opts, err := fx.catalog.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Daikin", "Panasonic"}, opts.Brands)
	assert.Equal(t, []string{"1HP", "2HP"}, opts.Horsepowers)

	yes := true
	_, err = fx.product.Patch(ctx, d.ID, services.ProductPatch{Featured: &yes})
	require.NoError(t, err)

	featured, err := fx.catalog.Featured(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{d.ID}, ids(featured))
}
