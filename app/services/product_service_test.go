package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/services"
)

func TestCreateDerivesSlug(t *testing.T) {
	fx := newFixture(t)
	p := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1))
	assert.Equal(t, "daikin-inverter-1hp", p.Slug)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.NotEmpty(t, p.ID)

	dup := fx.seed(t, "Daikin  Inverter 1HP!", "Daikin", day(2))
	assert.Equal(t, "daikin-inverter-1hp-2", dup.Slug)
}

func TestCreateValidation(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.product.Create(context.Background(), services.ProductInput{Name: "X", Brand: "Daikin"})

	var ve *services.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "price")
	assert.Contains(t, ve.Fields, "horsepower")

	_, err = fx.product.Create(context.Background(), services.ProductInput{
		Name: "X", Brand: "Daikin", Horsepower: "1HP", Price: i64(-1),
	})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "price")

	_, err = fx.product.Create(context.Background(), services.ProductInput{
		Name: "X", Brand: "Daikin", Horsepower: "1HP", Price: i64(0), Status: "sold",
	})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "status")
}

func TestRenameRegeneratesSlug(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1))

	in := services.ProductInput{Name: "Daikin Inverter 1.5HP", Brand: "Daikin", Horsepower: "1.5HP", Price: i64(12_000_000)}
	updated, err := fx.product.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "daikin-inverter-1-5hp", updated.Slug)
	assert.Equal(t, models.StatusActive, updated.Status, "status is kept when omitted")

	in.Name = "Daikin FTKF 1.5HP"
	in.KeepSlug = true
	held, err := fx.product.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "daikin-inverter-1-5hp", held.Slug)

	in.KeepSlug = false
	in.Name = "Daikin FTKF 1.5HP"
	same, err := fx.product.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "daikin-inverter-1-5hp", same.Slug, "unchanged name keeps the slug")
}

func TestLookupRoundTrip(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	var all []models.Product
	for i, name := range []string{"Daikin Inverter 1HP", "Panasonic Inverter 2HP", "Mitsubishi Electric Inverter 1.5HP"} {
		all = append(all, fx.seed(t, name, "Brand", day(i)))
	}

	for _, p := range all {
		bySlug, err := fx.product.BySlug(ctx, p.Slug)
		require.NoError(t, err)
		assert.Equal(t, p.ID, bySlug.ID)

		byID, err := fx.product.ByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Slug, byID.Slug)

		viaID, err := fx.product.Resolve(ctx, p.ID)
		require.NoError(t, err)
		viaSlug, err := fx.product.Resolve(ctx, p.Slug)
		require.NoError(t, err)
		assert.Equal(t, viaID.ID, viaSlug.ID)
	}

	_, err := fx.product.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestBySlugRequiresActive(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Hidden Unit 2HP", "LG", day(1), withStatus(models.StatusInactive))

	_, err := fx.product.BySlug(ctx, p.Slug)
	assert.ErrorIs(t, err, services.ErrNotFound)

	got, err := fx.product.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, got.Status)
}

func TestPatchOnlyTouchesStatusAndFeatured(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1))

	yes := true
	status := models.StatusOutOfStock
	got, err := fx.product.Patch(ctx, p.ID, services.ProductPatch{Status: &status, Featured: &yes})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutOfStock, got.Status)
	assert.True(t, got.Featured)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Price, got.Price)

	no := false
	got, err = fx.product.Patch(ctx, p.ID, services.ProductPatch{Featured: &no})
	require.NoError(t, err)
	assert.False(t, got.Featured)
	assert.Equal(t, models.StatusOutOfStock, got.Status)

	bad := "gone"
	_, err = fx.product.Patch(ctx, p.ID, services.ProductPatch{Status: &bad})
	var ve *services.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = fx.product.Patch(ctx, "missing", services.ProductPatch{Featured: &yes})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPatchRejectsBlankStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1))

	for _, blank := range []string{"", "   "} {
		blank := blank
		_, err := fx.product.Patch(ctx, p.ID, services.ProductPatch{Status: &blank})
		var ve *services.ValidationError
		require.True(t, errors.As(err, &ve), "status %q", blank)
		assert.Contains(t, ve.Fields, "status")
	}

	got, err := fx.product.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	empty := ""
	res := fx.product.BatchPatch(ctx, map[string]services.ProductPatch{p.ID: {Status: &empty}})
	assert.Empty(t, res.Succeeded)
	assert.Contains(t, res.Failed, p.ID)
}

func TestBatchPatchReportsPerRow(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	a := fx.seed(t, "Unit A", "Daikin", day(1))
	b := fx.seed(t, "Unit B", "Daikin", day(2))

	yes := true
	bad := "nope"
	res := fx.product.BatchPatch(ctx, map[string]services.ProductPatch{
		a.ID:      {Featured: &yes},
		b.ID:      {Status: &bad},
		"missing": {Featured: &yes},
	})

	assert.Equal(t, []string{a.ID}, res.Succeeded)
	require.Len(t, res.Failed, 2)
	assert.ErrorIs(t, res.Failed["missing"], services.ErrNotFound)

	got, err := fx.product.ByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Featured)

	got, err = fx.product.ByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestDeleteProduct(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Unit A", "Daikin", day(1))

	require.NoError(t, fx.product.Delete(ctx, p.ID))
	assert.ErrorIs(t, fx.product.Delete(ctx, p.ID), services.ErrNotFound)
	_, err := fx.product.ByID(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSpecificationsKeepAuthorOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := fx.seed(t, "Daikin Inverter 1HP", "Daikin", day(1),
		withSpecs("Xuất xứ", "Thái Lan", " Loại gas ", " R32 ", "", "dropped", "Bảo hành", "12 tháng", "Loại gas", "R410A"))

	got, err := fx.product.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Specs{
		{Key: "Xuất xứ", Value: "Thái Lan"},
		{Key: "Loại gas", Value: "R410A"},
		{Key: "Bảo hành", Value: "12 tháng"},
	}, got.Specifications)
}
