package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/compare"
)

func TestCompareAddRules(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	svc := services.NewCompareService(fx.products)

	var ps []models.Product
	for i, n := range []string{"Unit A", "Unit B", "Unit C", "Unit D"} {
		ps = append(ps, fx.seed(t, n, "Daikin", day(i)))
	}
	hidden := fx.seed(t, "Unit Hidden", "Daikin", day(9), withStatus(models.StatusInactive))

	sel := &compare.Selection{}
	item, err := svc.Add(ctx, sel, ps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ps[0].Slug, item.Slug)
	assert.Equal(t, ps[0].PrimaryImage(), item.Image)

	_, err = svc.Add(ctx, sel, ps[0].ID)
	assert.ErrorIs(t, err, compare.ErrDuplicate)
	assert.Equal(t, 1, sel.Len())

	_, err = svc.Add(ctx, sel, hidden.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	for _, p := range ps[1:3] {
		_, err = svc.Add(ctx, sel, p.ID)
		require.NoError(t, err)
	}
	_, err = svc.Add(ctx, sel, ps[3].ID)
	assert.ErrorIs(t, err, compare.ErrFull)
	assert.Equal(t, []string{ps[0].ID, ps[1].ID, ps[2].ID}, sel.IDs())
}

func TestCompareMatrix(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	svc := services.NewCompareService(fx.products)

	a := fx.seed(t, "Unit A", "Daikin", day(1), withSpecs("Xuất xứ", "Thái Lan", "Gas", "R32"))
	b := fx.seed(t, "Unit B", "Panasonic", day(2), withSpecs("Gas", "R410A", "Độ ồn", "21 dB"))

	m, err := svc.Matrix(ctx, []string{b.ID, "missing", a.ID})
	require.NoError(t, err)

	require.Len(t, m.Columns, 2)
	assert.Equal(t, b.ID, m.Columns[0].ID, "columns follow the requested order")
	assert.Equal(t, a.ID, m.Columns[1].ID)

	assert.Equal(t, []compare.Row{
		{Key: "Gas", Values: []string{"R410A", "R32"}},
		{Key: "Độ ồn", Values: []string{"21 dB", compare.Placeholder}},
		{Key: "Xuất xứ", Values: []string{compare.Placeholder, "Thái Lan"}},
	}, m.Rows, "rows keep each product's own key order")
}
