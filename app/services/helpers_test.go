package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/internal/testdb"
)

type fixture struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	catalog  *services.CatalogService
	product  *services.ProductService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	repo := repositories.NewProductRepository(db)
	return &fixture{
		db:       db,
		products: repo,
		catalog:  services.NewCatalogService(repo),
		product:  services.NewProductService(repo, 4),
	}
}

func i64(n int64) *int64 { return &n }

type productOpt func(*services.ProductInput)

func withStatus(s string) productOpt { return func(in *services.ProductInput) { in.Status = s } }
func withPrice(p int64) productOpt   { return func(in *services.ProductInput) { in.Price = i64(p) } }
func withInverter(b bool) productOpt { return func(in *services.ProductInput) { in.Inverter = b } }
func withHP(hp string) productOpt    { return func(in *services.ProductInput) { in.Horsepower = hp } }
func withDesc(d string) productOpt   { return func(in *services.ProductInput) { in.Description = d } }
func withSpecs(kv ...string) productOpt {
	var specs models.Specs
	for i := 0; i+1 < len(kv); i += 2 {
		specs = append(specs, models.Spec{Key: kv[i], Value: kv[i+1]})
	}
	return func(in *services.ProductInput) { in.Specifications = specs }
}

// seed creates a product and pins its creation time so ordering is
// deterministic.
func (f *fixture) seed(t *testing.T, name, brand string, at time.Time, opts ...productOpt) models.Product {
	t.Helper()
	in := services.ProductInput{
		Name:       name,
		Price:      i64(10_000_000),
		Brand:      brand,
		Horsepower: "1HP",
		Images:     []string{"/uploads/" + name + ".jpg"},
	}
	for _, o := range opts {
		o(&in)
	}
	p, err := f.product.Create(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("created_at", at).Error)
	p.CreatedAt = at
	return p
}

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.Add(time.Duration(n) * 24 * time.Hour) }
