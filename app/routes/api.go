// Package routes wires repositories, services and controllers onto the
// router.
package routes

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/controllers"
	appgraphql "github.com/aircon-store/storefront/app/graphql"
	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/compare"
	"github.com/aircon-store/storefront/pkg/ctx"
	"github.com/aircon-store/storefront/pkg/database"
	"github.com/aircon-store/storefront/pkg/graphql"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/middleware"
	"github.com/aircon-store/storefront/pkg/rbac"
	"github.com/aircon-store/storefront/pkg/router"
	"github.com/aircon-store/storefront/pkg/storage"
)

// Env is everything the routes need from the process.
type Env struct {
	DB             *gorm.DB
	Disk           storage.Disk
	Compare        *compare.CookieStore
	Contact        services.Settings
	UploadMaxBytes int64
	BatchWorkers   int
	// UploadsPath is where a self-serving disk is mounted ("/uploads").
	UploadsPath string
}

// Register mounts every endpoint.
func Register(r *router.Router, env Env) {
	productRepo := repositories.NewProductRepository(env.DB)

	catalog := services.NewCatalogService(productRepo)
	products := services.NewProductService(productRepo, env.BatchWorkers)
	brands := services.NewBrandService(repositories.NewBrandRepository(env.DB))
	banners := services.NewBannerService(repositories.NewBannerRepository(env.DB))
	settings := services.NewSettingsService(repositories.NewSettingsRepository(env.DB), env.Contact)
	comparisons := services.NewCompareService(productRepo)
	uploads := services.NewUploadService(env.Disk, env.UploadMaxBytes)
	auth := services.NewAuthService(repositories.NewUserRepository(env.DB))

	productCtl := controllers.NewProductController(catalog, products)
	adminProductCtl := controllers.NewAdminProductController(products)
	brandCtl := controllers.NewBrandController(brands)
	bannerCtl := controllers.NewBannerController(banners)
	settingsCtl := controllers.NewSettingsController(settings)
	compareCtl := controllers.NewCompareController(comparisons, env.Compare)
	uploadCtl := controllers.NewUploadController(uploads)
	authCtl := controllers.NewAuthController(auth)
	healthCtl := controllers.NewHealthController(func(c context.Context) error {
		return database.Ping(c, env.DB)
	})

	r.Get("/healthz", "health", ctx.Wrap(healthCtl.Check))

	if s, ok := env.Disk.(storage.Servable); ok && env.UploadsPath != "" {
		r.Static(env.UploadsPath, "uploads", s.Handler())
	}

	schema, err := appgraphql.NewSchema(appgraphql.Services{Catalog: catalog, Products: products, Settings: settings})
	if err != nil {
		logger.Error("graphql schema disabled", "error", err)
	} else {
		r.Post("/graphql", "graphql", graphql.Handler(schema))
		r.Get("/graphql", "graphql.get", graphql.Handler(schema))
	}

	api := r.Group("/api")

	// ── Storefront ─────────────────────────────────────────────────────────
	api.Get("/products", "products.index", ctx.Wrap(productCtl.Index))
	api.Get("/products/filters", "products.filters", ctx.Wrap(productCtl.Filters))
	api.Get("/products/featured", "products.featured", ctx.Wrap(productCtl.Featured))
	api.Get("/products/slug/{slug}", "products.slug", ctx.Wrap(productCtl.ShowBySlug))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productCtl.Show))
	api.Get("/brands", "brands.active", ctx.Wrap(brandCtl.Active))
	api.Get("/banners/hero", "banners.hero", ctx.Wrap(bannerCtl.Hero))
	api.Get("/settings", "settings.show", ctx.Wrap(settingsCtl.Show))

	api.Get("/compare", "compare.show", ctx.Wrap(compareCtl.Show))
	api.Delete("/compare", "compare.clear", ctx.Wrap(compareCtl.Clear))
	api.Post("/compare/items", "compare.add", ctx.Wrap(compareCtl.Add))
	api.Delete("/compare/items/{id}", "compare.remove", ctx.Wrap(compareCtl.Remove))
	api.Get("/compare/matrix", "compare.matrix", ctx.Wrap(compareCtl.Matrix))

	// ── Auth ───────────────────────────────────────────────────────────────
	api.Post("/auth/login", "auth.login", ctx.Wrap(authCtl.Login))
	api.Post("/auth/logout", "auth.logout", ctx.Wrap(authCtl.Logout))
	api.Get("/auth/me", "auth.me", ctx.Wrap(authCtl.Me), middleware.Authenticate, rbac.HasRole(models.RoleAdmin))

	// ── Back office ────────────────────────────────────────────────────────
	admin := api.Group("/admin", middleware.Authenticate, rbac.HasRole(models.RoleAdmin))

	admin.Get("/products", "admin.products.index", ctx.Wrap(adminProductCtl.Index))
	admin.Post("/products", "admin.products.store", ctx.Wrap(adminProductCtl.Store))
	admin.Post("/products/batch", "admin.products.batch", ctx.Wrap(adminProductCtl.Batch))
	admin.Get("/products/{id}", "admin.products.show", ctx.Wrap(adminProductCtl.Show))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(adminProductCtl.Update))
	admin.Patch("/products/{id}", "admin.products.patch", ctx.Wrap(adminProductCtl.Patch))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(adminProductCtl.Destroy))

	admin.Get("/brands", "admin.brands.index", ctx.Wrap(brandCtl.Index))
	admin.Post("/brands", "admin.brands.store", ctx.Wrap(brandCtl.Store))
	admin.Get("/brands/{id}", "admin.brands.show", ctx.Wrap(brandCtl.Show))
	admin.Put("/brands/{id}", "admin.brands.update", ctx.Wrap(brandCtl.Update))
	admin.Delete("/brands/{id}", "admin.brands.destroy", ctx.Wrap(brandCtl.Destroy))

	admin.Get("/banners", "admin.banners.index", ctx.Wrap(bannerCtl.Index))
	admin.Post("/banners", "admin.banners.store", ctx.Wrap(bannerCtl.Store))
	admin.Put("/banners/{id}", "admin.banners.update", ctx.Wrap(bannerCtl.Update))
	admin.Delete("/banners/{id}", "admin.banners.destroy", ctx.Wrap(bannerCtl.Destroy))

	admin.Put("/settings", "admin.settings.update", ctx.Wrap(settingsCtl.Update))

	admin.Post("/upload", "admin.upload", ctx.Wrap(uploadCtl.Store))
	admin.Get("/media", "admin.media.index", ctx.Wrap(uploadCtl.Media))
	admin.Delete("/media/{name}", "admin.media.destroy", ctx.Wrap(uploadCtl.DestroyMedia))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		ctx.Wrap(func(c *ctx.Context) { c.NotFound("Route not found") })(w, req)
	})
}
