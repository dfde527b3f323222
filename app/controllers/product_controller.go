package controllers

import (
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
)

// ProductController serves the public catalogue.
type ProductController struct {
	catalog  *services.CatalogService
	products *services.ProductService
}

func NewProductController(catalog *services.CatalogService, products *services.ProductService) *ProductController {
	return &ProductController{catalog: catalog, products: products}
}

type pageMeta struct {
	NextCursor string `json:"nextCursor,omitempty"`
}

// Index handles GET /api/products.
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.catalog.Products(c.Context(), services.ParseProductFilter(c.QueryValues()))
	if err != nil {
		fail(c, err)
		return
	}
	if page.NextCursor != "" {
		c.SuccessWithMeta(page.Items, pageMeta{NextCursor: page.NextCursor})
		return
	}
	c.Success(page.Items)
}

// Filters handles GET /api/products/filters.
func (pc *ProductController) Filters(c *ctx.Context) {
	opts, err := pc.catalog.FilterOptions(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(opts)
}

// Featured handles GET /api/products/featured?limit=.
func (pc *ProductController) Featured(c *ctx.Context) {
	list, err := pc.catalog.Featured(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

// Show handles GET /api/products/{id}; the segment may be an id or a slug.
func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.products.Resolve(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// ShowBySlug handles GET /api/products/slug/{slug}. Only active products
// are visible.
func (pc *ProductController) ShowBySlug(c *ctx.Context) {
	p, err := pc.products.BySlug(c.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}
