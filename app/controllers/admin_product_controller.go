package controllers

import (
	"net/http"

	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
	"github.com/aircon-store/storefront/pkg/logger"
)

// AdminProductController is the back-office product resource.
type AdminProductController struct {
	products *services.ProductService
}

func NewAdminProductController(products *services.ProductService) *AdminProductController {
	return &AdminProductController{products: products}
}

// Index handles GET /api/admin/products?page=&limit=&status=&search=.
func (pc *AdminProductController) Index(c *ctx.Context) {
	list, page, err := pc.products.List(c.Context(),
		c.QueryInt("page", 1), c.QueryInt("limit", 20), c.Query("status"), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(list, page)
}

func (pc *AdminProductController) Show(c *ctx.Context) {
	p, err := pc.products.ByID(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *AdminProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := pc.products.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	logger.WithCtx(c.Context()).Info("product created", "id", p.ID, "slug", p.Slug)
	c.Created(p)
}

func (pc *AdminProductController) Update(c *ctx.Context) {
	var in services.ProductInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := pc.products.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// Patch handles the quick status/featured edit.
func (pc *AdminProductController) Patch(c *ctx.Context) {
	var patch services.ProductPatch
	if !c.DecodeJSON(&patch) {
		return
	}
	p, err := pc.products.Patch(c.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

type batchResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// Batch handles POST /api/admin/products/batch with a body of
// {"<id>": {"status": "...", "featured": true}}. It answers 200 when every
// row saved and 207 otherwise.
func (pc *AdminProductController) Batch(c *ctx.Context) {
	var patches map[string]services.ProductPatch
	if !c.DecodeJSON(&patches) {
		return
	}
	if len(patches) == 0 {
		c.ValidationError("No changes to save.", nil)
		return
	}

	res := pc.products.BatchPatch(c.Context(), patches)
	body := batchResult{Updated: res.Succeeded, Failed: make(map[string]string, len(res.Failed))}
	for id, err := range res.Failed {
		body.Failed[id] = err.Error()
	}

	if res.OK() {
		c.Success(body)
		return
	}
	logger.WithCtx(c.Context()).Warn("batch save partially failed",
		"updated", len(res.Succeeded), "failed", len(res.Failed))
	c.JSON(http.StatusMultiStatus, envelope(http.StatusMultiStatus, "Some changes could not be saved.", body))
}

func (pc *AdminProductController) Destroy(c *ctx.Context) {
	if err := pc.products.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted")
}
