package controllers

import (
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
)

type BrandController struct {
	brands *services.BrandService
}

func NewBrandController(brands *services.BrandService) *BrandController {
	return &BrandController{brands: brands}
}

// Active handles GET /api/brands for the storefront navigation.
func (bc *BrandController) Active(c *ctx.Context) {
	list, err := bc.brands.List(c.Context(), true)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (bc *BrandController) Index(c *ctx.Context) {
	list, err := bc.brands.List(c.Context(), false)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (bc *BrandController) Show(c *ctx.Context) {
	b, err := bc.brands.Get(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(b)
}

func (bc *BrandController) Store(c *ctx.Context) {
	var in services.BrandInput
	if !c.DecodeJSON(&in) {
		return
	}
	b, err := bc.brands.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(b)
}

func (bc *BrandController) Update(c *ctx.Context) {
	var in services.BrandInput
	if !c.DecodeJSON(&in) {
		return
	}
	b, err := bc.brands.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(b)
}

func (bc *BrandController) Destroy(c *ctx.Context) {
	if err := bc.brands.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Brand deleted")
}
