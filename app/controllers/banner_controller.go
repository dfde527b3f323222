package controllers

import (
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
)

type BannerController struct {
	banners *services.BannerService
}

func NewBannerController(banners *services.BannerService) *BannerController {
	return &BannerController{banners: banners}
}

// Hero handles GET /api/banners/hero.
func (bc *BannerController) Hero(c *ctx.Context) {
	b, err := bc.banners.Hero(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(b)
}

func (bc *BannerController) Index(c *ctx.Context) {
	list, err := bc.banners.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (bc *BannerController) Store(c *ctx.Context) {
	var in services.BannerInput
	if !c.DecodeJSON(&in) {
		return
	}
	b, err := bc.banners.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(b)
}

func (bc *BannerController) Update(c *ctx.Context) {
	var in services.BannerInput
	if !c.DecodeJSON(&in) {
		return
	}
	b, err := bc.banners.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(b)
}

func (bc *BannerController) Destroy(c *ctx.Context) {
	if err := bc.banners.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Banner deleted")
}
