package controllers

import (
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
)

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// Show never fails; the service falls back to defaults.
func (sc *SettingsController) Show(c *ctx.Context) {
	c.Success(sc.settings.Get(c.Context()))
}

func (sc *SettingsController) Update(c *ctx.Context) {
	var in services.SettingsInput
	if !c.DecodeJSON(&in) {
		return
	}
	s, err := sc.settings.Update(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(s)
}
