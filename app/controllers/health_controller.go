package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aircon-store/storefront/pkg/ctx"
)

// HealthController answers load balancer probes with a bare
// {"status":"ok"} body.
type HealthController struct {
	ping func(context.Context) error
}

func NewHealthController(ping func(context.Context) error) *HealthController {
	return &HealthController{ping: ping}
}

func (hc *HealthController) Check(c *ctx.Context) {
	pctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := hc.ping(pctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
