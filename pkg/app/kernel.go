package app

import (
	"time"

	"github.com/aircon-store/storefront/pkg/cache"
	"github.com/aircon-store/storefront/pkg/metrics"
	"github.com/aircon-store/storefront/pkg/middleware"
	"github.com/aircon-store/storefront/pkg/reqid"
	"github.com/aircon-store/storefront/pkg/router"
	"github.com/aircon-store/storefront/pkg/session"
)

// buildHandler mounts the global middleware, /metrics and the route
// callbacks on a fresh router.
func buildHandler(a *Application) *router.Router {
	store := a.sessionStore
	if store == nil {
		store = cache.Default()
	}

	r := router.New()

	// Outermost first: metrics see total latency, recovery guards the
	// rest, and the logger needs the request id.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(a.sessionOpts, store))
	r.Use(middleware.CORS(a.cors))
	r.Use(middleware.RateLimit(a.ratePerMin, time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}
