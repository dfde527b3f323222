// Package app assembles the HTTP kernel and the shared CLI commands.
//
//	a := app.New().
//	    Sessions(session.DefaultOptions(), cache.Default()).
//	    Routes(func(r *router.Router) { routes.Register(r, env) })
//	err := a.Serve(ctx, server.Options{Addr: ":8080"})
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/aircon-store/storefront/internal/server"
	"github.com/aircon-store/storefront/pkg/cache"
	"github.com/aircon-store/storefront/pkg/middleware"
	"github.com/aircon-store/storefront/pkg/router"
	"github.com/aircon-store/storefront/pkg/session"
)

// Application collects the route callbacks and kernel settings.
type Application struct {
	routesFns    []func(*router.Router)
	sessionOpts  session.Options
	sessionStore cache.Store
	cors         middleware.CORSOptions
	ratePerMin   int
}

func New() *Application {
	return &Application{
		sessionOpts: session.DefaultOptions(),
		cors:        middleware.DefaultCORSOptions(),
		ratePerMin:  200,
	}
}

// Routes registers a callback run when the kernel is built. Callbacks run
// in the order they were added.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Sessions sets the admin session cookie options and backing store. A nil
// store means cache.Default() at build time.
func (a *Application) Sessions(opts session.Options, store cache.Store) *Application {
	a.sessionOpts = opts
	a.sessionStore = store
	return a
}

// CORS restricts the allowed origins.
func (a *Application) CORS(origins ...string) *Application {
	if len(origins) > 0 {
		a.cors.AllowedOrigins = origins
	}
	return a
}

// RateLimit sets requests per minute per client IP; 0 disables it.
func (a *Application) RateLimit(perMinute int) *Application {
	a.ratePerMin = perMinute
	return a
}

// Handler builds the kernel.
func (a *Application) Handler() http.Handler {
	return buildHandler(a).Handler()
}

// RouteList returns every route the callbacks register.
func (a *Application) RouteList() []router.Route {
	return buildHandler(a).Routes()
}

// Serve runs the kernel until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, opts server.Options) error {
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	return server.Run(ctx, a.Handler(), opts)
}
