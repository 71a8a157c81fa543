// Package app assembles the HTTP kernel: the global middleware stack, the
// metrics endpoint and the application's routes.
//
//	a := app.New().Routes(func(r *router.Router) {
//	    routes.RegisterAPI(r, deps)
//	})
//	err := a.Serve(ctx, ":8080")
package app

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/middleware"
	"github.com/shashiranjanraj/bazar/pkg/router"
)

// Application collects route registrations and builds the kernel from them.
type Application struct {
	routes  []func(*router.Router)
	limiter *middleware.Limiter
	cors    middleware.CORSOptions
}

// New reads RATE_LIMIT (requests per minute per client, default 200) and
// TRUSTED_PROXIES (comma-separated IPs or CIDRs whose X-Forwarded-For is
// honoured).
func New() *Application {
	limit, err := strconv.Atoi(config.Get("RATE_LIMIT", "200"))
	if err != nil || limit <= 0 {
		limit = 200
	}
	limiter := middleware.NewLimiter(limit, time.Minute)
	if proxies := config.Get("TRUSTED_PROXIES", ""); proxies != "" {
		if err := limiter.TrustProxies(strings.Split(proxies, ",")...); err != nil {
			logger.Warn("rate limiter: ignoring trusted proxies", "error", err)
		}
	}
	return &Application{
		limiter: limiter,
		cors:    middleware.DefaultCORSOptions(),
	}
}

// Routes adds a route registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routes = append(a.routes, fn)
	return a
}

// Router builds a fresh router with the middleware stack and every route.
func (a *Application) Router() *router.Router {
	return buildKernel(a)
}

// Handler is Router().Handler().
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}

// Serve runs the kernel on addr until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, addr string) error {
	go a.limiter.Sweep(ctx, time.Minute)
	return startServer(ctx, addr, a.Handler())
}
