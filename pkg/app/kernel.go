package app

import (
	"net/http"

	"github.com/shashiranjanraj/bazar/pkg/metrics"
	"github.com/shashiranjanraj/bazar/pkg/middleware"
	"github.com/shashiranjanraj/bazar/pkg/reqid"
	"github.com/shashiranjanraj/bazar/pkg/router"
)

// buildKernel applies the global middleware, outermost first:
// metrics, panic recovery, request id, request logging, CORS, rate limit.
func buildKernel(a *Application) *router.Router {
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(a.cors),
		a.limiter.Middleware,
	)

	r.Handle(http.MethodGet, "/metrics", metrics.Handler())
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	}))

	for _, fn := range a.routes {
		fn(r)
	}
	return r
}
