package app

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/bazar/internal/server"
)

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	return server.Serve(ctx, addr, handler)
}
