package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazar/app/routes"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/app"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/router"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

var serveWorkersFlag int

// bazar serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer logger.Close()

		if serveWorkersFlag > 0 {
			go k.queue.Work(ctx, serveWorkersFlag)
		}

		a := app.New().Routes(func(r *router.Router) {
			routes.RegisterAPI(r, k.deps())
			if local, ok := k.disk.(*storage.LocalDisk); ok {
				r.Handle(http.MethodGet, "/storage/*", http.StripPrefix("/storage/", local.Handler()))
			}
		})
		return a.Serve(ctx, ":"+config.AppPort())
	},
}

// bazar route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := app.New().Routes(func(r *router.Router) {
			routes.RegisterAPI(r, routes.Deps{})
		}).Router()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serveWorkersFlag, "workers", "w", 2, "Queue workers to run next to the server (0 disables)")
}
