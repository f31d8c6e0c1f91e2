package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/genosys/app/routes"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/internal/server"
	"github.com/shashiranjanraj/genosys/pkg/collection"
	"github.com/shashiranjanraj/genosys/pkg/router"
	"github.com/shashiranjanraj/genosys/pkg/ws"
)

// genosys serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// genosys route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r, routes.Deps{
			Tracking:  services.NewTrackingService(),
			Analytics: services.NewAnalyticsService(),
			OrderFeed: ws.NewHub(),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		lines := collection.Map(infos, func(ri router.Route) string {
			return fmt.Sprintf("%s\t%s\t%s", ri.Method, ri.Path, ri.Name)
		})
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return w.Flush()
	},
}
