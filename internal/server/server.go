// Package server boots every subsystem and runs the HTTP server until a
// shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/genosys/app/routes"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/config"
	"github.com/shashiranjanraj/genosys/pkg/cache"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shashiranjanraj/genosys/pkg/event"
	grpcserver "github.com/shashiranjanraj/genosys/pkg/grpc"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/metrics"
	"github.com/shashiranjanraj/genosys/pkg/middleware"
	"github.com/shashiranjanraj/genosys/pkg/reqid"
	"github.com/shashiranjanraj/genosys/pkg/router"
	"github.com/shashiranjanraj/genosys/pkg/schedule"
	"github.com/shashiranjanraj/genosys/pkg/storage"
	"github.com/shashiranjanraj/genosys/pkg/ws"
)

// Start boots the storefront and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.MongoURI(); uri != "" {
		sink, err := logger.EnableMongoSink(uri, config.MongoDB())
		if err != nil {
			logger.Warn("server: mongo log sink disabled", "error", err)
		} else {
			defer sink.Close()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis only backs sessions and read caching; run without it.
		logger.Warn("server: cache unavailable, continuing without redis", "error", err)
	}
	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared services and the admin order feed.
	orderFeed := ws.NewHub()
	go orderFeed.Run()
	wireOrderFeed(orderFeed)

	tracking := services.NewTrackingService()
	tracking.ListenDomainEvents()
	defer tracking.Stop()

	analytics := services.NewAnalyticsService()

	report := services.NewReportService(analytics)
	schedule.Daily().At("03:00").Name("analytics-report").WithoutOverlapping().Run(report.RunDaily)
	schedule.Start(ctx)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}
	defer grpcserver.Stop(grpcSrv)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	routes.RegisterAPI(r, routes.Deps{
		Tracking:  tracking,
		Analytics: analytics,
		OrderFeed: orderFeed,
	})

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wireOrderFeed relays order lifecycle events onto the admin WebSocket
// feed.
func wireOrderFeed(hub *ws.Hub) {
	event.Listen(event.OrderCreated, func(payload interface{}) {
		hub.BroadcastJSON(map[string]interface{}{"event": event.OrderCreated, "order": payload})
	})
	event.Listen(event.OrderStatusChanged, func(payload interface{}) {
		hub.BroadcastJSON(map[string]interface{}{"event": event.OrderStatusChanged, "change": payload})
	})
	event.Listen(event.OrderCancelled, func(payload interface{}) {
		hub.BroadcastJSON(map[string]interface{}{"event": event.OrderCancelled, "order": payload})
	})
}
