// Package routes wires controllers onto the HTTP router.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/genosys/app/controllers"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/metrics"
	"github.com/shashiranjanraj/genosys/pkg/middleware"
	"github.com/shashiranjanraj/genosys/pkg/response"
	"github.com/shashiranjanraj/genosys/pkg/router"
	"github.com/shashiranjanraj/genosys/pkg/session"
	"github.com/shashiranjanraj/genosys/pkg/ws"
)

// Deps carries the shared services and hubs the routes need. Controllers
// that hold no shared state construct their own dependencies.
type Deps struct {
	Tracking  *services.TrackingService
	Analytics *services.AnalyticsService
	OrderFeed *ws.Hub
}

// RegisterAPI mounts every endpoint.
func RegisterAPI(r *router.Router, deps Deps) {
	authController := controllers.NewAuthController()
	orderController := controllers.NewOrderController()
	productController := controllers.NewProductController()
	trackController := controllers.NewTrackController(deps.Tracking)
	analyticsController := controllers.NewAnalyticsController(deps.Analytics)

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		if err := database.Ping(); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api", middleware.RateLimit(300, time.Minute))

	// Public.
	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)
	api.Get("/products", "products.list", productController.List)
	api.Get("/products/{id}", "products.get", productController.Get)

	// Tracking beacons: higher rate limit, session cookie for anonymous
	// visitor continuity.
	track := api.Group("/track",
		middleware.RateLimit(1200, time.Minute),
		session.Middleware(session.DefaultOptions()),
	)
	track.Post("/page-view", "track.page_view", trackController.PageView)
	track.Post("/action", "track.action", trackController.Action)
	track.Post("/session", "track.session", trackController.Session)

	// Customer, token required.
	customer := api.Group("", middleware.Auth)
	customer.Post("/orders", "orders.checkout", orderController.Checkout)
	customer.Get("/orders", "orders.mine", orderController.MyOrders)
	customer.Delete("/orders/{id}", "orders.cancel", orderController.Cancel)

	// Admin console.
	admin := api.Group("/admin", middleware.Auth, middleware.AdminOnly)
	admin.Get("/orders", "admin.orders.list", orderController.AdminList)
	admin.Patch("/orders/{id}/status", "admin.orders.status", orderController.AdminUpdateStatus)
	admin.Post("/products", "admin.products.create", productController.AdminCreate)
	admin.Get("/analytics/overview", "admin.analytics.overview", analyticsController.Overview)
	admin.Get("/analytics/timeline", "admin.analytics.timeline", analyticsController.Timeline)
	admin.Get("/analytics/cities", "admin.analytics.cities", analyticsController.Cities)

	gqlHandler, err := analyticsController.GraphQLHandler()
	if err != nil {
		logger.Error("routes: graphql schema failed to build", "error", err)
	} else {
		admin.Post("/analytics/graphql", "admin.analytics.graphql", gqlHandler)
	}

	// Admin live order feed. The token rides a query parameter because
	// browsers cannot set headers on a WebSocket dial, so it is promoted
	// to the Authorization header before the auth middleware runs.
	r.Get("/ws/admin/orders", "admin.orders.feed", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, deps.OrderFeed)
	}, queryTokenToHeader, middleware.Auth, middleware.AdminOnly)
}

func queryTokenToHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next.ServeHTTP(w, r)
	})
}
