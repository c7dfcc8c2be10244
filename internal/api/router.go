package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tiffin-route-service/internal/api/handlers"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

// Deps are the adapters the HTTP layer needs. Cache, Metrics and Gatherer
// may be nil.
type Deps struct {
	Planner  *services.Planner
	Stores   ports.StoreRepository
	Orders   ports.OrderRepository
	Cache    ports.PlanCache
	Metrics  *obs.Metrics
	Gatherer prometheus.Gatherer
	Clock    handlers.Clock
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(d.Metrics))
	r.Use(middleware.Recoverer)

	stores := &handlers.StoreHandler{Stores: d.Stores, Cache: d.Cache}
	deliveries := &handlers.DeliveryHandler{Planner: d.Planner, Clock: d.Clock}
	orders := &handlers.OrderHandler{
		Orders:  d.Orders,
		Cache:   d.Cache,
		Metrics: d.Metrics,
		Clock:   d.Clock,
	}

	r.Get("/health", handlers.Health)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", stores.List)
		r.Route("/{storeID}", func(r chi.Router) {
			r.Get("/", stores.Get)
			r.Put("/divider", stores.PutDivider)
			r.Get("/deliveries", deliveries.Plan)
		})
	})
	r.Patch("/orders/{kind}/{orderID}/status", orders.UpdateStatus)
	r.Route("/catering/{orderID}", func(r chi.Router) {
		r.Get("/", orders.GetCatering)
		r.Post("/payments", orders.RecordPayment)
	})
	r.Post("/routes", handlers.AdHocRoutes)

	return r
}
