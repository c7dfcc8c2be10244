package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"tiffin-route-service/internal/adapters/cache"
	"tiffin-route-service/internal/adapters/geocoding"
	"tiffin-route-service/internal/adapters/repositories"
	"tiffin-route-service/internal/api"
	"tiffin-route-service/internal/api/handlers"
	"tiffin-route-service/internal/config"
	"tiffin-route-service/internal/platform/db"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger().WithError(err).Fatal("load config")
	}
	obs.SetLogger(obs.NewLogger(cfg.LogLevel, os.Stdout))
	log := obs.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.WithError(err).Fatal("init schema")
	}
	// Demo data is loaded on startup for local runs.
	if cfg.SeedOnStart {
		if _, err := os.Stat(cfg.SeedPath); err == nil {
			if _, err := repositories.SeedFromJSON(ctx, conn, cfg.SeedPath, nil); err != nil {
				log.WithError(err).Fatal("seed database")
			}
			log.WithField("path", cfg.SeedPath).Info("seed data loaded")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(reg)

	stores := repositories.NewSQLStoreRepository(conn)
	orders := repositories.NewSQLOrderRepository(conn)

	var planCache ports.PlanCache
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, plans will be cached once it recovers")
		}
		planCache = cache.NewRedisPlanCache(rdb, cfg.RouteCacheTTL)
	}

	var geocoder ports.Geocoder
	if cfg.GeocodingEnabled() {
		g, err := geocoding.NewORSGeocoder(cfg.ORSAPIKey,
			geocoding.WithCountry(cfg.ORSCountry),
			geocoding.WithCache(cache.NewSQLGeocodeCache(conn)),
		)
		if err != nil {
			log.WithError(err).Fatal("create geocoder")
		}
		geocoder = g
	}

	router := api.NewRouter(api.Deps{
		Planner: &services.Planner{
			Stores:   stores,
			Staff:    stores,
			Orders:   orders,
			Geocoder: geocoder,
			Cache:    planCache,
			Metrics:  metrics,
		},
		Stores:   stores,
		Orders:   orders,
		Cache:    planCache,
		Metrics:  metrics,
		Gatherer: reg,
		Clock:    handlers.Clock{Location: cfg.Location()},
	})

	// Timeouts leave room for cold-cache geocoding during planning.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).
			WithField("cache", cfg.CacheEnabled()).
			WithField("geocoding", cfg.GeocodingEnabled()).
			Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
