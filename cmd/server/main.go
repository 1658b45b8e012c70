package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyago/fareopt/internal/amadeus"
	"github.com/voyago/fareopt/internal/cache"
	"github.com/voyago/fareopt/internal/config"
	"github.com/voyago/fareopt/internal/engine"
	"github.com/voyago/fareopt/internal/handler"
	"github.com/voyago/fareopt/internal/ratelimit"
)

func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	source := amadeus.NewClient(cfg.AmadeusURL, cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.Currency)

	resultCache, err := buildCache(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize result cache: %v", err)
	}
	defer resultCache.Close()

	limiter := ratelimit.NewSourceLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.SourceRPS,
		BurstSize:         cfg.SourceBurst,
	})

	optimizer := engine.New(source, source, resultCache, engine.Config{
		Workers:     cfg.Workers,
		CallTimeout: cfg.CallTimeout,
		RetryMax:    cfg.RetryMax,
		BackoffBase: cfg.BackoffBase,
		BackoffCap:  cfg.BackoffCap,
		Deadline:    cfg.Deadline,
		TupleCap:    cfg.TupleCap,
		AirportTopK: cfg.AirportTopK,
		Limiter:     limiter,
	})

	optimizeHandler := handler.NewOptimizeHandler(optimizer)

	api := e.Group("/api/v1")
	api.POST("/fares/optimize", optimizeHandler.Optimize)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	log.Printf("Starting fare optimizer server on port %s (workers=%d, deadline=%v, tuple cap=%d)",
		cfg.Port, cfg.Workers, cfg.Deadline, cfg.TupleCap)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case "redis":
		log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
		return cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			DB:   cfg.RedisDB,
			TTL:  cfg.CacheTTL,
		})
	case "none":
		log.Println("Cache disabled")
		return cache.NewNoOpCache(), nil
	default:
		log.Printf("In-memory cache enabled (TTL: %v)", cfg.CacheTTL)
		return cache.NewMemoryCache(cfg.CacheTTL, 10*cfg.CacheTTL), nil
	}
}
