package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/cpq_api/internal/cache"
	"github.com/GTDGit/cpq_api/internal/config"
	"github.com/GTDGit/cpq_api/internal/handler"
	"github.com/GTDGit/cpq_api/internal/middleware"
	"github.com/GTDGit/cpq_api/internal/service"
	"github.com/GTDGit/cpq_api/internal/worker"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// main is the application entrypoint for the CPQ bundle API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting cpq api")

	if os.Getenv(cfg.HubSpot.TokenEnv) == "" {
		log.Warn().Str("env_var", cfg.HubSpot.TokenEnv).Msg("HubSpot access token is not set; CRM calls will be unauthenticated")
	}

	// 3. Connect to Redis (optional)
	var redisClient *cache.RedisClient
	var catalogCache *cache.CatalogCache
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		catalogCache = cache.NewCatalogCache(redisClient, cfg.Cache.CatalogTTL)
		log.Info().Dur("ttl", cfg.Cache.CatalogTTL).Msg("redis connected successfully")
	} else {
		log.Info().Msg("REDIS_HOST not set, catalog cache disabled")
	}

	// 4. Initialize HubSpot client
	hubspotClient := hubspot.NewClient(hubspot.Config{
		BaseURL:   cfg.HubSpot.BaseURL,
		TokenEnv:  cfg.HubSpot.TokenEnv,
		Timeout:   cfg.HubSpot.Timeout,
		RateLimit: cfg.HubSpot.RateLimit,
		RateBurst: cfg.HubSpot.RateBurst,
		PageSize:  cfg.HubSpot.PageSize,
	})

	// 5. Initialize services
	catalogSvc := service.NewCatalogService(hubspotClient, catalogCache)
	portalSvc := service.NewPortalService(hubspotClient, catalogSvc)
	bundleSvc := service.NewBundleService(hubspotClient, cfg.HubSpot.MaxConcurrency)

	// 6. Initialize handlers
	if err := handler.RegisterValidators(); err != nil {
		log.Error().Err(err).Msg("failed to register validators")
		os.Exit(1)
	}
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(portalSvc, redisClient),
		Portal:  handler.NewPortalHandler(portalSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Bundle:  handler.NewBundleHandler(catalogSvc, bundleSvc),
	}

	// 7. Initialize middleware
	signatureMw := middleware.NewSignatureMiddleware(cfg.HubSpot.ClientSecret)
	if cfg.HubSpot.ClientSecret == "" {
		log.Warn().Msg("HUBSPOT_CLIENT_SECRET not set, request signatures are not checked")
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, signatureMw)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	if catalogCache != nil && cfg.Worker.CatalogRefreshInterval > 0 {
		go worker.NewCatalogRefreshWorker(catalogSvc, cfg.Worker.CatalogRefreshInterval).Start(ctx)
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Portal  *handler.PortalHandler
	Catalog *handler.CatalogHandler
	Bundle  *handler.BundleHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, signatureMiddleware *middleware.SignatureMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Routes called from the CRM card (signed by HubSpot)
	api := router.Group("/v1")
	api.Use(signatureMiddleware.Handle())
	{
		api.GET("/portal/status", handlers.Portal.GetStatus)
		api.POST("/portal/setup", handlers.Portal.Setup)

		api.GET("/products/tiers", handlers.Catalog.GetTiers)
		api.POST("/bundles/preview", handlers.Bundle.Preview)

		api.POST("/deals/:dealId/bundle", handlers.Bundle.Submit)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
