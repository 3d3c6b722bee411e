package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bloomwell/maternity-ai/backend/internal/adapters/cache"
	"github.com/bloomwell/maternity-ai/backend/internal/adapters/database"
	"github.com/bloomwell/maternity-ai/backend/internal/adapters/events"
	"github.com/bloomwell/maternity-ai/backend/internal/adapters/pricing"
	"github.com/bloomwell/maternity-ai/backend/internal/adapters/search"
	"github.com/bloomwell/maternity-ai/backend/internal/api/handlers"
	"github.com/bloomwell/maternity-ai/backend/internal/api/routes"
	"github.com/bloomwell/maternity-ai/backend/internal/application/services"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/providers"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/backendapi"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/openai"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/postgres"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/redis"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/typesense"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/observability"
	"github.com/bloomwell/maternity-ai/backend/pkg/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// A present-but-invalid pricebook file is a startup error; an absent file
	// just leaves that table empty and lookups default.
	priceBook, err := pricing.Load(&cfg.PriceBook)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load pricebook")
	}
	premiums, coverage := priceBook.Size()
	log.Info().Int("premiums", premiums).Int("coverage", coverage).Msg("Pricebook loaded")

	// Optional collaborators: the service degrades to the fallback result when
	// search or generation is unavailable, so none of these are fatal.
	var searcher providers.PassageSearcher
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, serving fallback results")
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searcher = search.NewTypesenseAdapter(typesenseClient)
	}

	var generator providers.TextGenerator
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set, serving fallback results")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			generator = openaiClient
		}
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, caching and events disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	service := services.NewRecommendationService(
		services.NewProfileAnalyzer(),
		services.NewQueryBuilder(),
		services.NewResponseNormalizer(priceBook),
		searcher,
		generator,
	)
	service.SetMetrics(metrics)

	var eventBus providers.EventBus
	if redisClient != nil {
		service.SetCache(cache.NewRedisAdapter(redisClient))
		eventBus = events.NewRedisEventBus(redisClient)
		service.SetEventBus(eventBus)
	}

	var analyticsHandler *handlers.AnalyticsHandler
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, audit log disabled")
		} else {
			defer pgClient.Close()
			auditLog := database.NewRecommendationLogAdapter(pgClient)
			if err := auditLog.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to ensure audit schema")
			}
			service.SetAuditLog(auditLog)
			analyticsHandler = handlers.NewAnalyticsHandler(auditLog)
		}
	}

	if cfg.Backend.BaseURL != "" {
		service.SetForwarder(backendapi.NewClient(cfg.Backend.BaseURL))
		log.Info().Str("base_url", cfg.Backend.BaseURL).Msg("Result forwarding enabled")
	}

	router := routes.NewRouter(
		handlers.NewRecommendHandler(service),
		analyticsHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
