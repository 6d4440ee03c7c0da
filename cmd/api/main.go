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
	"github.com/redis/go-redis/v9"

	"github.com/avkuzmin/tradetape/internal/infra/gateway/solanatracker"
	"github.com/avkuzmin/tradetape/internal/infra/gateway/textgen"
	"github.com/avkuzmin/tradetape/internal/infra/postgres"
	infraRedis "github.com/avkuzmin/tradetape/internal/infra/redis"
	"github.com/avkuzmin/tradetape/internal/platform/ingest"
	"github.com/avkuzmin/tradetape/internal/platform/insight"
	"github.com/avkuzmin/tradetape/internal/platform/journal"
	"github.com/avkuzmin/tradetape/internal/platform/position"
	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/internal/platform/user"
	"github.com/avkuzmin/tradetape/internal/platform/wallet"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/handler"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
	"github.com/avkuzmin/tradetape/pkg/config"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting TradeTape API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	walletRepo := postgres.NewWalletRepository(db.Pool)
	tradeRepo := postgres.NewTradeRepository(db.Pool)
	journalRepo := postgres.NewJournalRepository(db.Pool)
	insightRepo := postgres.NewInsightRepository(db.Pool)

	// Services
	userSvc := user.NewService(userRepo)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	walletSvc := wallet.NewService(walletRepo)
	tradeSvc := trade.NewService(tradeRepo)
	journalSvc := journal.NewService(journalRepo)
	positionAgg := position.NewAggregator(tradeRepo)

	// Insight generation (text generation API + Redis cache)
	insightCache := infraRedis.NewCache(redisClient, log)
	textGenClient := textgen.NewClient(cfg.TextGenAPIKey, cfg.TextGenBaseURL, log)
	if cfg.TextGenModel != "" {
		textGenClient.SetModel(cfg.TextGenModel)
	}
	insightSvc := insight.NewService(insightRepo, tradeRepo, textGenClient, insightCache, log)

	// On-chain trade ingestion
	ingestCfg := ingest.DefaultConfig()
	ingestCfg.PollInterval = cfg.IngestInterval
	ingestCfg.Enabled = cfg.IngestEnabled
	if err := ingestCfg.Validate(); err != nil {
		log.Error("Invalid ingestion config", "error", err)
		os.Exit(1)
	}

	var (
		fetcher   *ingest.Fetcher
		scheduler *ingest.Scheduler
	)
	if cfg.SolanaTrackerAPIKey != "" {
		stClient := solanatracker.NewClient(cfg.SolanaTrackerAPIKey, log)
		provider := solanatracker.NewSwapProviderAdapter(stClient)
		gate := ingest.NewGate(tradeRepo, log)
		fetcher = ingest.NewFetcher(provider, gate, ingestCfg, log)
		scheduler = ingest.NewScheduler(ingestCfg, fetcher, userRepo, walletRepo, log)
		log.Info("Trade ingestion initialized",
			"poll_interval", ingestCfg.PollInterval,
			"enabled", ingestCfg.Enabled)
	} else {
		log.Warn("SOLANATRACKER_API_KEY not configured, trade ingestion disabled")
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	walletHandler := handler.NewWalletHandler(walletSvc, fetcherOrNil(fetcher))
	tradeHandler := handler.NewTradeHandler(tradeSvc)
	positionHandler := handler.NewPositionHandler(positionAgg)
	journalHandler := handler.NewJournalHandler(journalSvc)
	insightHandler := handler.NewInsightHandler(insightSvc)
	healthHandler := handler.NewHealthHandler(db, insightCache)

	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"}
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:          log,
		AllowedOrigins:  allowedOrigins,
		AuthHandler:     authHandler,
		WalletHandler:   walletHandler,
		TradeHandler:    tradeHandler,
		PositionHandler: positionHandler,
		JournalHandler:  journalHandler,
		InsightHandler:  insightHandler,
		HealthHandler:   healthHandler,
		JWTMiddleware:   jwtMiddleware,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if scheduler != nil {
		go scheduler.Run(ctx)
		log.Info("Trade ingestion scheduler started")
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	if scheduler != nil {
		scheduler.Stop()
		log.Info("Trade ingestion scheduler stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}

// fetcherOrNil keeps the handler's interface value nil when ingestion is
// disabled, so the sync endpoint reports 503 instead of panicking.
func fetcherOrNil(f *ingest.Fetcher) handler.IngestTrigger {
	if f == nil {
		return nil
	}
	return f
}
