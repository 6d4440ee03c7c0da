package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avkuzmin/tradetape/internal/transport/httpapi/handler"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger          *logger.Logger
	AllowedOrigins  []string
	AuthHandler     *handler.AuthHandler
	WalletHandler   *handler.WalletHandler
	TradeHandler    *handler.TradeHandler
	PositionHandler *handler.PositionHandler
	JournalHandler  *handler.JournalHandler
	InsightHandler  *handler.InsightHandler
	HealthHandler   *handler.HealthHandler
	JWTMiddleware   func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				// Tracked wallet routes
				if cfg.WalletHandler != nil {
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Get("/wallets", cfg.WalletHandler.GetWallets)
					r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
					r.Delete("/wallets/{id}", cfg.WalletHandler.DeleteWallet)
					r.Post("/wallets/{id}/sync", cfg.WalletHandler.TriggerSync)
				}

				// Trade routes
				if cfg.TradeHandler != nil {
					r.Post("/trades", cfg.TradeHandler.CreateTrade)
					r.Get("/trades", cfg.TradeHandler.GetTrades)
					r.Get("/trades/{id}", cfg.TradeHandler.GetTrade)
					r.Put("/trades/{id}", cfg.TradeHandler.UpdateTrade)
					r.Delete("/trades/{id}", cfg.TradeHandler.DeleteTrade)
				}

				// Position routes
				if cfg.PositionHandler != nil {
					r.Get("/positions", cfg.PositionHandler.GetPositions)
					r.Get("/positions/{contract}", cfg.PositionHandler.GetPosition)
				}

				// Journal routes
				if cfg.JournalHandler != nil {
					r.Post("/journal", cfg.JournalHandler.CreateEntry)
					r.Get("/journal", cfg.JournalHandler.GetEntries)
					r.Get("/journal/{id}", cfg.JournalHandler.GetEntry)
					r.Put("/journal/{id}", cfg.JournalHandler.UpdateEntry)
					r.Delete("/journal/{id}", cfg.JournalHandler.DeleteEntry)
				}

				// Insight routes
				if cfg.InsightHandler != nil {
					r.Post("/insights", cfg.InsightHandler.GenerateInsight)
					r.Get("/insights", cfg.InsightHandler.GetInsights)
				}
			})
		}
	})

	return r
}
