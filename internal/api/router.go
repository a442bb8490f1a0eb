package api

import (
	"net/http"

	"github.com/clubhub/clubhub/internal/api/handler"
	customMiddleware "github.com/clubhub/clubhub/internal/api/middleware"
	"github.com/clubhub/clubhub/internal/config"
	"github.com/clubhub/clubhub/internal/mail"
	"github.com/clubhub/clubhub/internal/repository/mongodb"
	"github.com/clubhub/clubhub/internal/repository/redis"
	"github.com/clubhub/clubhub/internal/security"
	"github.com/clubhub/clubhub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. The notification service
// is returned alongside the handler so the caller can run the retention
// sweeper against it.
func NewRouter(cfg *config.Config, db *mongodb.DB, redisClient *redis.Client) (http.Handler, *service.NotificationService) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	clubRepo := mongodb.NewClubRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)

	// Initialize rate limiter and club cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	clubCache := redis.NewClubCache(redisClient)

	// Initialize mail delivery
	var mailer mail.Sender = mail.NopSender{}
	if cfg.Mail.Enabled() {
		log.Info().Str("host", cfg.Mail.Host).Msg("SMTP delivery enabled")
		mailer = mail.NewSMTPSender(cfg.Mail)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	notificationService := service.NewNotificationService(
		notificationRepo,
		userRepo,
		mailer,
		cfg.Retention.NotificationMaxAge,
	)
	membershipService := service.NewMembershipService(clubRepo, userRepo, notificationService, clubCache)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	clubHandler := handler.NewClubHandler(membershipService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)

			// Notification routes
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Patch("/mark-read", notificationHandler.MarkRead)
				r.Delete("/cleanup", notificationHandler.Cleanup)
			})

			// Club routes
			r.Route("/clubs", func(r chi.Router) {
				r.Get("/", clubHandler.List)
				r.Post("/", clubHandler.Create)

				r.Route("/{clubID}", func(r chi.Router) {
					r.Use(customMiddleware.ClubContext)

					r.Get("/", clubHandler.Get)
					r.Patch("/", clubHandler.Update)
					r.Delete("/", clubHandler.Delete)

					// Join request workflow
					r.Post("/join", membershipHandler.RequestJoin)
					r.Get("/requests", membershipHandler.ListRequests)
					r.Patch("/requests/{requestID}", membershipHandler.Resolve)

					// Leader set
					r.Post("/leaders/{memberID}", membershipHandler.Promote)
					r.Delete("/leaders/{memberID}", membershipHandler.Demote)
				})
			})

			// Roster routes
			r.Route("/membership/{clubID}", func(r chi.Router) {
				r.Use(customMiddleware.ClubContext)

				r.Get("/members", clubHandler.ListMembers)
				r.Delete("/members/{memberID}", membershipHandler.Remove)
				r.Post("/invite", membershipHandler.Invite)
				r.Post("/leave", membershipHandler.Leave)
			})
		})
	})

	return r, notificationService
}
