// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "snapshare/docs" // swagger docs
	"snapshare/internal/auth"
	"snapshare/internal/config"
	"snapshare/internal/middleware"
	"snapshare/internal/models"
	"snapshare/internal/notifications"
	"snapshare/internal/observability"
	"snapshare/internal/repository"
	"snapshare/internal/service"
	"snapshare/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	wsLogger       *observability.WSLogger
	authService    *service.AuthService
	postService    *service.PostService
	followService  *service.FollowService
	userService    *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; the feed then only reaches clients of this instance.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, uploader storage.Uploader) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires a config and a database")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	var providers []auth.IdentityProvider
	if cfg.OAuthUserInfoURL != "" {
		providers = append(providers, auth.NewOIDCProvider("google", cfg.OAuthUserInfoURL))
	}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL())

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("snapshare-api"),
		hub:            notifications.NewHub(),
		authService:    service.NewAuthService(userRepo, issuer, providers...),
		postService:    service.NewPostService(postRepo, uploader),
		followService:  service.NewFollowService(subRepo, userRepo),
		userService:    service.NewUserService(userRepo, uploader),
	}
	server.wsLogger = observability.NewWSLogger(server.hub.Name(), middleware.Logger)
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// NewApp builds the Fiber app with the shared error body for unhandled errors.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Snapshare API",
		BodyLimit: storage.MaxUploadBytes*4/3 + 64*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{
					Message: fe.Message,
					Status:  fe.Code,
					Code:    codeForStatus(fe.Code),
				})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))

	app.Use(middleware.RequestTimeout(s.config.RequestTimeout()))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	if s.config.StorageDriver == "" || s.config.StorageDriver == "local" {
		app.Static(s.config.MediaBaseURL, s.config.UploadDir, fiber.Static{
			MaxAge: int((365 * 24 * time.Hour).Seconds()),
		})
	}

	api := app.Group("/api")
	requireAuth := middleware.AuthRequired(s.authService)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)
	authGroup.Post("/oauth", s.ProviderLogin)
	authGroup.Get("/me", requireAuth, s.Me)

	// Post routes
	posts := api.Group("/post", requireAuth)
	posts.Post("/create", s.CreatePost)
	posts.Get("/read", s.ListPosts)
	posts.Get("/read/:id", s.GetPost)
	posts.Put("/:id", s.ToggleLike)
	posts.Post("/:id", s.AddComment)
	posts.Delete("/:id", s.DeletePost)

	// User routes. Specific paths before the generic /:id routes.
	users := api.Group("/user", requireAuth)
	users.Get("/", s.ListUsers)
	users.Get("/search", s.SearchUsers)
	users.Post("/follow/:id", s.ToggleFollow)
	users.Get("/follow/:id", s.FollowStatus)
	users.Get("/:id", s.GetUserProfile)
	users.Post("/:id", s.UpdateProfile)

	// Feed websocket; the token may be passed as ?token=
	api.Get("/ws", requireAuth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,time=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
// @Summary Readiness probe
// @Description Pings the database and Redis.
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; without it the feed is instance-local.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"websockets": s.hub.ConnectionCount(),
		"time":       time.Now(),
	})
}

// Start wires the feed hub to Redis and serves HTTP until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start feed wiring", slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	if err := s.app.Listen(":" + s.config.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the Redis subscriber
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
