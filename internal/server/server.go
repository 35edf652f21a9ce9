// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mealslan/internal/auth"
	"mealslan/internal/cache"
	"mealslan/internal/config"
	"mealslan/internal/database"
	"mealslan/internal/featureflags"
	"mealslan/internal/middleware"
	"mealslan/internal/observability"
	"mealslan/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Wire status values shared by every endpoint. Endpoint-specific failure
// codes (duplicate username, duplicate email, policy rejection) are declared
// next to the handlers that emit them.
const (
	statusOK    = 1
	statusError = 2
)

// nullValue is the sentinel emitted in place of a data or credential field
// when a request fails.
const nullValue = "NULL"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	codec          *auth.Codec
	featureFlags   *featureflags.Manager
	userRepo       repository.UserRepository
	recipeRepo     repository.RecipeRepository
	socialRepo     repository.SocialRepository
	rankingRepo    repository.RankingRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("mealslan-api"),
		codec:          auth.NewCodec(cfg.TokenSecret),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		recipeRepo:     repository.NewRecipeRepository(db),
		socialRepo:     repository.NewSocialRepository(db),
		rankingRepo:    repository.NewRankingRepository(db),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and username
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Account routes
	app.Post("/create_user", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "create_user"), s.CreateUser)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Token-protected routes. The view and search endpoints carry a data
	// field in their failure body, the mutation endpoints do not.
	app.Post("/create_recipe", s.AuthRequired(rejectStatusOnly), s.CreateRecipe)
	app.Post("/like", s.AuthRequired(rejectStatusOnly), s.LikeRecipe)
	app.Post("/follow", s.AuthRequired(rejectStatusOnly), s.FollowUser)
	app.Post("/delete", s.AuthRequired(rejectStatusOnly), s.DeleteAccount)
	app.Get("/view_recipe/:recipe_id", s.AuthRequired(rejectStatusData), s.ViewRecipe)
	app.Get("/search", s.AuthRequired(rejectStatusData), s.Search)

	// Test-support route: drops all rows and recreates the schema.
	app.Get("/clear", s.ClearDatabase)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// rejectStatusOnly writes the failure body used by the mutation endpoints.
func rejectStatusOnly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": statusError})
}

// rejectStatusData writes the failure body used by the read endpoints.
func rejectStatusData(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": statusError, "data": nullValue})
}

// AuthRequired returns middleware that verifies the bearer token from the
// Authorization header and stores the authenticated username in locals. The
// reject handler controls the failure body shape, which differs between the
// mutation and read endpoints.
func (s *Server) AuthRequired(reject fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		// The raw token is accepted with or without the Bearer scheme.
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			observability.AuthFailures.WithLabelValues("missing_token").Inc()
			return reject(c)
		}

		username, ok := s.codec.Verify(token)
		if !ok {
			observability.AuthFailures.WithLabelValues("invalid_token").Inc()
			return reject(c)
		}

		c.Locals("username", username)
		ctx := context.WithValue(c.UserContext(), middleware.UsernameKey, username)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Shutdown releases the server's external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.ErrorContext(ctx, "redis close failed", "error", err)
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ClearDatabase handles GET /clear. It drops every table and recreates the
// schema. Reset failures still report success so test harnesses can reset
// state unconditionally.
func (s *Server) ClearDatabase(c *fiber.Ctx) error {
	// Destructive; in production the endpoint stays dark unless the
	// reset_endpoint flag is switched on.
	if s.config.Env == "production" && !s.featureFlags.Enabled("reset_endpoint", "") {
		return c.JSON(fiber.Map{"status": statusError})
	}
	if err := database.Reset(s.db); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "database reset failed", "error", err)
	}
	return c.JSON(fiber.Map{"status": statusOK})
}
