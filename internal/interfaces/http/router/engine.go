package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/auth"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/handler"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig is everything NewEngine needs to assemble the HTTP server
type EngineConfig struct {
	Logger        *zap.Logger
	HTTP          config.HTTPConfig
	Tracing       middleware.TracingConfig
	MeterProvider *telemetry.MeterProvider
	// ProfilingLabels adds method and route labels to profiles
	ProfilingLabels bool
	JWTService      *auth.JWTService
	// RateLimiter is nil when rate limiting is disabled
	RateLimiter *middleware.RateLimiter
	// Idempotency.Store is nil when the Idempotency-Key header is ignored
	Idempotency    middleware.IdempotencyConfig
	RequestTimeout time.Duration
	SwaggerEnabled bool
	// DocumentsDir is served at /documents when purchase order PDFs are
	// stored on the local filesystem
	DocumentsDir string
	System       *handler.SystemHandler
	Handlers     Handlers
}

// NewEngine builds the gin engine with the middleware chain, the public
// endpoints and the authenticated /api/v1 routes.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Request id first so recovery and access logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	engine.Use(middleware.Timeout(cfg.RequestTimeout))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: cfg.MeterProvider,
		Enabled:       cfg.MeterProvider != nil,
		Logger:        log,
	}))
	if cfg.ProfilingLabels {
		engine.Use(middleware.ProfilingLabels("/health", "/api/v1/health"))
	}

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
	}
	if cfg.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.DocumentsDir != "" {
		engine.Static("/documents", cfg.DocumentsDir)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.Logger = log
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
	)
	// Rate limiting runs after JWT so authenticated clients are keyed by user
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	var idempotent gin.HandlerFunc
	if cfg.Idempotency.Store != nil {
		if cfg.Idempotency.Logger == nil {
			cfg.Idempotency.Logger = log
		}
		idempotent = middleware.Idempotency(cfg.Idempotency)
	}

	registrars := DomainGroups(cfg.Handlers, idempotent)
	if cfg.System != nil {
		system := NewDomainGroup("system", "")
		system.GET("/health", cfg.System.Health)
		system.GET("/system/info", cfg.System.GetSystemInfo)
		registrars = append(registrars, system)
	}
	r.Register(registrars...)
	r.Setup()

	return engine
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
