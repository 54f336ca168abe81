package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	recordapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/medicalrecord"
	patientapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	pharmacyapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	reportapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/report"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/billing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/auth"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/cache"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/printing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/storage"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/handler"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/middleware"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/mdusmanhanifkhan/hikarimed-backend-v2/docs"
)

// serviceVersion is reported by /api/v1/system/info and on telemetry resources
const serviceVersion = "2.0.0"

//	@title			HikariMed Backend API
//	@version		2.0
//	@description	Hospital patient registration, visit billing and pharmacy stock API

//	@contact.name	API Support
//	@contact.url	https://github.com/mdusmanhanifkhan/hikarimed-backend-v2

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = baseLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry providers. Each one is a no-op when disabled.
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		ServiceVersion:    serviceVersion,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		ServiceVersion:    serviceVersion,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, loggerProvider, serviceName)

	prof := cfg.Telemetry.Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           prof.Enabled,
		ServerAddress:     prof.ServerAddress,
		ApplicationName:   prof.ApplicationName,
		BasicAuthUser:     prof.BasicAuthUser,
		BasicAuthPassword: prof.BasicAuthPassword,
		ProfileTypes:      prof.ProfileTypes,
		MutexProfileRate:  prof.MutexProfileRate,
		BlockProfileRate:  prof.BlockProfileRate,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && prof.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting HikariMed backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid time zone", zap.Error(err))
	}
	clock := shared.NewSystemClock(loc)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		tracingCfg.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		tracingCfg.DBName = cfg.Database.DBName
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			tracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if err := telemetry.NewDBTracingPlugin(tracingCfg, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	dbMetricsCfg.Enabled = cfg.Telemetry.Enabled
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log)
	if err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
	} else if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
	}

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("hikarimed.business"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Business metrics disabled", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(ctx, 0)
		}
	}

	// Repositories
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	welfareRepo := persistence.NewGormWelfareRepository(db.DB)
	cardPrintRepo := persistence.NewGormCardPrintRepository(db.DB)
	recordRepo := persistence.NewGormMedicalRecordRepository(db.DB)
	pharmacyRepos := pharmacyapp.Repositories{
		StockLedger:   persistence.NewGormStockLedgerRepository(db.DB, clock),
		GRN:           persistence.NewGormGRNRepository(db.DB),
		Sale:          persistence.NewGormSaleRepository(db.DB),
		PurchaseOrder: persistence.NewGormPurchaseOrderRepository(db.DB),
		Indent:        persistence.NewGormIndentRepository(db.DB),
		LedgerEntry:   persistence.NewGormLedgerEntryRepository(db.DB),
	}
	pharmacyTx := persistence.NewGormTransactionScope(db.DB, clock)

	// Purchase order documents
	var documents pharmacyapp.DocumentGenerator
	var documentsDir string
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		defer func() { _ = renderer.Close() }()

		var store printing.DocumentStore
		switch cfg.Printing.StorageBackend {
		case "s3":
			s3Store, err := storage.NewS3DocumentStore(ctx, cfg.Storage, storage.WithLogger(log))
			if err != nil {
				log.Fatal("Failed to initialize S3 document store", zap.Error(err))
			}
			if err := s3Store.EnsureBucket(ctx); err != nil {
				log.Warn("Could not verify document bucket", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
			}
			store = s3Store
		default:
			fsStore, err := storage.NewFileSystemStore(cfg.Printing.OutputDir, cfg.Printing.BaseURL, log)
			if err != nil {
				log.Fatal("Failed to initialize document directory", zap.Error(err))
			}
			store = fsStore
			documentsDir = fsStore.Root()
		}
		documents = printing.NewPurchaseOrderDocuments(renderer, store, cfg.App.Name, cfg.Printing.Timeout, clock, log)
	}

	// Application services
	patientService := patientapp.NewPatientService(patientRepo, persistence.NewGormPatientTransactionScope(db.DB), clock, log)
	patientService.SetRetryPolicy(cfg.Patient.IDRetryAttempts, cfg.Patient.IDRetryBackoff)
	welfareService := patientapp.NewWelfareService(welfareRepo, persistence.NewGormPatientTransactionScope(db.DB), clock, log)
	cardPrintService := patientapp.NewCardPrintService(patientRepo, cardPrintRepo, persistence.NewGormPatientTransactionScope(db.DB), clock, log)
	cardPrintService.SetDefaultPrice(decimal.NewFromInt(cfg.Patient.CardDefaultPrice))
	reportService := reportapp.NewReportService(persistence.NewGormFinancialReportRepository(db.DB), clock, log)

	feePolicy, err := billing.ParseNegativeFeePolicy(cfg.Billing.NegativeFeePolicy)
	if err != nil {
		log.Fatal("Invalid billing configuration", zap.Error(err))
	}
	recordService := recordapp.NewMedicalRecordService(recordRepo, patientRepo,
		persistence.NewGormMedicalRecordTransactionScope(db.DB, clock), clock, feePolicy, log)

	engineLedger := pharmacyapp.NewLedgerEngine(clock)
	indentService := pharmacyapp.NewIndentService(pharmacyRepos, pharmacyTx, clock, log)
	purchaseOrderService := pharmacyapp.NewPurchaseOrderService(pharmacyRepos, pharmacyTx, clock, documents, log)
	grnService := pharmacyapp.NewGRNService(pharmacyRepos, pharmacyTx, engineLedger, clock, log)
	saleService := pharmacyapp.NewSaleService(pharmacyRepos, pharmacyTx, engineLedger, clock, log)
	stockService := pharmacyapp.NewStockService(pharmacyRepos, pharmacyTx, engineLedger, log)
	ledgerEntryService := pharmacyapp.NewLedgerEntryService(pharmacyRepos, pharmacyTx, clock, log)

	if businessMetrics != nil {
		patientService.SetBusinessMetrics(businessMetrics)
		recordService.SetBusinessMetrics(businessMetrics)
		purchaseOrderService.SetBusinessMetrics(businessMetrics)
		grnService.SetBusinessMetrics(businessMetrics)
		saleService.SetBusinessMetrics(businessMetrics)
		stockService.SetBusinessMetrics(businessMetrics)
	}

	// Idempotency store for the create endpoints
	healthChecks := []handler.HealthCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return db.DB.WithContext(ctx).Exec("SELECT 1").Error },
	}}
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		)
		idempotencyStore, err = factory.Create(ctx, cfg.Idempotency.Backend)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() { _ = idempotencyStore.Close() }()
		if pinger, ok := idempotencyStore.(interface{ Ping(context.Context) error }); ok {
			healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Check: pinger.Ping})
		}
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     tracerProvider.IsEnabled(),
			SkipPaths:   []string{"/health", "/api/v1/health"},
		},
		MeterProvider:   meterProvider,
		ProfilingLabels: profiler.IsEnabled(),
		JWTService:      auth.NewJWTService(cfg.JWT),
		RateLimiter:     rateLimiter,
		Idempotency: middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		},
		RequestTimeout: cfg.HTTP.WriteTimeout,
		SwaggerEnabled: cfg.Swagger.Enabled,
		DocumentsDir:   documentsDir,
		System:         handler.NewSystemHandler(cfg.App.Name, serviceVersion, log, healthChecks...),
		Handlers: router.Handlers{
			Patient:       handler.NewPatientHandler(patientService, log),
			Welfare:       handler.NewWelfareHandler(welfareService, log),
			CardPrint:     handler.NewCardPrintHandler(cardPrintService, log),
			MedicalRecord: handler.NewMedicalRecordHandler(recordService, log),
			Indent:        handler.NewIndentHandler(indentService, log),
			PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService, log),
			GRN:           handler.NewGRNHandler(grnService, log),
			Sale:          handler.NewSaleHandler(saleService, log),
			Stock:         handler.NewStockHandler(stockService, log),
			LedgerEntry:   handler.NewLedgerEntryHandler(ledgerEntryService, log),
			Report:        handler.NewReportHandler(reportService, log),
		},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if businessMetrics != nil {
		businessMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
