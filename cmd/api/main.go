package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/adapter/handler"
	"github.com/johnquangdev/sales-coach/internal/adapter/repository"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/database"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/events"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/external/fireflies"
	httpmw "github.com/johnquangdev/sales-coach/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/storage"
	"github.com/johnquangdev/sales-coach/internal/usecase/analysis"
	"github.com/johnquangdev/sales-coach/internal/usecase/callplan"
	"github.com/johnquangdev/sales-coach/internal/usecase/coaching"
	"github.com/johnquangdev/sales-coach/internal/usecase/ingest"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
	"github.com/johnquangdev/sales-coach/internal/usecase/scheduler"
	pkgai "github.com/johnquangdev/sales-coach/pkg/ai"
	"github.com/johnquangdev/sales-coach/pkg/config"
	"github.com/johnquangdev/sales-coach/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/sales-coach/pkg/validator"
)

// @title           Sales Coach API
// @version         1.0
// @description     Scores sales calls against a methodology, plans calls and drafts manager coaching

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Server.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🔧 Initializing dependencies...")

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Run `coachctl migrate up` instead.")
		}
		n, err := database.Migrate(db, database.MigrationsDir, migrate.Up)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("✅ Applied %d migrations", n)
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	coachingRepo := repository.NewCoachingRepository(db)

	// Webhook claim store
	var claims ingest.ClaimStore
	if addr := cfg.GetRedisAddr(); addr != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(ctx, addr, cfg.Redis.Password, cfg.Redis.DB, "salescoach")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		claims = redisStore
	} else {
		log.Println("⚠️  REDIS_HOST not set, webhook claims are process-local")
		memStore := cache.NewMemoryStore()
		defer memStore.Close()
		claims = memStore
	}

	// Optional side effects
	orchestratorOpts := analysis.Options{Timeout: cfg.LLM.Timeout, Logger: logger}
	var transcriptLinks handler.TranscriptLinker
	healthChecks := map[string]handler.HealthCheck{"database": pingDB(db)}

	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to MinIO...")
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		archive := storage.NewAnalysisArchive(minioClient)
		orchestratorOpts.Archiver = archive
		transcriptLinks = archive
		healthChecks["storage"] = minioClient.Ping
	}

	var eventPublisher *events.Publisher
	if cfg.NATS.URL != "" {
		log.Println("📡 Connecting to NATS...")
		eventPublisher, err = events.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer eventPublisher.Close()
		orchestratorOpts.Publisher = eventPublisher
	}

	// Model and use cases
	log.Printf("🤖 Initializing %s generator...", cfg.LLM.Provider)
	generator, err := pkgai.NewGenerator(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	registry, err := methodology.NewRegistry("")
	if err != nil {
		log.Fatalf("Failed to load methodology catalog: %v", err)
	}
	builder := prompt.NewBuilder(registry)

	orchestrator := analysis.NewOrchestrator(builder, generator, analysisRepo, orchestratorOpts)

	ingestService := ingest.NewService(
		accountRepo,
		analysisRepo,
		fireflies.NewClient(cfg.Fireflies.BaseURL, cfg.Fireflies.Timeout),
		orchestrator,
		ingest.Options{
			LookbackDays:       cfg.Fireflies.LookbackDays,
			FetchLimit:         cfg.Fireflies.FetchLimit,
			DefaultAccountID:   cfg.WebhookDefaultAccount(),
			DefaultMethodology: cfg.Webhook.DefaultMethodology,
			Claims:             claims,
			ClaimTTL:           cfg.Webhook.ClaimTTL,
			Logger:             logger,
		},
	)

	var coachingPublisher coaching.Publisher
	if eventPublisher != nil {
		coachingPublisher = eventPublisher
	}
	coachingService := coaching.NewService(accountRepo, activityRepo, coachingRepo, generator, coachingPublisher, cfg.LLM.Timeout, logger)
	callPlanService := callplan.NewService(builder, generator, cfg.LLM.Timeout, logger)

	// Background sync
	syncScheduler := scheduler.NewScheduler(accountRepo, ingestService, cfg.Sync.Interval, cfg.Sync.Concurrency, cfg.Sync.RunTimeout, logger)
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		syncScheduler.Run(ctx)
	}()

	// HTTP
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)
	authMW := httpmw.EchoAuth(jwtManager, accountRepo, logger)

	router := handler.NewRouter(cfg, authMW, handler.Handlers{
		Fireflies: handler.NewFireflies(ingestService, logger),
		Webhook:   handler.NewWebhook(ingestService, cfg.Fireflies.WebhookSecret, logger),
		CallPlan:  handler.NewCallPlan(callPlanService, logger),
		Coaching:  handler.NewCoaching(coachingService, logger),
		Analysis:  handler.NewAnalysis(analysisRepo, transcriptLinks, logger),
	}, healthChecks)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	<-schedulerDone

	log.Println("✅ Server stopped gracefully")
}

func newLogger(environment string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}

func pingDB(db *gorm.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
