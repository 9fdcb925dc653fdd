package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/QualitasTechnologies/bom-tracker/internal/aiimport"
	"github.com/QualitasTechnologies/bom-tracker/internal/app"
	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	"github.com/QualitasTechnologies/bom-tracker/internal/crm"
	"github.com/QualitasTechnologies/bom-tracker/internal/documents"
	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/notify"
	"github.com/QualitasTechnologies/bom-tracker/internal/observability"
	"github.com/QualitasTechnologies/bom-tracker/internal/platform/cache"
	"github.com/QualitasTechnologies/bom-tracker/internal/platform/db"
	"github.com/QualitasTechnologies/bom-tracker/internal/po"
	"github.com/QualitasTechnologies/bom-tracker/internal/settings"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
	"github.com/QualitasTechnologies/bom-tracker/internal/vendors"
	"github.com/QualitasTechnologies/bom-tracker/jobs"
	"github.com/QualitasTechnologies/bom-tracker/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error("connect minio", slog.Any("error", err))
		os.Exit(1)
	}
	objectStore := documents.NewObjectStore(minioClient, cfg.MinioBucket)
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Error("ensure bucket", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	hub := notify.NewHub(logger)
	notifier := notify.NewNotifier(logger, redisClient)
	subscriber := notify.NewSubscriber(logger, redisClient, hub)
	go func() {
		if err := subscriber.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("event subscriber stopped", slog.Any("error", err))
		}
	}()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService)

	bomRepo := bom.NewRepository(pool)
	docRepo := documents.NewRepository(pool)
	docService := documents.NewService(docRepo, objectStore, bomRepo, auditLogger)
	docHandler := documents.NewHandler(logger, docService, metrics)

	bomService := bom.NewService(bomRepo, docService, notifier, auditLogger)
	bomHandler := bom.NewHandler(logger, bomService)

	poRepo := po.NewRepository(pool)
	poService := po.NewService(poRepo, settingsService, bomService, auditLogger)
	enqueueDispatch := func(poID string) {
		if _, err := jobsClient.EnqueuePODispatch(context.Background(), poID); err != nil {
			logger.Error("enqueue po dispatch", slog.String("po_id", poID), slog.Any("error", err))
		}
	}
	poHandler := po.NewHandler(logger, poService, enqueueDispatch, metrics)

	var verifier vendors.GSTINVerifier
	if cfg.GSTINConfigured() {
		verifier = vendors.NewRegistryClient(cfg.GSTINAPIURL, cfg.GSTINAPIKey)
	}
	vendorRepo := vendors.NewRepository(pool)
	vendorService := vendors.NewService(vendorRepo, verifier, auditLogger)
	vendorHandler := vendors.NewHandler(logger, vendorService)

	leadRepo := crm.NewRepository(pool)
	leadService := crm.NewService(leadRepo, auditLogger, notifier)
	leadHandler := crm.NewHandler(logger, leadService)

	var agent aiimport.Extractor
	if cfg.AIConfigured() {
		agent = aiimport.NewAgent(cfg.OpenAIAPIKey)
	} else {
		logger.Warn("openai key missing, bom import uses keyword extraction only")
	}
	importService := aiimport.NewService(logger, agent, aiimport.NewKeywordExtractor())
	importHandler := aiimport.NewHandler(logger, importService, metrics)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportRenderer, err := report.NewRenderer(reportClient)
	if err != nil {
		logger.Error("init po renderer", slog.Any("error", err))
		os.Exit(1)
	}
	reportHandler := report.NewHandler(reportClient, reportRenderer, poRepo, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Auth:             identity.NewMiddleware(cfg.JWTSecret),
		SettingsHandler:  settingsHandler,
		BOMHandler:       bomHandler,
		POHandler:        poHandler,
		DocumentsHandler: docHandler,
		VendorsHandler:   vendorHandler,
		CRMHandler:       leadHandler,
		ImportHandler:    importHandler,
		EventsHandler:    notify.NewHandler(logger, hub),
		ReportHandler:    reportHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
