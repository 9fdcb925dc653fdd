package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/QualitasTechnologies/bom-tracker/internal/app"
	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	"github.com/QualitasTechnologies/bom-tracker/internal/documents"
	jobmetrics "github.com/QualitasTechnologies/bom-tracker/internal/jobs"
	"github.com/QualitasTechnologies/bom-tracker/internal/platform/db"
	"github.com/QualitasTechnologies/bom-tracker/internal/po"
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

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error("connect minio", slog.Any("error", err))
		os.Exit(1)
	}
	objectStore := documents.NewObjectStore(minioClient, cfg.MinioBucket)

	metrics := jobmetrics.NewMetrics(nil)
	mailer := jobs.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	reportClient := report.NewClient(cfg.GotenbergURL)
	renderer, err := report.NewRenderer(reportClient)
	if err != nil {
		logger.Error("init po renderer", slog.Any("error", err))
		os.Exit(1)
	}

	poRepo := po.NewRepository(pool)
	bomRepo := bom.NewRepository(pool)

	dispatcher := jobs.NewPODispatcher(logger, poRepo, renderer, objectStore, mailer, metrics)
	scanner := jobs.NewArrivalScanner(logger, bomRepo, mailer, cfg.ProcurementEmail, metrics)
	emailSender := jobs.NewEmailSender(logger, mailer, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypePODispatch, Handler: dispatcher.Handle},
			{Type: jobs.TaskTypeArrivalScan, Handler: scanner.Handle},
			{Type: jobs.TaskTypeSendEmail, Handler: emailSender.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: jobs.NewArrivalScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	r := chi.NewRouter()
	jobs.NewHandler(inspector, logger).MountRoutes(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	probe := &http.Server{Addr: ":8081", Handler: r, ReadTimeout: 5 * time.Second}
	go func() {
		if err := probe.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("probe server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = probe.Shutdown(shutdownCtx)
	}()

	logger.Info("worker starting", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
