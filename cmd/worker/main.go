package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Joftal/musiccut/internal/infra/config"
	"github.com/Joftal/musiccut/internal/infra/email"
	"github.com/Joftal/musiccut/internal/infra/ffmpeg"
	"github.com/Joftal/musiccut/internal/infra/metrics"
	miniostorage "github.com/Joftal/musiccut/internal/infra/minio"
	"github.com/Joftal/musiccut/internal/infra/postgres"
	"github.com/Joftal/musiccut/internal/infra/rabbitmq"
	"github.com/Joftal/musiccut/internal/infra/tracing"
	"github.com/Joftal/musiccut/internal/infra/video"
	"github.com/Joftal/musiccut/internal/usecase"
	"github.com/Joftal/musiccut/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting musiccut person-detection worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// Object storage
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:     cfg.MinIOEndpoint,
		AccessKey:    cfg.MinIOAccessKey,
		SecretKey:    cfg.MinIOSecretKey,
		UseSSL:       cfg.MinIOUseSSL,
		UploadBucket: cfg.MinIOUploadBucket,
		ReportBucket: cfg.MinIOReportBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Detection stack
	device, err := video.ParseDevice(cfg.Device)
	fatalOnErr(err, "parse device")

	classifier, err := video.NewYOLOClassifier(cfg.ModelPath, device, log)
	fatalOnErr(err, "load detection model")
	defer classifier.Close()

	scanner := video.NewScanner(classifier, cfg.FallbackFPS, log)
	prober := ffmpeg.NewProber(log)

	// Infra adapters
	repo := postgres.NewJobRepository(pool)
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	// Use case
	uc := usecase.NewDetectPersonsUseCase(
		repo, storage, prober, scanner,
		statusPub, dlqPub, notifier,
		log,
		usecase.DetectPersonsConfig{
			TempDir:    cfg.TempDir,
			MaxRetries: cfg.MaxRetries,
			Defaults: usecase.DetectionParams{
				ConfidenceThreshold: cfg.ConfidenceThreshold,
				FrameInterval:       cfg.FrameInterval,
				MaxGapDuration:      cfg.MaxGapDuration,
				MinSegmentDuration:  cfg.MinSegmentDuration,
			},
		},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:          cfg.RabbitMQURL,
		RequestQueue: cfg.RabbitMQRequestQueue,
		StatusQueue:  cfg.RabbitMQStatusQueue,
		DLQ:          cfg.RabbitMQDLQ,
		Exchange:     cfg.RabbitMQExchange,
		Prefetch:     cfg.RabbitMQPrefetch,
		WorkerCount:  cfg.WorkerCount,
		BaseDelayMs:  cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("musiccut person-detection worker started, consuming requests")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("musiccut person-detection worker stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
