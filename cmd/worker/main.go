package main

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/drivers/database"
	"bowell-service/internal/app/drivers/logger"
	"bowell-service/internal/app/drivers/messaging"
	"bowell-service/internal/app/drivers/storage"
	"bowell-service/internal/app/services/core/analysis"
	"bowell-service/internal/app/services/core/examinations"
	"bowell-service/internal/app/services/core/recordings"
	"bowell-service/internal/app/services/shared/analysisqueue"
	"bowell-service/internal/app/services/shared/locker"
	"bowell-service/internal/app/services/shared/notifier"
	"bowell-service/internal/app/services/shared/redis"
	objectstorage "bowell-service/internal/app/services/shared/storage"
	"bowell-service/internal/pkg/metrics"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// metricsAddr exposes the worker's own registry; the API serves its own.
const metricsAddr = ":9100"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Postgres:       database.NewPostgresDB(driverConfig),
		MongoDB:        database.NewMongoDB(driverConfig),
		Redis:          database.NewRedisClient(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsServer, err := startWorker(ctx, bootstrap)
	if err != nil {
		log.Fatal("Failed to start analysis worker", zap.Error(err))
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("Stopping analysis worker, waiting for jobs in flight..")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer shutdownCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("Metrics server forced to shutdown", zap.Error(err))
		}
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Worker exiting")
}

func startWorker(ctx context.Context, bootstrap *config.Bootstrap) (*http.Server, error) {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)
	redisNotifier := notifier.NewRedisNotifier(redisRepository, collector, log)
	fileStorage := objectstorage.NewMinioStorage(bootstrap.Minio, log)
	urlSigner := objectstorage.NewObjectURLSigner(
		fileStorage,
		cfg.Minio.BucketName,
		time.Duration(cfg.Minio.MinioPreSignedUrlObjectExpiryTimeInHours)*time.Hour,
		log,
	)
	analysisQueue, err := analysisqueue.NewService(bootstrap.RabbitMQ, log, analysisqueue.Config{
		QueueName:           cfg.Analysis.QueueName,
		DeadLetterQueueName: cfg.Analysis.DeadLetterQueueName,
		Prefetch:            cfg.Analysis.Prefetch,
	})
	if err != nil {
		return nil, err
	}

	examinationRepository := examinations.NewExaminationPostgresRepository(bootstrap.Postgres, log)
	recordingRepository := recordings.NewRecordingPostgresRepository(bootstrap.Postgres, log)
	runRepository := analysis.NewAnalysisRunMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DBName, cfg.Analysis.RunsCollection, log)

	var inferenceClient contracts.InferenceClient
	if cfg.Inference.UseMockModel {
		log.Warn("Inference requests are answered by the mock model")
		inferenceClient = analysis.NewMockInferenceClient(log)
	} else {
		inferenceClient = analysis.NewInferenceClient(cfg, collector, log)
	}

	processor := analysis.NewAnalysisProcessor(
		examinationRepository,
		recordingRepository,
		runRepository,
		fileStorage,
		urlSigner,
		inferenceClient,
		redisNotifier,
		lockService,
		collector,
		analysis.NewProcessorConfig(cfg),
		log,
	)

	worker := analysis.NewWorker(log, cfg, analysisQueue, processor)
	bootstrap.WorkerStop = worker.Start(ctx)

	reaper := analysis.NewReaper(log, cfg, lockService, processor)
	reaper.Start(ctx)
	bootstrap.ReaperStop = reaper.Stop

	if collector == nil {
		return nil, nil
	}
	metricsServer := &http.Server{
		Addr:              metricsAddr,
		Handler:           collector.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Worker metrics server failed", zap.Error(err))
		}
	}()
	return metricsServer, nil
}
