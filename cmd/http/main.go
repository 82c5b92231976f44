package main

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"
	"bowell-service/internal/app/delivery/http/routers"
	"bowell-service/internal/app/delivery/websocket"
	"bowell-service/internal/app/drivers/database"
	"bowell-service/internal/app/drivers/logger"
	"bowell-service/internal/app/drivers/messaging"
	"bowell-service/internal/app/drivers/storage"
	"bowell-service/internal/app/services/core/analysis"
	"bowell-service/internal/app/services/core/auth"
	"bowell-service/internal/app/services/core/examinations"
	"bowell-service/internal/app/services/core/recordings"
	"bowell-service/internal/app/services/core/users"
	"bowell-service/internal/app/services/shared/analysisqueue"
	"bowell-service/internal/app/services/shared/jwtmanager"
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

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

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
		Router:         chi.NewRouter(),
		Postgres:       database.NewPostgresDB(driverConfig),
		MongoDB:        database.NewMongoDB(driverConfig),
		Redis:          database.NewRedisClient(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server is starting", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	if bootstrap.HubStop != nil {
		bootstrap.HubStop()
		bootstrap.HubStop = nil
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	redisNotifier := notifier.NewRedisNotifier(redisRepository, collector, log)
	fileStorage := objectstorage.NewMinioStorage(bootstrap.Minio, log)
	urlSigner := objectstorage.NewObjectURLSigner(
		fileStorage,
		cfg.Minio.BucketName,
		time.Duration(cfg.Minio.MinioPreSignedUrlObjectExpiryTimeInHours)*time.Hour,
		log,
	)
	tokenManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return err
	}
	analysisQueue, err := analysisqueue.NewService(bootstrap.RabbitMQ, log, analysisqueue.Config{
		QueueName:           cfg.Analysis.QueueName,
		DeadLetterQueueName: cfg.Analysis.DeadLetterQueueName,
		Prefetch:            cfg.Analysis.Prefetch,
	})
	if err != nil {
		return err
	}

	// Repositories
	userRepository := users.NewUserPostgresRepository(bootstrap.Postgres, log)
	examinationRepository := examinations.NewExaminationPostgresRepository(bootstrap.Postgres, log)
	recordingRepository := recordings.NewRecordingPostgresRepository(bootstrap.Postgres, log)
	runRepository := analysis.NewAnalysisRunMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DBName, cfg.Analysis.RunsCollection, log)

	// Usecases
	authUsecase := auth.NewAuthUsecase(userRepository, tokenManager, redisRepository, log)
	userUsecase := users.NewUserUsecase(userRepository, log)
	examinationUsecase := examinations.NewExaminationUsecase(examinationRepository, userRepository, recordingRepository, urlSigner, log)
	recordingUsecase := recordings.NewRecordingUsecase(recordingRepository, examinationRepository, fileStorage, urlSigner, cfg.Minio.BucketName, log)
	analysisUsecase := analysis.NewAnalysisUsecase(examinationRepository, recordingRepository, runRepository, analysisQueue, collector, log)

	// Middlewares
	enforcer, err := casbin.NewEnforcer(cfg.RBAC.ModelPath, cfg.RBAC.PolicyPath)
	if err != nil {
		return err
	}
	mw := middlewares.NewMiddlewares(log, authUsecase, enforcer, collector, cfg)

	// Controllers
	ctrls := &routers.Controllers{
		Auth:        controllers.NewAuthController(log, authUsecase, cfg),
		User:        controllers.NewUserController(log, userUsecase, cfg),
		Examination: controllers.NewExaminationController(log, examinationUsecase, cfg),
		Recording:   controllers.NewRecordingController(log, recordingUsecase, cfg),
		Analysis:    controllers.NewAnalysisController(log, analysisUsecase, cfg),
		Health:      controllers.NewHealthController(log, healthChecks(bootstrap)),
	}

	hub := websocket.NewHub(log, redisNotifier, collector, cfg)
	bootstrap.HubStop = hub.Stop

	routers.SetupRoutes(bootstrap.Router, cfg, mw, ctrls, hub, collector)
	return nil
}

func healthChecks(bootstrap *config.Bootstrap) map[string]controllers.HealthCheck {
	return map[string]controllers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			return bootstrap.Postgres.PingContext(ctx)
		},
		"mongodb": func(ctx context.Context) error {
			return bootstrap.MongoDB.Ping(ctx, nil)
		},
		"redis": func(ctx context.Context) error {
			return bootstrap.Redis.Ping(ctx).Err()
		},
		"rabbitmq": func(ctx context.Context) error {
			if bootstrap.RabbitMQ.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		},
		"minio": func(ctx context.Context) error {
			_, err := bootstrap.Minio.BucketExists(ctx, bootstrap.InternalConfig.Minio.BucketName)
			return err
		},
	}
}
