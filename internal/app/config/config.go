package config

import (
	"bowell-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Postgres: Postgres{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "bowell"),
			SSLMode:  utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DBName:   utils.GetEnvString("MONGODB_DB_NAME", "bowell"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8000"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Europe/Warsaw"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 100),
			ServiceAPIKey:              utils.GetEnvString("APP_SERVICE_API_KEY", ""),
		},
		JWT: AppJWT{
			Secret:                      utils.GetEnvString("JWT_SECRET", "anyjwt"),
			AccessTokenLifetimeMinutes:  utils.GetEnvInt("JWT_ACCESS_TOKEN_LIFETIME_IN_MINUTES", 5),
			RefreshTokenLifetimeMinutes: utils.GetEnvInt("JWT_REFRESH_TOKEN_LIFETIME_IN_MINUTES", 60*24),
		},
		Cookie: AppCookie{
			Domain: utils.GetEnvString("COOKIE_DOMAIN", ""),
			Debug:  utils.GetEnvBool("COOKIE_DEBUG", true),
		},
		RBAC: AppRBAC{
			ModelPath:  utils.GetEnvString("RBAC_MODEL_PATH", "resources/rbac_model.conf"),
			PolicyPath: utils.GetEnvString("RBAC_POLICY_PATH", "resources/rbac_policy.csv"),
		},
		Minio: AppMinio{
			BucketName:                               utils.GetEnvString("MINIO_BUCKET_NAME", "recordings"),
			RecordingMaxUploadSizeInMB:               utils.GetEnvInt("MINIO_RECORDING_MAX_UPLOAD_SIZE_IN_MB", 100),
			MinioPreSignedUrlObjectExpiryTimeInHours: utils.GetEnvInt("MINIO_PRESIGNED_URL_EXPIRY_TIME_IN_HOURS", 1),
		},
		Analysis: AppAnalysis{
			QueueName:                 utils.GetEnvString("ANALYSIS_QUEUE_NAME", "recording_analysis_queue"),
			DeadLetterQueueName:       utils.GetEnvString("ANALYSIS_DEAD_LETTER_QUEUE_NAME", "recording_analysis_dlq"),
			Prefetch:                  utils.GetEnvInt("ANALYSIS_PREFETCH", 4),
			MaxQueue:                  utils.GetEnvInt("ANALYSIS_MAX_QUEUE", 4),
			PollIntervalInSeconds:     utils.GetEnvInt("ANALYSIS_POLL_INTERVAL_IN_SECONDS", 2),
			MaxRetries:                utils.GetEnvInt("ANALYSIS_MAX_RETRIES", 3),
			RecordingLockTTLInSeconds: utils.GetEnvInt("ANALYSIS_RECORDING_LOCK_TTL_IN_SECONDS", 300),
			StaleAfterInMinutes:       utils.GetEnvInt("ANALYSIS_STALE_AFTER_IN_MINUTES", 30),
			ReaperCronSpec:            utils.GetEnvString("ANALYSIS_REAPER_CRON_SPEC", "@every 1m"),
			RunsCollection:            utils.GetEnvString("ANALYSIS_RUNS_COLLECTION", "analysis_runs"),
		},
		Inference: AppInference{
			URL:                     utils.GetEnvString("INFERENCE_URL", "http://localhost:5000"),
			UseMockModel:            utils.GetEnvBool("ANALYSIS_USE_MOCK_MODEL", true),
			HTTPTimeoutInSeconds:    utils.GetEnvInt("INFERENCE_HTTP_TIMEOUT_IN_SECONDS", 120),
			BreakerMaxFailures:      utils.GetEnvInt("INFERENCE_BREAKER_MAX_FAILURES", 5),
			BreakerOpenTimeoutInSec: utils.GetEnvInt("INFERENCE_BREAKER_OPEN_TIMEOUT_IN_SECONDS", 30),
		},
		Websocket: AppWebsocket{
			ReadLimitInBytes:        int64(utils.GetEnvInt("WEBSOCKET_READ_LIMIT_IN_BYTES", 4096)),
			PingIntervalInSeconds:   utils.GetEnvInt("WEBSOCKET_PING_INTERVAL_IN_SECONDS", 30),
			WriteTimeoutInSeconds:   utils.GetEnvInt("WEBSOCKET_WRITE_TIMEOUT_IN_SECONDS", 10),
			InboundMessagesPerSec:   utils.GetEnvFloat("WEBSOCKET_INBOUND_MESSAGES_PER_SECOND", 5),
			InboundMessagesBurst:    utils.GetEnvInt("WEBSOCKET_INBOUND_MESSAGES_BURST", 10),
			CheckOriginAllowAllHost: utils.GetEnvBool("WEBSOCKET_ALLOW_ALL_ORIGINS", false),
		},
		Metrics: AppMetrics{
			Enabled:   utils.GetEnvBool("METRICS_ENABLED", true),
			Namespace: utils.GetEnvString("METRICS_NAMESPACE", "bowell"),
		},
	}
}
