package config

import "time"

type InternalConfig struct {
	App       App
	JWT       AppJWT
	Cookie    AppCookie
	RBAC      AppRBAC
	Minio     AppMinio
	Analysis  AppAnalysis
	Inference AppInference
	Websocket AppWebsocket
	Metrics   AppMetrics
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	AllowedOrigins             []string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	RequestTimeoutInSeconds    int
	RequestBodyLimitInMegabyte int
	ServiceAPIKey              string
}

func (a App) IsProduction() bool {
	return a.Env == "production"
}

type AppJWT struct {
	Secret                      string
	AccessTokenLifetimeMinutes  int
	RefreshTokenLifetimeMinutes int
}

func (j AppJWT) AccessTokenLifetime() time.Duration {
	return time.Duration(j.AccessTokenLifetimeMinutes) * time.Minute
}

func (j AppJWT) RefreshTokenLifetime() time.Duration {
	return time.Duration(j.RefreshTokenLifetimeMinutes) * time.Minute
}

type AppCookie struct {
	Domain string
	Debug  bool
}

type AppRBAC struct {
	ModelPath  string
	PolicyPath string
}

type AppMinio struct {
	BucketName                               string
	RecordingMaxUploadSizeInMB               int
	MinioPreSignedUrlObjectExpiryTimeInHours int
}

// AppAnalysis configures dispatch, the worker loop and the stale run reaper.
type AppAnalysis struct {
	QueueName                 string
	DeadLetterQueueName       string
	Prefetch                  int
	MaxQueue                  int
	PollIntervalInSeconds     int
	MaxRetries                int
	RecordingLockTTLInSeconds int
	StaleAfterInMinutes       int
	ReaperCronSpec            string
	RunsCollection            string
}

type AppInference struct {
	URL                     string
	UseMockModel            bool
	HTTPTimeoutInSeconds    int
	BreakerMaxFailures      int
	BreakerOpenTimeoutInSec int
}

type AppWebsocket struct {
	ReadLimitInBytes        int64
	PingIntervalInSeconds   int
	WriteTimeoutInSeconds   int
	InboundMessagesPerSec   float64
	InboundMessagesBurst    int
	CheckOriginAllowAllHost bool
}

type AppMetrics struct {
	Enabled   bool
	Namespace string
}
