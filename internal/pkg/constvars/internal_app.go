package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_PRINCIPAL_KEY            ContextKey = "principal"
)

const (
	REQUEST_ID_PREFIX = "BWL_SVC_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	CookieAccess  = "access"
	CookieRefresh = "refresh"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	RedisBlacklistKeyFormat = "auth:blacklist:%s"
	RecordingLockKeyFormat  = "analysis:recording:%d"
	ReaperLeaderLockKey     = "analysis:reaper:leader"
	UserGroupNameFormat     = "user-%d"
)

const (
	RecordingObjectPrefix   = "recordings"
	RecordingFileExtension  = ".wav"
	RecordingFormFieldFile  = "file"
	RecordingFormFieldName  = "name"
	RecordingFormFieldExam  = "examination"
	InferenceFormFieldFile  = "file"
	InferenceEndpointSuffix = "/inference"
)
