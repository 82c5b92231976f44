package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingMethodKey            = "method"
	LoggingEndpointKey          = "endpoint"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingQueryKey             = "query"
	LoggingStatusCodeKey        = "status_code"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingErrorTypeKey         = "error_type"
	LoggingUserIDKey            = "user_id"
	LoggingUserTypeKey          = "user_type"
	LoggingEmailKey             = "email"
	LoggingExaminationIDKey     = "examination_id"
	LoggingRecordingIDKey       = "recording_id"
	LoggingAnalysisIDKey        = "analysis_id"
	LoggingStatusKey            = "status"
	LoggingFromStatusKey        = "from_status"
	LoggingToStatusKey          = "to_status"
	LoggingFailedCountKey       = "failed_count"
	LoggingQueueNameKey         = "queue_name"
	LoggingCountKey             = "count"
	LoggingRedisKey             = "redis_key"
	LoggingRedisChannelKey      = "redis_channel"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingLockValueKey         = "lock_value"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectNameKey        = "object_name"
	LoggingEventTypeKey         = "event_type"
	LoggingCommandKey           = "command"
	LoggingURLKey               = "url"
)
