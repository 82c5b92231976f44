package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":           "is required",
	"email":              "must be a valid email",
	"min":                "must be at least %s characters long",
	"max":                "maximum at %s characters long",
	"oneof":              "must be one of [%s]",
	"gte":                "must be greater than or equal to %s",
	"lte":                "must be less than or equal to %s",
	"password":           "must be at least 8 characters long",
	"user_type":          "must be one of [STAFF, DOCTOR, PATIENT]",
	"examination_status": "is not a valid examination status",
	"past_date":          "Birth date must be in the past!",
	"future_date":        "Examination date must be in the future!",
	"wav_file":           "File extension is not allowed. Allowed extensions are: wav.",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

// Tags whose message is returned as is, without the field name
var TagsWithStandaloneMessage = map[string]bool{
	"past_date":   true,
	"future_date": true,
	"wav_file":    true,
}

// Client messages
const (
	ErrClientCannotProcessRequest          = "Request cannot be processed"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientServerLongRespond             = "The server took too long to respond"
	ErrClientNotAuthorized                 = "Authentication credentials were not provided."
	ErrClientInvalidAPIKey                 = "Invalid API key."
	ErrClientPermissionDenied              = "Permission denied!"
	ErrClientNoActiveAccount               = "No active account found with the given credentials"
	ErrClientTokenInvalidOrExpired         = "Token is invalid or expired"
	ErrClientRefreshCookieMissing          = "Could not logout! Cookie 'refresh' not found in request!"
	ErrClientEmailAlreadyExists            = "user with this email address already exists."
	ErrClientNotFound                      = "Not found."
	ErrClientRecordingAlreadyAssigned      = "Another recording has already been assigned to chosen examination."
	ErrClientRecordingNotAssigned          = "Recording was not assigned to any examination."
	ErrClientInvalidStatusTransition       = "Examination status cannot be changed from '%s' to '%s'."
	ErrClientAnalysisAlreadyRunning        = "Analysis of this examination is already in progress."
	ErrClientExaminationHasNoRecording     = "Examination has no recording assigned."
	ErrClientInvalidUserTypeFilter         = "Select a valid choice. %s is not one of the available choices."
	ErrClientInvalidRelatedObject          = "Invalid pk \"%d\" - object does not exist."
	ErrClientTooManyRequests               = "Too many requests, please slow down"
	ErrClientRequestBodyTooLarge           = "Uploaded file is too large"
)

// Developer messages
const (
	ErrDevInvalidInput                   = "invalid input"
	ErrDevValidationFailed               = "input validation failed"
	ErrDevURLParamIDValidationFailed     = "url param %s validation failed"
	ErrDevCannotParseJSON                = "cannot parse JSON body"
	ErrDevCannotParseMultipartForm       = "cannot parse multipart form"
	ErrDevCannotParseQuery               = "cannot parse query params"
	ErrDevCannotMarshalJSON              = "cannot marshal JSON"
	ErrDevServerDeadlineExceeded         = "server deadline exceeded"
	ErrDevFailedToHashPassword           = "failed to hash password"
	ErrDevInvalidCredentials             = "invalid credentials or inactive account"
	ErrDevEmailAlreadyExists             = "email already exists"
	ErrDevAuthTokenMissing               = "auth token missing"
	ErrDevInvalidAPIKey                  = "api key does not match the configured service key"
	ErrDevAuthGenerateToken              = "failed to generate token"
	ErrDevAuthTokenInvalidOrExpired      = "auth token invalid or expired"
	ErrDevAuthTokenBlacklisted           = "token is blacklisted"
	ErrDevAuthSigningMethod              = "unexpected signing method"
	ErrDevAuthWrongTokenType             = "unexpected token type"
	ErrDevRefreshCookieMissing           = "refresh cookie missing"
	ErrDevPermissionDenied               = "principal has no permission for this operation"
	ErrDevResourceNotFound               = "%s not found"
	ErrDevRecordingAlreadyAssigned       = "examination already has a recording or recording is attached elsewhere"
	ErrDevRecordingNotAssigned           = "recording is not attached to any examination"
	ErrDevInvalidStatusTransition        = "invalid examination status transition"
	ErrDevStaleStatusTransition          = "examination changed concurrently, transition not applied"
	ErrDevAnalysisAlreadyRunning         = "examination already in file_processing"
	ErrDevExaminationHasNoRecording      = "examination has no recording"
	ErrDevInvalidUserType                = "invalid user type"
	ErrDevInvalidRelatedObject           = "related object does not exist or has a wrong type"
	ErrDevDBFailedToFindData             = "failed to find data in postgres"
	ErrDevDBFailedToInsertData           = "failed to insert data into postgres"
	ErrDevDBFailedToUpdateData           = "failed to update data in postgres"
	ErrDevDBFailedToDeleteData           = "failed to delete data in postgres"
	ErrDevDBFailedToIterateDataset       = "failed to iterate postgres dataset"
	ErrDevDBFailedToBeginTx              = "failed to begin postgres transaction"
	ErrDevDBFailedToCommitTx             = "failed to commit postgres transaction"
	ErrDevMongoFailedToFindDocument      = "failed to find mongo document"
	ErrDevMongoFailedToInsertDocument    = "failed to insert mongo document"
	ErrDevMongoFailedToUpdateDocument    = "failed to update mongo document"
	ErrDevMongoFailedToIterateDocuments  = "failed to iterate mongo documents"
	ErrDevRedisGetNoData                 = "redis has no data for key %s"
	ErrDevRedisGetData                   = "failed to get data from redis"
	ErrDevRedisSetData                   = "failed to set data in redis"
	ErrDevRedisDeleteData                = "failed to delete data in redis"
	ErrDevRedisExpireData                = "failed to set expiry in redis"
	ErrDevRedisPublish                   = "failed to publish to redis channel %s"
	ErrDevRedisUnlock                    = "failed to release redis lock"
	ErrDevMinioFailedToCreateObject      = "failed to create object in bucket %s"
	ErrDevMinioFailedToGetObject         = "failed to get object from bucket %s"
	ErrDevMinioFailedToPresignObject     = "failed to presign object in bucket %s"
	ErrDevRabbitMQPublishMessage         = "failed to publish message to queue %s"
	ErrDevRabbitMQFetchMessage           = "failed to fetch message from queue %s"
	ErrDevRabbitMQAckMessage             = "failed to ack message"
	ErrDevCreateHTTPRequest              = "failed to create http request"
	ErrDevSendHTTPRequest                = "failed to send http request"
	ErrDevInferenceUnexpectedStatus      = "inference service responded with status %d"
	ErrDevInferenceReportedError         = "inference service reported an error: %s"
	ErrDevInferenceMissingResult         = "inference response is missing result %q"
	ErrDevInferenceMalformedResponse     = "inference response is malformed"
	ErrDevInferenceCircuitOpen           = "inference circuit breaker is open"
	ErrDevRecordingLockNotAcquired       = "recording is locked by another analysis"
	ErrDevWebsocketUpgrade               = "failed to upgrade websocket connection"
	ErrDevRateLimitExceeded              = "rate limit exceeded"
	ErrDevRequestBodyTooLarge            = "request body exceeds the configured limit"
	ErrDevMissingRequestID               = "request id not found in context"
	ErrDevDependencyUnavailable          = "%s is unavailable"
	ErrDevUnknownStatusValue             = "unknown examination status %q"
	ErrDevCannotParseDuration            = "cannot parse duration %q"
	ErrDevNotificationPayloadUnavailable = "cannot build notification payload"
)
