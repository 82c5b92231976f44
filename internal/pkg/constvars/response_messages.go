package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"

	// Auth messages
	LoginSuccessMessage        = "successfully login"
	RefreshTokenSuccessMessage = "token refreshed successfully"
	VerifyTokenSuccessMessage  = "token is valid"
	LogoutSuccessMessage       = "Logout successful!"

	// User messages
	CreateUserSuccessMessage = "user created successfully"
	GetUsersSuccessMessage   = "get users successfully"
	GetUserSuccessMessage    = "get user successfully"
	UpdateUserSuccessMessage = "user updated successfully"
	DeleteUserSuccessMessage = "user deleted successfully"

	// Examination messages
	CreateExaminationSuccessMessage     = "examination created successfully"
	GetExaminationsSuccessMessage       = "get examinations successfully"
	GetExaminationSuccessMessage        = "get examination successfully"
	UpdateExaminationSuccessMessage     = "examination updated successfully"
	GetStatisticsSuccessMessage         = "get statistics successfully"
	DispatchAnalysisSuccessMessage      = "analysis scheduled successfully"
	GetAnalysisStatusSuccessMessage     = "get analysis status successfully"
	GetAnalysisRunsSuccessMessage       = "get analysis runs successfully"
	CreateRecordingSuccessMessage       = "recording uploaded successfully"
	GetRecordingsSuccessMessage         = "get recordings successfully"
	GetRecordingSuccessMessage          = "get recording successfully"
	UpdateRecordingSuccessMessage       = "recording updated successfully"
	DetachRecordingSuccessMessage       = "Recording was successfully detached from examination."
	HealthCheckSuccessMessage           = "ok"
	WebsocketGreetingMessage            = "Connection with real-time analysis service established!"
	AnalysisStartedMessageFormat        = "Started processing of recording with id: %d"
	AnalysisResponseReceivedMessage     = "Received response from model"
	AnalysisRetryScheduledMessageFormat = "Analysis of recording %d will be retried (attempt %d)"
	AnalysisCompletedMessageFormat      = "Analysis of recording %d completed!"
	AnalysisFailedMessageFormat         = "Analysis of recording %d failed!"
)
