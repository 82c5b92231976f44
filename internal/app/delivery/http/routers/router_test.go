package routers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"
	"bowell-service/internal/app/delivery/websocket"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/metrics"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	router             *chi.Mux
	authUsecase        *mocks.AuthUsecase
	userUsecase        *mocks.UserUsecase
	examinationUsecase *mocks.ExaminationUsecase
	recordingUsecase   *mocks.RecordingUsecase
	analysisUsecase    *mocks.AnalysisUsecase
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "api",
			Version:                    "v1",
			MaxRequests:                100,
			RequestTimeoutInSeconds:    5,
			RequestBodyLimitInMegabyte: 1,
			ServiceAPIKey:              "service-secret",
		},
		JWT:     config.AppJWT{AccessTokenLifetimeMinutes: 5, RefreshTokenLifetimeMinutes: 60},
		Minio:   config.AppMinio{RecordingMaxUploadSizeInMB: 1},
		Metrics: config.AppMetrics{Enabled: true, Namespace: "test"},
	}
	logger := zap.NewNop()

	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)

	app := &testApp{
		router:             chi.NewRouter(),
		authUsecase:        new(mocks.AuthUsecase),
		userUsecase:        new(mocks.UserUsecase),
		examinationUsecase: new(mocks.ExaminationUsecase),
		recordingUsecase:   new(mocks.RecordingUsecase),
		analysisUsecase:    new(mocks.AnalysisUsecase),
	}
	app.authUsecase.On("Authenticate", mock.Anything, "doctor-token").
		Return(&models.Principal{UserID: 1, Email: "doctor@bowell.test", Type: models.UserTypeDoctor}, nil).Maybe()
	app.authUsecase.On("Authenticate", mock.Anything, "patient-token").
		Return(&models.Principal{UserID: 2, Email: "patient@bowell.test", Type: models.UserTypePatient}, nil).Maybe()

	collector := metrics.NewCollector("test")
	ctrls := &Controllers{
		Auth:        &controllers.AuthController{Log: logger, AuthUsecase: app.authUsecase, InternalConfig: cfg},
		User:        &controllers.UserController{Log: logger, UserUsecase: app.userUsecase, InternalConfig: cfg},
		Examination: &controllers.ExaminationController{Log: logger, ExaminationUsecase: app.examinationUsecase, InternalConfig: cfg},
		Recording:   &controllers.RecordingController{Log: logger, RecordingUsecase: app.recordingUsecase, InternalConfig: cfg},
		Analysis:    &controllers.AnalysisController{Log: logger, AnalysisUsecase: app.analysisUsecase, InternalConfig: cfg},
		Health: controllers.NewHealthController(logger, map[string]controllers.HealthCheck{
			"postgres": func(ctx context.Context) error { return nil },
		}),
	}
	mw := middlewares.NewMiddlewares(logger, app.authUsecase, enforcer, collector, cfg)
	hub := websocket.NewHub(logger, new(mocks.Notifier), collector, cfg)

	SetupRoutes(app.router, cfg, mw, ctrls, hub, collector)
	return app
}

func (app *testApp) do(method, target, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	t.Run("healthz", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("metrics", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/metrics", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "test_http_requests_total")
	})

	t.Run("registration needs no token", func(t *testing.T) {
		app.userUsecase.On("Register", mock.Anything, mock.Anything).Return(&models.User{ID: 9}, nil).Once()

		body := `{"email":"new@bowell.test","password":"long-enough","first_name":"Jan","last_name":"Kowalski","birth_date":"1990-01-01","type":"PATIENT"}`
		rec := app.do(http.MethodPost, "/api/v1/users", "", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("websocket without credentials", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/ws/users/abc/", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_ProtectedEndpoints(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/v1/examinations", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("doctor reads statistics", func(t *testing.T) {
		app.examinationUsecase.On("GetStatistics", mock.Anything, mock.MatchedBy(func(p *models.Principal) bool {
			return p != nil && p.UserID == 1
		})).Return(&models.ExaminationStatistics{ExaminationCount: 1}, nil).Once()

		rec := app.do(http.MethodGet, "/api/v1/examinations/statistics", "doctor-token", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("patient cannot upload recordings", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/v1/recordings", "patient-token", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		app.recordingUsecase.AssertNotCalled(t, "CreateRecording", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patient cannot dispatch analysis", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/v1/examinations/3/analysis", "patient-token", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("service key dispatches analysis", func(t *testing.T) {
		app.analysisUsecase.On("Dispatch", mock.Anything, mock.MatchedBy(func(p *models.Principal) bool {
			return p != nil && p.IsService && p.IsStaff
		}), int64(3)).Return(&responses.DispatchAnalysis{TaskID: "run-1", Status: models.AnalysisRunStatusPending}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/examinations/3/analysis", nil)
		req.Header.Set(constvars.HeaderAPIKey, "service-secret")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("service key cannot upload recordings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recordings", nil)
		req.Header.Set(constvars.HeaderAPIKey, "service-secret")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("doctor lists analysis runs", func(t *testing.T) {
		app.analysisUsecase.On("ListRuns", mock.Anything, mock.Anything, int64(4)).Return([]models.AnalysisRun{}, nil).Once()

		rec := app.do(http.MethodGet, "/api/v1/recordings/4/analyses", "doctor-token", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("json body over the limit", func(t *testing.T) {
		rec := app.do(http.MethodPatch, "/api/v1/examinations/3", "doctor-token", `{"overview":"`+strings.Repeat("a", 2<<20)+`"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}
