package middlewares

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"bowell-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddlewares(t *testing.T, authUsecase *mocks.AuthUsecase) *Middlewares {
	t.Helper()

	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)

	return NewMiddlewares(zap.NewNop(), authUsecase, enforcer, metrics.NewCollector("test"), &config.InternalConfig{
		App: config.App{MaxRequests: 2, RequestBodyLimitInMegabyte: 1},
	})
}

func principalEcho(w http.ResponseWriter, r *http.Request) {
	principal := utils.GetPrincipal(r.Context())
	if principal == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Write([]byte(principal.Email))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) exceptions.CustomError {
	t.Helper()
	var body exceptions.CustomError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))

	var seen string
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestID(r.Context())
	}))

	t.Run("keeps the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("generates one when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, seen, rec.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestAuthenticate(t *testing.T) {
	principal := &models.Principal{UserID: 7, Email: "doc@bowell.test", Type: models.UserTypeDoctor}

	t.Run("missing token", func(t *testing.T) {
		m := newTestMiddlewares(t, new(mocks.AuthUsecase))
		rec := httptest.NewRecorder()

		m.Authenticate(http.HandlerFunc(principalEcho)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constvars.ErrClientNotAuthorized, decodeError(t, rec).ClientMessage)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("Authenticate", mock.Anything, "cookie-token").Return(principal, nil).Once()
		m := newTestMiddlewares(t, authUsecase)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: constvars.CookieAccess, Value: "cookie-token"})
		rec := httptest.NewRecorder()

		m.Authenticate(http.HandlerFunc(principalEcho)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, principal.Email, rec.Body.String())
		authUsecase.AssertExpectations(t)
	})

	t.Run("bearer header", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("Authenticate", mock.Anything, "header-token").Return(principal, nil).Once()
		m := newTestMiddlewares(t, authUsecase)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer header-token")
		rec := httptest.NewRecorder()

		m.Authenticate(http.HandlerFunc(principalEcho)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("Authenticate", mock.Anything, "bad").Return(nil, exceptions.ErrTokenInvalidOrExpired(nil)).Once()
		m := newTestMiddlewares(t, authUsecase)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer bad")
		rec := httptest.NewRecorder()

		m.Authenticate(http.HandlerFunc(principalEcho)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constvars.ErrClientTokenInvalidOrExpired, decodeError(t, rec).ClientMessage)
	})
}

func TestOptionalAuthenticate_PassesAnonymousThrough(t *testing.T) {
	authUsecase := new(mocks.AuthUsecase)
	authUsecase.On("Authenticate", mock.Anything, "bad").Return(nil, exceptions.ErrTokenInvalidOrExpired(nil)).Once()
	m := newTestMiddlewares(t, authUsecase)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer bad")
	rec := httptest.NewRecorder()

	m.OptionalAuthenticate(http.HandlerFunc(principalEcho)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthorize(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))

	cases := []struct {
		name      string
		principal *models.Principal
		method    string
		path      string
		expected  int
	}{
		{"patient lists examinations", &models.Principal{Type: models.UserTypePatient}, http.MethodGet, "/api/v1/examinations", http.StatusOK},
		{"patient cannot upload recordings", &models.Principal{Type: models.UserTypePatient}, http.MethodPost, "/api/v1/recordings", http.StatusForbidden},
		{"doctor uploads recordings", &models.Principal{Type: models.UserTypeDoctor}, http.MethodPost, "/api/v1/recordings", http.StatusOK},
		{"doctor dispatches analysis", &models.Principal{Type: models.UserTypeDoctor}, http.MethodPost, "/api/v1/examinations/3/analysis", http.StatusOK},
		{"patient cannot dispatch analysis", &models.Principal{Type: models.UserTypePatient}, http.MethodPost, "/api/v1/examinations/3/analysis", http.StatusForbidden},
		{"superuser inherits staff", &models.Principal{Type: models.UserTypePatient, IsSuperuser: true}, http.MethodPost, "/api/v1/examinations/3/analysis", http.StatusOK},
		{"doctor reads statistics", &models.Principal{Type: models.UserTypeDoctor}, http.MethodGet, "/api/v1/examinations/statistics", http.StatusOK},
		{"staff cannot delete recordings", &models.Principal{Type: models.UserTypeStaff}, http.MethodDelete, "/api/v1/recordings/3", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req = req.WithContext(utils.WithPrincipal(req.Context(), tc.principal))
			rec := httptest.NewRecorder()

			m.Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

			assert.Equal(t, tc.expected, rec.Code)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Authorize(http.HandlerFunc(principalEcho)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))
	rec := httptest.NewRecorder()

	m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, constvars.ErrClientSomethingWrongWithApplication, decodeError(t, rec).ClientMessage)
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLimitBody_RejectsDeclaredOversizedBody(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.ContentLength = 2 << 20
	rec := httptest.NewRecorder()

	m.LimitBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLogging_ObservesRoutePattern(t *testing.T) {
	m := newTestMiddlewares(t, new(mocks.AuthUsecase))

	router := chi.NewRouter()
	router.Use(m.Logging)
	router.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Metrics.InFlightGauge))
}
