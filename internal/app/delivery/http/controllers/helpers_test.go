package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.InternalConfig{
	App:    config.App{RequestTimeoutInSeconds: 5},
	JWT:    config.AppJWT{AccessTokenLifetimeMinutes: 5, RefreshTokenLifetimeMinutes: 60},
	Cookie: config.AppCookie{Domain: "bowell.test", Debug: true},
	Minio:  config.AppMinio{RecordingMaxUploadSizeInMB: 1},
}

var (
	doctor  = &models.Principal{UserID: 1, Email: "doctor@bowell.test", Type: models.UserTypeDoctor}
	patient = &models.Principal{UserID: 2, Email: "patient@bowell.test", Type: models.UserTypePatient}
)

type successBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// serve routes a single request through a chi router so URL params resolve.
func serve(method, pattern, target string, body io.Reader, principal *models.Principal, handler http.HandlerFunc) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)

	req := httptest.NewRequest(method, target, body)
	ctx := utils.WithRequestID(req.Context(), "test-request")
	if principal != nil {
		ctx = utils.WithPrincipal(ctx, principal)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) successBody {
	t.Helper()
	var body successBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}
	return body
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) exceptions.CustomError {
	t.Helper()
	var body exceptions.CustomError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func withTestRequestID(r *http.Request) context.Context {
	return utils.WithRequestID(r.Context(), "test-request")
}
