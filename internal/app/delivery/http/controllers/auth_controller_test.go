package controllers

import (
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthController(authUsecase *mocks.AuthUsecase) *AuthController {
	return &AuthController{Log: zap.NewNop(), AuthUsecase: authUsecase, InternalConfig: testConfig}
}

func TestAuthController_ObtainTokenPair(t *testing.T) {
	t.Run("sets both cookies", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("ObtainTokenPair", mock.Anything, &requests.ObtainTokenPair{Email: "doctor@bowell.test", Password: "secret"}).
			Return(&models.TokenPair{Access: "access-token", Refresh: "refresh-token"}, nil).Once()
		ctrl := newAuthController(authUsecase)

		body := `{"email":" doctor@bowell.test ","password":"secret"}`
		rec := serve(http.MethodPost, "/token", "/token", strings.NewReader(body), nil, ctrl.ObtainTokenPair)

		require.Equal(t, http.StatusOK, rec.Code)
		var pair models.TokenPair
		decodeSuccess(t, rec, &pair)
		assert.Equal(t, "refresh-token", pair.Refresh)

		access := findCookie(rec, constvars.CookieAccess)
		require.NotNil(t, access)
		assert.Equal(t, "access-token", access.Value)
		assert.True(t, access.HttpOnly)
		assert.Equal(t, 300, access.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

		refresh := findCookie(rec, constvars.CookieRefresh)
		require.NotNil(t, refresh)
		assert.Equal(t, 3600, refresh.MaxAge)
		authUsecase.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		ctrl := newAuthController(authUsecase)

		rec := serve(http.MethodPost, "/token", "/token", strings.NewReader(`{"email":"doctor@bowell.test"}`), nil, ctrl.ObtainTokenPair)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "password is required", decodeFailure(t, rec).ClientMessage)
		authUsecase.AssertNotCalled(t, "ObtainTokenPair", mock.Anything, mock.Anything)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("ObtainTokenPair", mock.Anything, mock.Anything).Return(nil, exceptions.ErrInvalidCredentials(nil)).Once()
		ctrl := newAuthController(authUsecase)

		rec := serve(http.MethodPost, "/token", "/token", strings.NewReader(`{"email":"doctor@bowell.test","password":"nope"}`), nil, ctrl.ObtainTokenPair)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, findCookie(rec, constvars.CookieAccess))
	})
}

func TestAuthController_RefreshToken_CookieWins(t *testing.T) {
	authUsecase := new(mocks.AuthUsecase)
	authUsecase.On("RefreshAccessToken", mock.Anything, "cookie-refresh").Return("new-access", nil).Once()
	ctrl := newAuthController(authUsecase)

	router := chi.NewRouter()
	router.Post("/refresh", ctrl.RefreshToken)
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh":"body-refresh"}`))
	req.AddCookie(&http.Cookie{Name: constvars.CookieRefresh, Value: "cookie-refresh"})
	req = req.WithContext(withTestRequestID(req))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var token responses.AccessToken
	decodeSuccess(t, rec, &token)
	assert.Equal(t, "new-access", token.Access)
	assert.Equal(t, "new-access", findCookie(rec, constvars.CookieAccess).Value)
	authUsecase.AssertExpectations(t)
}

func TestAuthController_VerifyToken(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		ctrl := newAuthController(new(mocks.AuthUsecase))

		rec := serve(http.MethodPost, "/verify", "/verify", http.NoBody, nil, ctrl.VerifyToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("body token", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("VerifyToken", mock.Anything, "body-token").Return(nil).Once()
		ctrl := newAuthController(authUsecase)

		rec := serve(http.MethodPost, "/verify", "/verify", strings.NewReader(`{"token":"body-token"}`), nil, ctrl.VerifyToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{}`, string(decodeSuccess(t, rec, nil).Data))
	})
}

func TestAuthController_Logout(t *testing.T) {
	t.Run("without refresh cookie", func(t *testing.T) {
		ctrl := newAuthController(new(mocks.AuthUsecase))

		rec := serve(http.MethodPost, "/logout", "/logout", nil, nil, ctrl.Logout)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constvars.ErrClientRefreshCookieMissing, decodeFailure(t, rec).ClientMessage)
	})

	t.Run("clears cookies", func(t *testing.T) {
		authUsecase := new(mocks.AuthUsecase)
		authUsecase.On("Logout", mock.Anything, "refresh-token").Return(nil).Once()
		ctrl := newAuthController(authUsecase)

		router := chi.NewRouter()
		router.Post("/logout", ctrl.Logout)
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: constvars.CookieRefresh, Value: "refresh-token"})
		req = req.WithContext(withTestRequestID(req))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, constvars.LogoutSuccessMessage, decodeSuccess(t, rec, nil).Message)
		for _, name := range []string{constvars.CookieAccess, constvars.CookieRefresh} {
			cookie := findCookie(rec, name)
			require.NotNil(t, cookie)
			assert.Empty(t, cookie.Value)
			assert.Less(t, cookie.MaxAge, 0)
		}
	})
}
