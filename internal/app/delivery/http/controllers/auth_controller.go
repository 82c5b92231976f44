package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuthController struct {
	Log            *zap.Logger
	AuthUsecase    contracts.AuthUsecase
	InternalConfig *config.InternalConfig
}

var (
	authControllerInstance *AuthController
	onceAuthController     sync.Once
)

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase, internalConfig *config.InternalConfig) *AuthController {
	onceAuthController.Do(func() {
		authControllerInstance = &AuthController{
			Log:            logger,
			AuthUsecase:    authUsecase,
			InternalConfig: internalConfig,
		}
	})
	return authControllerInstance
}

func (ctrl *AuthController) cookieOptions() utils.CookieOptions {
	return utils.CookieOptions{
		Domain: ctrl.InternalConfig.Cookie.Domain,
		Debug:  ctrl.InternalConfig.Cookie.Debug,
	}
}

// decodeOptionalJSON decodes a body that may legitimately be empty.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func (ctrl *AuthController) ObtainTokenPair(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AuthController.ObtainTokenPair", false)
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.ObtainTokenPair)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeObtainTokenPairRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	pair, err := ctrl.AuthUsecase.ObtainTokenPair(ctx, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "AuthController.ObtainTokenPair", scope.requestID, err)
		return
	}

	utils.SetTokenCookie(w, constvars.CookieAccess, pair.Access, ctrl.InternalConfig.JWT.AccessTokenLifetime(), ctrl.cookieOptions())
	utils.SetTokenCookie(w, constvars.CookieRefresh, pair.Refresh, ctrl.InternalConfig.JWT.RefreshTokenLifetime(), ctrl.cookieOptions())

	ctrl.Log.Info("AuthController.ObtainTokenPair succeeded", zap.String(constvars.LoggingRequestIDKey, scope.requestID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccessMessage, pair)
}

// RefreshToken prefers the refresh cookie over the body.
func (ctrl *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AuthController.RefreshToken", false)
	if !ok {
		return
	}

	request := new(requests.RefreshToken)
	if err := decodeOptionalJSON(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	refreshToken := request.Refresh
	if cookie, err := r.Cookie(constvars.CookieRefresh); err == nil && cookie.Value != "" {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	access, err := ctrl.AuthUsecase.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		usecaseError(ctrl.Log, w, "AuthController.RefreshToken", scope.requestID, err)
		return
	}

	utils.SetTokenCookie(w, constvars.CookieAccess, access, ctrl.InternalConfig.JWT.AccessTokenLifetime(), ctrl.cookieOptions())

	ctrl.Log.Info("AuthController.RefreshToken succeeded", zap.String(constvars.LoggingRequestIDKey, scope.requestID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefreshTokenSuccessMessage, responses.AccessToken{Access: access})
}

// VerifyToken prefers the access cookie over the body.
func (ctrl *AuthController) VerifyToken(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AuthController.VerifyToken", false)
	if !ok {
		return
	}

	request := new(requests.VerifyToken)
	if err := decodeOptionalJSON(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	token := request.Token
	if cookie, err := r.Cookie(constvars.CookieAccess); err == nil && cookie.Value != "" {
		token = cookie.Value
	}
	if token == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	if err := ctrl.AuthUsecase.VerifyToken(ctx, token); err != nil {
		usecaseError(ctrl.Log, w, "AuthController.VerifyToken", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.VerifyTokenSuccessMessage, responses.Empty{})
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AuthController.Logout", false)
	if !ok {
		return
	}

	cookie, err := r.Cookie(constvars.CookieRefresh)
	if err != nil || cookie.Value == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrRefreshCookieMissing(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	if err := ctrl.AuthUsecase.Logout(ctx, cookie.Value); err != nil {
		usecaseError(ctrl.Log, w, "AuthController.Logout", scope.requestID, err)
		return
	}

	utils.ClearCookie(w, constvars.CookieAccess, ctrl.cookieOptions())
	utils.ClearCookie(w, constvars.CookieRefresh, ctrl.cookieOptions())

	ctrl.Log.Info("AuthController.Logout succeeded", zap.String(constvars.LoggingRequestIDKey, scope.requestID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccessMessage, nil)
}
