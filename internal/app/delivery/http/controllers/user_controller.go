package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type UserController struct {
	Log            *zap.Logger
	UserUsecase    contracts.UserUsecase
	InternalConfig *config.InternalConfig
}

var (
	userControllerInstance *UserController
	onceUserController     sync.Once
)

func NewUserController(logger *zap.Logger, userUsecase contracts.UserUsecase, internalConfig *config.InternalConfig) *UserController {
	onceUserController.Do(func() {
		userControllerInstance = &UserController{
			Log:            logger,
			UserUsecase:    userUsecase,
			InternalConfig: internalConfig,
		}
	})
	return userControllerInstance
}

func (ctrl *UserController) Register(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.Register", false)
	if !ok {
		return
	}

	request := new(requests.RegisterUser)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("UserController.Register error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRegisterUserRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	user, err := ctrl.UserUsecase.Register(ctx, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "UserController.Register", scope.requestID, err)
		return
	}

	ctrl.Log.Info("UserController.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingUserIDKey, user.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateUserSuccessMessage, user)
}

func (ctrl *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.ListUsers", true)
	if !ok {
		return
	}

	query := new(requests.ListUsersQuery)
	if err := utils.DecodeQuery(query, r.URL.Query()); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	users, err := ctrl.UserUsecase.ListUsers(ctx, query)
	if err != nil {
		usecaseError(ctrl.Log, w, "UserController.ListUsers", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetUsersSuccessMessage, users)
}

func (ctrl *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.GetMe", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	user, err := ctrl.UserUsecase.GetMe(ctx, scope.principal)
	if err != nil {
		usecaseError(ctrl.Log, w, "UserController.GetMe", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetUserSuccessMessage, user)
}

func (ctrl *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.GetUser", true)
	if !ok {
		return
	}

	userID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	user, err := ctrl.UserUsecase.GetUser(ctx, userID)
	if err != nil {
		usecaseError(ctrl.Log, w, "UserController.GetUser", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetUserSuccessMessage, user)
}

// UpdateUser serves both PUT and PATCH; absent fields are left untouched.
func (ctrl *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.UpdateUser", true)
	if !ok {
		return
	}

	userID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateUser)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeUpdateUserRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	user, err := ctrl.UserUsecase.UpdateUser(ctx, scope.principal, userID, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "UserController.UpdateUser", scope.requestID, err)
		return
	}

	ctrl.Log.Info("UserController.UpdateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateUserSuccessMessage, user)
}

func (ctrl *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "UserController.DeleteUser", true)
	if !ok {
		return
	}

	userID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	if err := ctrl.UserUsecase.DeleteUser(ctx, scope.principal, userID); err != nil {
		usecaseError(ctrl.Log, w, "UserController.DeleteUser", scope.requestID, err)
		return
	}

	ctrl.Log.Info("UserController.DeleteUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusNoContent, constvars.DeleteUserSuccessMessage, nil)
}
