package users

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type userUsecase struct {
	UserRepository contracts.UserRepository
	Log            *zap.Logger
}

func NewUserUsecase(userRepository contracts.UserRepository, logger *zap.Logger) contracts.UserUsecase {
	return &userUsecase{
		UserRepository: userRepository,
		Log:            logger,
	}
}

// Register creates an account. Doctor accounts start inactive until staff approve them.
func (uc *userUsecase) Register(ctx context.Context, request *requests.RegisterUser) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserTypeKey, request.Type),
	)

	existing, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.Log.Warn("userUsecase.Register email already registered",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrEmailAlreadyExist(nil)
	}

	birthDate, err := utils.ParseDate(request.BirthDate)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	userType := models.UserType(request.Type)
	user := &models.User{
		Email:     request.Email,
		Password:  hashedPassword,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		BirthDate: &birthDate,
		Type:      userType,
		IsActive:  userType != models.UserTypeDoctor,
	}

	user.ID, err = uc.UserRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := uc.UserRepository.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = user
	}

	uc.Log.Info("userUsecase.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, created.ID),
	)
	return created, nil
}

func (uc *userUsecase) ListUsers(ctx context.Context, query *requests.ListUsersQuery) ([]models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.ListUsers called", zap.String(constvars.LoggingRequestIDKey, requestID))

	filter := &models.UserFilter{}
	if query != nil && strings.TrimSpace(query.Type) != "" {
		userType := models.UserType(strings.TrimSpace(query.Type))
		if !userType.IsValid() {
			return nil, exceptions.ErrInvalidUserTypeFilter(fmt.Errorf("unknown user type %q", query.Type), query.Type)
		}
		filter.Type = &userType
	}

	return uc.UserRepository.FindAll(ctx, filter)
}

func (uc *userUsecase) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.GetUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrNotFound(nil, "user")
	}
	return user, nil
}

func (uc *userUsecase) GetMe(ctx context.Context, principal *models.Principal) (*models.User, error) {
	if principal == nil {
		return nil, exceptions.ErrTokenMissing(nil)
	}
	return uc.GetUser(ctx, principal.UserID)
}

func (uc *userUsecase) UpdateUser(ctx context.Context, principal *models.Principal, userID int64, request *requests.UpdateUser) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.UpdateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	user, err := uc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !principal.CanManageUser(userID) {
		return nil, exceptions.ErrPermissionDenied(nil)
	}

	if request.FirstName != nil {
		user.FirstName = *request.FirstName
	}
	if request.LastName != nil {
		user.LastName = *request.LastName
	}
	if request.BirthDate != nil {
		birthDate, err := utils.ParseDate(*request.BirthDate)
		if err != nil {
			return nil, exceptions.ErrInputValidation(err)
		}
		user.BirthDate = &birthDate
	}

	if err := uc.UserRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.Log.Info("userUsecase.UpdateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)
	return user, nil
}

func (uc *userUsecase) DeleteUser(ctx context.Context, principal *models.Principal, userID int64) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.DeleteUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	if _, err := uc.GetUser(ctx, userID); err != nil {
		return err
	}
	if !principal.CanManageUser(userID) {
		return exceptions.ErrPermissionDenied(nil)
	}
	return uc.UserRepository.DeleteByID(ctx, userID)
}
