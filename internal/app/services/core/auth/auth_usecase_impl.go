package auth

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const blacklistKeyFormat = "auth:blacklist:%s"

func blacklistKey(tokenID string) string {
	return fmt.Sprintf(blacklistKeyFormat, tokenID)
}

type authUsecase struct {
	UserRepository  contracts.UserRepository
	TokenManager    contracts.TokenManager
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
	now             func() time.Time
}

func NewAuthUsecase(
	userRepository contracts.UserRepository,
	tokenManager contracts.TokenManager,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) contracts.AuthUsecase {
	return &authUsecase{
		UserRepository:  userRepository,
		TokenManager:    tokenManager,
		RedisRepository: redisRepository,
		Log:             logger,
		now:             time.Now,
	}
}

func (uc *authUsecase) ObtainTokenPair(ctx context.Context, request *requests.ObtainTokenPair) (*models.TokenPair, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.ObtainTokenPair called", zap.String(constvars.LoggingRequestIDKey, requestID))

	user, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !utils.CheckPasswordHash(request.Password, user.Password) {
		uc.Log.Warn("authUsecase.ObtainTokenPair rejected credentials",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrInvalidCredentials(nil)
	}

	pair, err := uc.TokenManager.GenerateTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("authUsecase.ObtainTokenPair succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, user.ID),
	)
	return pair, nil
}

func (uc *authUsecase) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.RefreshAccessToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	claims, err := uc.parseTyped(ctx, refreshToken, constvars.TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if err := uc.ensureNotBlacklisted(ctx, claims); err != nil {
		return "", err
	}

	if _, err := uc.activeUser(ctx, claims.UserID); err != nil {
		return "", err
	}

	access, err := uc.TokenManager.GenerateAccessToken(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	uc.Log.Info("authUsecase.RefreshAccessToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, claims.UserID),
	)
	return access, nil
}

// VerifyToken accepts any valid access or refresh token that is not blacklisted.
func (uc *authUsecase) VerifyToken(ctx context.Context, token string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.VerifyToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	claims, err := uc.TokenManager.ParseToken(ctx, token)
	if err != nil {
		return err
	}
	return uc.ensureNotBlacklisted(ctx, claims)
}

// Logout blacklists the refresh token until it would expire anyway.
func (uc *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Logout called", zap.String(constvars.LoggingRequestIDKey, requestID))

	claims, err := uc.parseTyped(ctx, refreshToken, constvars.TokenTypeRefresh)
	if err != nil {
		return err
	}

	key := blacklistKey(claims.TokenID)
	exists, err := uc.RedisRepository.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		uc.Log.Info("authUsecase.Logout token already blacklisted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil
	}

	ttl := claims.ExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.RedisRepository.Set(ctx, key, claims.UserID, ttl); err != nil {
		return err
	}

	uc.Log.Info("authUsecase.Logout succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, claims.UserID),
	)
	return nil
}

func (uc *authUsecase) Authenticate(ctx context.Context, accessToken string) (*models.Principal, error) {
	claims, err := uc.parseTyped(ctx, accessToken, constvars.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := uc.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &models.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Type:        user.Type,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenID:     claims.TokenID,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

func (uc *authUsecase) parseTyped(ctx context.Context, token, tokenType string) (*models.TokenClaims, error) {
	claims, err := uc.TokenManager.ParseToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("%s: %s", constvars.ErrDevAuthWrongTokenType, claims.TokenType))
	}
	return claims, nil
}

func (uc *authUsecase) ensureNotBlacklisted(ctx context.Context, claims *models.TokenClaims) error {
	blacklisted, err := uc.RedisRepository.Exists(ctx, blacklistKey(claims.TokenID))
	if err != nil {
		return err
	}
	if blacklisted {
		return exceptions.ErrTokenBlacklisted(nil)
	}
	return nil
}

func (uc *authUsecase) activeUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, exceptions.ErrInvalidCredentials(nil)
	}
	return user, nil
}
