package jwtmanager

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tokenClaims is the JWT body of both access and refresh tokens.
type tokenClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access and refresh tokens.
type JWTManager struct {
	log             *zap.Logger
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (contracts.TokenManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	return &JWTManager{
		log:             log,
		secret:          []byte(secret),
		accessLifetime:  cfg.JWT.AccessTokenLifetime(),
		refreshLifetime: cfg.JWT.RefreshTokenLifetime(),
		now:             time.Now,
	}, nil
}

func (j *JWTManager) GenerateTokenPair(ctx context.Context, userID int64) (*models.TokenPair, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.GenerateTokenPair called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	access, err := j.sign(userID, constvars.TokenTypeAccess, j.accessLifetime)
	if err != nil {
		return nil, exceptions.ErrTokenGenerate(err)
	}
	refresh, err := j.sign(userID, constvars.TokenTypeRefresh, j.refreshLifetime)
	if err != nil {
		return nil, exceptions.ErrTokenGenerate(err)
	}

	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWTManager) GenerateAccessToken(ctx context.Context, userID int64) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.GenerateAccessToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	access, err := j.sign(userID, constvars.TokenTypeAccess, j.accessLifetime)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return access, nil
}

// ParseToken validates signature and expiry. The token type is returned in
// the claims and checked by callers.
func (j *JWTManager) ParseToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Debug("JWTManager.ParseToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if strings.TrimSpace(token) == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}
	if !parsed.Valid || claims.ExpiresAt == nil || claims.ID == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(errors.New("token claims are incomplete"))
	}

	return &models.TokenClaims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWTManager) sign(userID int64, tokenType string, lifetime time.Duration) (string, error) {
	now := j.now().UTC()
	claims := tokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}
