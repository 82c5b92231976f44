package mocks

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"

	"github.com/stretchr/testify/mock"
)

type AuthUsecase struct {
	mock.Mock
}

func (m *AuthUsecase) ObtainTokenPair(ctx context.Context, request *requests.ObtainTokenPair) (*models.TokenPair, error) {
	args := m.Called(ctx, request)
	if pair := args.Get(0); pair != nil {
		return pair.(*models.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthUsecase) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *AuthUsecase) VerifyToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *AuthUsecase) Authenticate(ctx context.Context, accessToken string) (*models.Principal, error) {
	args := m.Called(ctx, accessToken)
	if principal := args.Get(0); principal != nil {
		return principal.(*models.Principal), args.Error(1)
	}
	return nil, args.Error(1)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateTokenPair(ctx context.Context, userID int64) (*models.TokenPair, error) {
	args := m.Called(ctx, userID)
	if pair := args.Get(0); pair != nil {
		return pair.(*models.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TokenManager) GenerateAccessToken(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	args := m.Called(ctx, token)
	if claims := args.Get(0); claims != nil {
		return claims.(*models.TokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}
