package contracts

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"
)

type AuthUsecase interface {
	ObtainTokenPair(ctx context.Context, request *requests.ObtainTokenPair) (*models.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	VerifyToken(ctx context.Context, token string) error
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.Principal, error)
}

type TokenManager interface {
	GenerateTokenPair(ctx context.Context, userID int64) (*models.TokenPair, error)
	GenerateAccessToken(ctx context.Context, userID int64) (string, error)
	ParseToken(ctx context.Context, token string) (*models.TokenClaims, error)
}
