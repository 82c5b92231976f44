package contracts

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"
)

type UserUsecase interface {
	Register(ctx context.Context, request *requests.RegisterUser) (*models.User, error)
	ListUsers(ctx context.Context, query *requests.ListUsersQuery) ([]models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetMe(ctx context.Context, principal *models.Principal) (*models.User, error)
	UpdateUser(ctx context.Context, principal *models.Principal, userID int64, request *requests.UpdateUser) (*models.User, error)
	DeleteUser(ctx context.Context, principal *models.Principal, userID int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (userID int64, err error)
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, filter *models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteByID(ctx context.Context, userID int64) error
}
