package mocks

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindAll(ctx context.Context, filter *models.UserFilter) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) DeleteByID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type UserUsecase struct {
	mock.Mock
}

func (m *UserUsecase) Register(ctx context.Context, request *requests.RegisterUser) (*models.User, error) {
	args := m.Called(ctx, request)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserUsecase) ListUsers(ctx context.Context, query *requests.ListUsersQuery) ([]models.User, error) {
	args := m.Called(ctx, query)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserUsecase) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserUsecase) GetMe(ctx context.Context, principal *models.Principal) (*models.User, error) {
	args := m.Called(ctx, principal)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserUsecase) UpdateUser(ctx context.Context, principal *models.Principal, userID int64, request *requests.UpdateUser) (*models.User, error) {
	args := m.Called(ctx, principal, userID, request)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserUsecase) DeleteUser(ctx context.Context, principal *models.Principal, userID int64) error {
	args := m.Called(ctx, principal, userID)
	return args.Error(0)
}
