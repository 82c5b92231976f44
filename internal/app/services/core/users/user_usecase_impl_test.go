package users

import (
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserUsecase_Register(t *testing.T) {
	ctx := context.Background()
	request := &requests.RegisterUser{
		Email:     "doc@example.com",
		Password:  "secret-password",
		FirstName: "Anna",
		LastName:  "Nowak",
		BirthDate: "1980-05-01",
		Type:      "DOCTOR",
	}

	t.Run("Doctor Starts Inactive", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())

		repo.On("FindByEmail", ctx, request.Email).Return(nil, nil)
		repo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return !u.IsActive && u.Type == models.UserTypeDoctor &&
				utils.CheckPasswordHash(request.Password, u.Password) &&
				u.BirthDate != nil && u.BirthDate.Format(utils.DateLayout) == "1980-05-01"
		})).Return(int64(5), nil)
		repo.On("FindByID", ctx, int64(5)).Return(&models.User{ID: 5, Email: request.Email, Type: models.UserTypeDoctor}, nil)

		user, err := uc.Register(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Patient Starts Active", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		patient := *request
		patient.Type = "PATIENT"

		repo.On("FindByEmail", ctx, request.Email).Return(nil, nil)
		repo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool { return u.IsActive })).Return(int64(6), nil)
		repo.On("FindByID", ctx, int64(6)).Return(nil, nil)

		user, err := uc.Register(ctx, &patient)
		require.NoError(t, err)
		assert.Equal(t, int64(6), user.ID)
		assert.True(t, user.IsActive)
	})

	t.Run("Email Taken", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindByEmail", ctx, request.Email).Return(&models.User{ID: 1}, nil)

		_, err := uc.Register(ctx, request)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestUserUsecase_ListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Type Filter", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())

		_, err := uc.ListUsers(ctx, &requests.ListUsersQuery{Type: "NURSE"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
	})

	t.Run("Filter By Type", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindAll", ctx, mock.MatchedBy(func(f *models.UserFilter) bool {
			return f.Type != nil && *f.Type == models.UserTypePatient
		})).Return([]models.User{{ID: 1}}, nil)

		users, err := uc.ListUsers(ctx, &requests.ListUsersQuery{Type: "PATIENT"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("No Filter", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindAll", ctx, &models.UserFilter{}).Return([]models.User{}, nil)

		users, err := uc.ListUsers(ctx, &requests.ListUsersQuery{})
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestUserUsecase_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	firstName := "Jan"

	t.Run("Other User Is Forbidden", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)

		_, err := uc.UpdateUser(ctx, &models.Principal{UserID: 1}, 2, &requests.UpdateUser{FirstName: &firstName})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusForbidden, exceptions.StatusCodeOf(err))

		err = uc.DeleteUser(ctx, &models.Principal{UserID: 1}, 2)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusForbidden, exceptions.StatusCodeOf(err))
	})

	t.Run("Superuser Can Update", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindByID", ctx, int64(2)).Return(&models.User{ID: 2, FirstName: "Old"}, nil)
		repo.On("UpdateUser", ctx, mock.MatchedBy(func(u *models.User) bool { return u.FirstName == firstName })).Return(nil)

		user, err := uc.UpdateUser(ctx, &models.Principal{UserID: 1, IsSuperuser: true}, 2, &requests.UpdateUser{FirstName: &firstName})
		require.NoError(t, err)
		assert.Equal(t, firstName, user.FirstName)
	})

	t.Run("Self Delete", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindByID", ctx, int64(3)).Return(&models.User{ID: 3}, nil)
		repo.On("DeleteByID", ctx, int64(3)).Return(nil)

		require.NoError(t, uc.DeleteUser(ctx, &models.Principal{UserID: 3}, 3))
		repo.AssertExpectations(t)
	})

	t.Run("Missing User", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		uc := NewUserUsecase(repo, zap.NewNop())
		repo.On("FindByID", ctx, int64(9)).Return(nil, nil)

		_, err := uc.GetUser(ctx, 9)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})
}
