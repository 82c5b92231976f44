package locker

import (
	"bowell-service/internal/app/contracts/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLockService() (*lockService, *mocks.RedisRepository) {
	repo := new(mocks.RedisRepository)
	return &lockService{redisRepo: repo, Log: zap.NewNop()}, repo
}

func TestLockService_TryLock(t *testing.T) {
	ctx := context.Background()

	t.Run("Acquired", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("TrySetNX", ctx, "analysis:recording:1", mock.AnythingOfType("string"), time.Minute).Return(true, nil)

		acquired, value, err := svc.TryLock(ctx, "analysis:recording:1", time.Minute)

		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, value)
		repo.AssertExpectations(t)
	})

	t.Run("Held By Someone Else", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("TrySetNX", ctx, "analysis:recording:1", mock.Anything, time.Minute).Return(false, nil)

		acquired, value, err := svc.TryLock(ctx, "analysis:recording:1", time.Minute)

		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, value)
	})

	t.Run("Redis Error", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("TrySetNX", ctx, "k", mock.Anything, time.Minute).Return(false, errors.New("down"))

		acquired, _, err := svc.TryLock(ctx, "k", time.Minute)

		assert.Error(t, err)
		assert.False(t, acquired)
	})
}

func TestLockService_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Releases", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("Get", ctx, "k").Return(`"abc"`, nil)
		repo.On("Delete", ctx, "k").Return(nil)

		assert.NoError(t, svc.Unlock(ctx, "k", "abc"))
		repo.AssertExpectations(t)
	})

	t.Run("Expired Lock Is Ignored", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("Get", ctx, "k").Return("", nil)

		assert.NoError(t, svc.Unlock(ctx, "k", "abc"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Foreign Lock Is Kept", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("Get", ctx, "k").Return(`"other"`, nil)

		assert.Error(t, svc.Unlock(ctx, "k", "abc"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestLockService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Extends Owned Lock", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("Get", ctx, "k").Return(`"abc"`, nil)
		repo.On("Expire", ctx, "k", time.Minute).Return(nil)

		assert.NoError(t, svc.Refresh(ctx, "k", "abc", time.Minute))
		repo.AssertExpectations(t)
	})

	t.Run("Lost Lock", func(t *testing.T) {
		svc, repo := newTestLockService()
		repo.On("Get", ctx, "k").Return("", nil)

		assert.Error(t, svc.Refresh(ctx, "k", "abc", time.Minute))
		repo.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
	})
}
