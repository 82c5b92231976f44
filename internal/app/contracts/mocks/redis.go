package mocks

import (
	"bowell-service/internal/app/contracts"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type RedisRepository struct {
	mock.Mock
}

func (m *RedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *RedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *RedisRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *RedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *RedisRepository) Expire(ctx context.Context, key string, exp time.Duration) error {
	args := m.Called(ctx, key, exp)
	return args.Error(0)
}

func (m *RedisRepository) Publish(ctx context.Context, channel string, payload []byte) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

func (m *RedisRepository) Subscribe(ctx context.Context, channel string) (contracts.Subscription, error) {
	args := m.Called(ctx, channel)
	if sub := args.Get(0); sub != nil {
		return sub.(contracts.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

// Subscription is an in-memory subscription fed by tests through Push.
type Subscription struct {
	ch     chan []byte
	closed chan struct{}
}

func NewSubscription() *Subscription {
	return &Subscription{
		ch:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (s *Subscription) Push(payload []byte) {
	s.ch <- payload
}

func (s *Subscription) Messages() <-chan []byte {
	return s.ch
}

func (s *Subscription) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
		close(s.ch)
	}
	return nil
}

// Closed is closed once Close was called.
func (s *Subscription) Closed() <-chan struct{} {
	return s.closed
}
