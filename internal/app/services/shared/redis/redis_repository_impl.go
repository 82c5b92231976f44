package redis

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisGet(err)
	}
	return data, nil
}

func (r *redisRepository) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, exceptions.ErrRedisGet(err)
	}
	return count > 0, nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}

func (r *redisRepository) Expire(ctx context.Context, key string, exp time.Duration) error {
	err := r.client.Expire(ctx, key, exp).Err()
	if err != nil {
		return exceptions.ErrRedisExpire(err)
	}
	return nil
}

func (r *redisRepository) Publish(ctx context.Context, channel string, payload []byte) error {
	err := r.client.Publish(ctx, channel, payload).Err()
	if err != nil {
		return exceptions.ErrRedisPublish(err, channel)
	}
	return nil
}

// Subscribe waits for the subscription to be confirmed so that no message
// published right after the call is lost.
func (r *redisRepository) Subscribe(ctx context.Context, channel string) (contracts.Subscription, error) {
	pubsub := r.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, exceptions.ErrRedisGet(err)
	}

	sub := &subscription{
		pubsub:   pubsub,
		messages: make(chan []byte),
		done:     make(chan struct{}),
	}
	go sub.forward()
	return sub, nil
}

type subscription struct {
	pubsub    *redis.PubSub
	messages  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) forward() {
	defer close(s.messages)
	source := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-source:
			if !ok {
				return
			}
			select {
			case s.messages <- []byte(msg.Payload):
			case <-s.done:
				return
			}
		}
	}
}

func (s *subscription) Messages() <-chan []byte {
	return s.messages
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
