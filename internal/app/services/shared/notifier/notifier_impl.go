package notifier

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const groupNameFormat = "user-%d"

// GroupName is the pub/sub channel shared by every connection of a user.
func GroupName(userID int64) string {
	return fmt.Sprintf(groupNameFormat, userID)
}

type redisNotifier struct {
	redisRepo contracts.RedisRepository
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewRedisNotifier(redisRepo contracts.RedisRepository, collector *metrics.Collector, logger *zap.Logger) contracts.Notifier {
	return &redisNotifier{
		redisRepo: redisRepo,
		metrics:   collector,
		log:       logger,
	}
}

func (n *redisNotifier) Send(ctx context.Context, userID int64, event *models.Event) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	n.log.Info("Notifier.Send called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
		zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
	)

	if event.Timestamp == nil {
		now := time.Now().UTC()
		event.Timestamp = &now
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.metrics.NotificationSent(string(event.Type), err)
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = n.redisRepo.Publish(ctx, GroupName(userID), payload)
	n.metrics.NotificationSent(string(event.Type), err)
	if err != nil {
		n.log.Error("Notifier.Send error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	n.log.Info("Notifier.Send succeeded", zap.String(constvars.LoggingRequestIDKey, requestID))
	return nil
}

func (n *redisNotifier) Subscribe(ctx context.Context, userID int64) (contracts.Subscription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	n.log.Info("Notifier.Subscribe called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisChannelKey, GroupName(userID)),
	)
	return n.redisRepo.Subscribe(ctx, GroupName(userID))
}
