package contracts

import (
	"bowell-service/internal/app/models"
	"context"
)

// Notifier fans events out to every open connection of a user.
type Notifier interface {
	Send(ctx context.Context, userID int64, event *models.Event) error
	Subscribe(ctx context.Context, userID int64) (Subscription, error)
}
