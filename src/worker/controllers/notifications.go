package controllers

import (
	"context"
	"encoding/json"

	"kitemate/src/schemas"
	"kitemate/src/utils"
)

// StartNotificationDispatcher subscribes to the notification channel and
// persists every event. It blocks until the context is cancelled, so run it
// in its own goroutine.
func (c *Controller) StartNotificationDispatcher(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)
	pubsub, messages := c.RedisHandler.Subscribe(ctx, utils.NotificationsChannel)
	defer pubsub.Close()

	logger.WithField("channel", utils.NotificationsChannel).Info("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			event := new(schemas.NotificationEvent)
			if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
				logger.WithError(err).Warn("dropping malformed notification event")
				continue
			}
			if err := c.Notifications.Persist(ctx, event); err != nil {
				logger.WithError(err).WithField("user_id", event.UserID).Error("could not persist notification")
			}
		}
	}
}
