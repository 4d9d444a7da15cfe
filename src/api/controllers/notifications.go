package controllers

import (
	"context"

	"kitemate/src/schemas"
)

func (c *Controller) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]schemas.NotificationResponse, error) {
	return c.Notifications.List(ctx, userID, unreadOnly)
}

func (c *Controller) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return c.Notifications.MarkRead(ctx, notificationID, userID)
}
