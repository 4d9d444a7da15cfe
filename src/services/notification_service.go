package services

import (
	"context"

	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"
	"kitemate/src/utils"
	redis_utils "kitemate/src/utils/redis"
)

type NotificationServiceI interface {
	Publish(ctx context.Context, event *schemas.NotificationEvent) error
	Persist(ctx context.Context, event *schemas.NotificationEvent) error
	List(ctx context.Context, userID string, unreadOnly bool) ([]schemas.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// NotificationService publishes events on the Redis bus; the worker consumes
// them and persists rows through Persist.
type NotificationService struct {
	redisHandler           *redis_utils.RedisHandler
	notificationRepository repositories.NotificationRepository
}

func NewNotificationService(redisHandler *redis_utils.RedisHandler, notificationRepository repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		redisHandler:           redisHandler,
		notificationRepository: notificationRepository,
	}
}

func (s *NotificationService) Publish(ctx context.Context, event *schemas.NotificationEvent) error {
	if s.redisHandler == nil {
		// No bus configured; persist directly so the event is not lost.
		return s.Persist(ctx, event)
	}
	return s.redisHandler.Publish(ctx, utils.NotificationsChannel, event)
}

func (s *NotificationService) Persist(ctx context.Context, event *schemas.NotificationEvent) error {
	return s.notificationRepository.Create(ctx, &models.Notification{
		UserID:  event.UserID,
		Kind:    event.Kind,
		Payload: event.Payload,
	})
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]schemas.NotificationResponse, error) {
	notifications, err := s.notificationRepository.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]schemas.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, schemas.NotificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			Payload:   n.Payload,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return responses, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notificationRepository.MarkRead(ctx, id, userID); err != nil {
		return utils.NotFound("notification not found")
	}
	return nil
}
