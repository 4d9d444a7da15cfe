package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kitemate/src/config"
	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/shopspring/decimal"
)

type BillingServiceI interface {
	VerifySignature(body []byte, signature string) bool
	HandleEvent(ctx context.Context, event *schemas.WebhookEvent) error
	GetSubscription(ctx context.Context, userID string) (*schemas.SubscriptionResponse, error)
	DowngradeExpired(ctx context.Context, now time.Time) (int, error)
}

// BillingService processes payment gateway webhooks and keeps the user's plan
// in sync with the subscription state.
type BillingService struct {
	secret                 []byte
	userRepository         repositories.UserRepository
	subscriptionRepository repositories.SubscriptionRepository
	notifications          NotificationServiceI
}

func NewBillingService(cfg *config.Config,
	userRepository repositories.UserRepository,
	subscriptionRepository repositories.SubscriptionRepository,
	notifications NotificationServiceI) *BillingService {
	return &BillingService{
		secret:                 []byte(cfg.Billing.WebhookSecret),
		userRepository:         userRepository,
		subscriptionRepository: subscriptionRepository,
		notifications:          notifications,
	}
}

// VerifySignature checks the gateway's HMAC-SHA256 signature over the raw
// request body using a constant-time compare.
func (s *BillingService) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleEvent applies one webhook event. Duplicate event ids are a no-op.
func (s *BillingService) HandleEvent(ctx context.Context, event *schemas.WebhookEvent) error {
	user, err := s.userRepository.GetByBrokerUserID(ctx, event.Data.BrokerUserID)
	if err != nil {
		return utils.NotFound(fmt.Sprintf("no user for reference_id %q", event.Data.BrokerUserID))
	}

	amount, err := decimal.NewFromString(event.Data.Amount)
	if err != nil {
		amount = decimal.Zero
	}

	sub := &models.Subscription{
		UserID:                user.ID,
		GatewaySubscriptionID: event.Data.SubscriptionID,
		Amount:                amount,
		Currency:              event.Data.Currency,
		CurrentPeriodEnd:      time.Unix(event.Data.PeriodEnd, 0).UTC(),
		LastEventID:           event.ID,
	}

	var plan, notificationKind string
	switch event.Type {
	case schemas.EventSubscriptionActivated:
		sub.Plan = models.PlanPro
		sub.Status = models.SubscriptionActive
		plan = models.PlanPro
		notificationKind = models.NotificationPlanActivated
	case schemas.EventPaymentFailed:
		sub.Plan = models.PlanPro
		sub.Status = models.SubscriptionPastDue
		notificationKind = models.NotificationPaymentFailed
	case schemas.EventSubscriptionCancelled:
		sub.Plan = models.PlanFree
		sub.Status = models.SubscriptionCancelled
		// the paid plan survives until the period the user already paid for
		// runs out; the worker sweep handles the deferred downgrade
		if !sub.CurrentPeriodEnd.After(time.Now().UTC()) {
			plan = models.PlanFree
		}
	default:
		return utils.InvalidArgument(fmt.Sprintf("unknown event type %q", event.Type))
	}

	err = s.subscriptionRepository.UpsertFromEvent(ctx, sub)
	if errors.Is(err, repositories.ErrDuplicateEvent) {
		return nil
	}
	if err != nil {
		return err
	}

	if plan != "" {
		if err := s.userRepository.UpdatePlan(ctx, user.ID, plan); err != nil {
			return err
		}
	}

	if notificationKind != "" {
		payload, _ := json.Marshal(map[string]string{
			"subscription_id": event.Data.SubscriptionID,
			"status":          sub.Status,
		})
		// Best effort; a webhook must not fail because the bus is down.
		_ = s.notifications.Publish(ctx, &schemas.NotificationEvent{
			UserID:  user.ID,
			Kind:    notificationKind,
			Payload: payload,
		})
	}
	return nil
}

// DowngradeExpired moves users whose cancelled subscription period has run
// out back to the free plan. Returns how many users were downgraded.
func (s *BillingService) DowngradeExpired(ctx context.Context, now time.Time) (int, error) {
	userIDs, err := s.subscriptionRepository.ListDueForDowngrade(ctx, now)
	if err != nil {
		return 0, err
	}
	downgraded := 0
	for _, id := range userIDs {
		if err := s.userRepository.UpdatePlan(ctx, id, models.PlanFree); err != nil {
			return downgraded, err
		}
		downgraded++
	}
	return downgraded, nil
}

func (s *BillingService) GetSubscription(ctx context.Context, userID string) (*schemas.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepository.GetByUser(ctx, userID)
	if err != nil {
		return nil, utils.NotFound("no subscription for user")
	}
	return &schemas.SubscriptionResponse{
		Plan:             sub.Plan,
		Status:           sub.Status,
		Amount:           sub.Amount.StringFixed(2),
		Currency:         sub.Currency,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}
