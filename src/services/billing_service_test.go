package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"kitemate/src/config"
	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newBillingFixture() (*services.BillingService, *fakeUserRepo, *fakeSubscriptionRepo, *fakeNotifications) {
	cfg := &config.Config{}
	cfg.Billing.WebhookSecret = "test-secret"
	userRepo := &fakeUserRepo{users: map[string]*models.User{
		"AB1234": {ID: "user-1", BrokerUserID: "AB1234", Plan: models.PlanFree},
	}}
	subRepo := &fakeSubscriptionRepo{}
	notifications := &fakeNotifications{}
	service := services.NewBillingService(cfg, userRepo, subRepo, notifications)
	return service, userRepo, subRepo, notifications
}

func activationEvent(id string) *schemas.WebhookEvent {
	event := &schemas.WebhookEvent{ID: id, Type: schemas.EventSubscriptionActivated}
	event.Data.SubscriptionID = "sub-1"
	event.Data.BrokerUserID = "AB1234"
	event.Data.Plan = "pro"
	event.Data.Amount = "499.00"
	event.Data.Currency = "INR"
	event.Data.PeriodEnd = 1767225600
	return event
}

func TestVerifySignature(t *testing.T) {
	service, _, _, _ := newBillingFixture()
	body := []byte(`{"id":"evt-1"}`)

	assert.True(t, service.VerifySignature(body, sign("test-secret", body)))
	assert.False(t, service.VerifySignature(body, sign("wrong-secret", body)))
	assert.False(t, service.VerifySignature(body, "not-a-signature"))
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("activation upgrades the plan", func(t *testing.T) {
		service, userRepo, subRepo, notifications := newBillingFixture()

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))

		assert.Equal(t, models.PlanPro, userRepo.plans["user-1"])
		require.NotNil(t, subRepo.subscriptions["user-1"])
		assert.Equal(t, models.SubscriptionActive, subRepo.subscriptions["user-1"].Status)
		require.Len(t, notifications.published, 1)
		assert.Equal(t, models.NotificationPlanActivated, notifications.published[0].Kind)
	})

	t.Run("duplicate event id is a no-op", func(t *testing.T) {
		service, userRepo, _, notifications := newBillingFixture()

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))
		userRepo.plans = nil
		notifications.published = nil

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))
		assert.Empty(t, userRepo.plans)
		assert.Empty(t, notifications.published)
	})

	t.Run("cancellation past the period end downgrades immediately", func(t *testing.T) {
		service, userRepo, subRepo, _ := newBillingFixture()

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))

		cancel := activationEvent("evt-2")
		cancel.Type = schemas.EventSubscriptionCancelled
		cancel.Data.PeriodEnd = time.Now().UTC().Add(-time.Hour).Unix()
		require.NoError(t, service.HandleEvent(ctx, cancel))

		assert.Equal(t, models.PlanFree, userRepo.plans["user-1"])
		assert.Equal(t, models.SubscriptionCancelled, subRepo.subscriptions["user-1"].Status)
	})

	t.Run("cancellation mid-period keeps pro until the period ends", func(t *testing.T) {
		service, userRepo, subRepo, _ := newBillingFixture()

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))

		periodEnd := time.Now().UTC().Add(30 * 24 * time.Hour)
		cancel := activationEvent("evt-2")
		cancel.Type = schemas.EventSubscriptionCancelled
		cancel.Data.PeriodEnd = periodEnd.Unix()
		require.NoError(t, service.HandleEvent(ctx, cancel))

		assert.Equal(t, models.PlanPro, userRepo.plans["user-1"], "pro must survive the paid period")
		assert.Equal(t, models.SubscriptionCancelled, subRepo.subscriptions["user-1"].Status)

		downgraded, err := service.DowngradeExpired(ctx, periodEnd.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, downgraded)
		assert.Equal(t, models.PlanFree, userRepo.plans["user-1"])
	})

	t.Run("replayed old event after newer events is a no-op", func(t *testing.T) {
		service, userRepo, subRepo, notifications := newBillingFixture()

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))
		cancel := activationEvent("evt-2")
		cancel.Type = schemas.EventSubscriptionCancelled
		cancel.Data.PeriodEnd = time.Now().UTC().Add(-time.Hour).Unix()
		require.NoError(t, service.HandleEvent(ctx, cancel))
		require.Equal(t, models.PlanFree, userRepo.plans["user-1"])

		require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))

		assert.Equal(t, models.PlanFree, userRepo.plans["user-1"], "a replayed activation must not re-upgrade")
		assert.Equal(t, models.SubscriptionCancelled, subRepo.subscriptions["user-1"].Status)
		assert.Equal(t, "evt-2", subRepo.subscriptions["user-1"].LastEventID)
		assert.Len(t, notifications.published, 1)
	})

	t.Run("payment failure keeps the plan but flags the subscription", func(t *testing.T) {
		service, userRepo, subRepo, notifications := newBillingFixture()

		failed := activationEvent("evt-3")
		failed.Type = schemas.EventPaymentFailed
		require.NoError(t, service.HandleEvent(ctx, failed))

		assert.Empty(t, userRepo.plans, "payment failure must not change the plan")
		assert.Equal(t, models.SubscriptionPastDue, subRepo.subscriptions["user-1"].Status)
		require.Len(t, notifications.published, 1)
		assert.Equal(t, models.NotificationPaymentFailed, notifications.published[0].Kind)
	})

	t.Run("unknown reference id", func(t *testing.T) {
		service, _, _, _ := newBillingFixture()

		event := activationEvent("evt-4")
		event.Data.BrokerUserID = "ZZ9999"
		assert.Error(t, service.HandleEvent(ctx, event))
	})

	t.Run("unknown event type", func(t *testing.T) {
		service, _, _, _ := newBillingFixture()

		event := activationEvent("evt-5")
		event.Type = "subscription.telepathy"
		assert.Error(t, service.HandleEvent(ctx, event))
	})
}

func TestGetSubscription(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newBillingFixture()

	require.NoError(t, service.HandleEvent(ctx, activationEvent("evt-1")))

	sub, err := service.GetSubscription(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, sub.Plan)
	assert.Equal(t, "499.00", sub.Amount)

	_, err = service.GetSubscription(ctx, "user-2")
	assert.Error(t, err)
}
