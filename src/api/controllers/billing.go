package controllers

import (
	"context"

	"kitemate/src/schemas"
	"kitemate/src/utils"
)

func (c *Controller) VerifyWebhookSignature(body []byte, signature string) bool {
	return c.BillingService.VerifySignature(body, signature)
}

func (c *Controller) HandleWebhookEvent(ctx context.Context, event *schemas.WebhookEvent) error {
	if err := c.validateStruct(event); err != nil {
		return utils.InvalidArgument(err.Error())
	}
	return c.BillingService.HandleEvent(ctx, event)
}

func (c *Controller) GetSubscription(ctx context.Context, userID string) (*schemas.SubscriptionResponse, error) {
	return c.BillingService.GetSubscription(ctx, userID)
}
