package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"kitemate/src/schemas"
	"kitemate/src/utils"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// PostBillingWebhook ingests payment gateway events. The signature is checked
// over the raw body before any decoding.
func (h *Handler) PostBillingWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.HandleErrors(w, utils.InvalidArgument("could not read request body"))
		return
	}
	if !h.Controller.VerifyWebhookSignature(body, r.Header.Get("X-Signature")) {
		h.HandleErrors(w, utils.Unauthenticated("invalid webhook signature"))
		return
	}
	event := new(schemas.WebhookEvent)
	if err := json.Unmarshal(body, event); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	if err := h.Controller.HandleWebhookEvent(ctx, event); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subscription, err := h.Controller.GetSubscription(ctx, SessionUserID(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, subscription, http.StatusOK)
}
