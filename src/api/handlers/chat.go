package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kitemate/src/schemas"
	"kitemate/src/utils"
)

// PostChatWidget generates a widget from a natural-language prompt. The model
// round trip makes this the slowest endpoint, hence the longer timeout.
func (h *Handler) PostChatWidget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	req := new(schemas.ChatWidgetRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	result, err := h.Controller.ChatWidget(ctx, SessionUserID(ctx), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, result, http.StatusCreated)
}

func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.Controller.ListChatHistory(ctx, SessionUserID(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, entries, http.StatusOK)
}
