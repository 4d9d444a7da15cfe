package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.Controller.ListNotifications(ctx, SessionUserID(ctx), unreadOnly)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, notifications, http.StatusOK)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.MarkNotificationRead(ctx, SessionUserID(ctx), chi.URLParam(r, "id")); err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
