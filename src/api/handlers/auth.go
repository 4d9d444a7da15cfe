package handlers

import (
	"context"
	"net/http"
	"time"
)

// GetLoginURL returns the broker's hosted login page for the OAuth-style flow.
func (h *Handler) GetLoginURL(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.LoginURL(), http.StatusOK)
}

// GetCallback completes the broker login: the broker redirects here with a
// one-time request_token which we exchange for a session.
func (h *Handler) GetCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestToken := r.URL.Query().Get("request_token")
	session, err := h.Controller.HandleCallback(ctx, requestToken)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, session, http.StatusOK)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Controller.GetMe(ctx, SessionUserID(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, user, http.StatusOK)
}
