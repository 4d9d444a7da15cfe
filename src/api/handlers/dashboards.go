package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kitemate/src/schemas"
	"kitemate/src/utils"
)

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := h.Controller.GetDashboard(ctx, SessionUserID(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, dashboard, http.StatusOK)
}

func (h *Handler) PutDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.UpdateDashboardRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	dashboard, err := h.Controller.UpdateDashboard(ctx, SessionUserID(ctx), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, dashboard, http.StatusOK)
}
