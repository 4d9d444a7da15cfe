package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kitemate/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) LoadAllRefreshSchedules(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.LoadAllRefreshSchedules(ctx); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, nil, http.StatusOK)
}

func (h *Handler) LoadRefreshScheduleByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.InvalidArgument("schedule id must be numeric"))
		return
	}
	nextRun, err := h.Controller.LoadRefreshScheduleByID(ctx, uint(id))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, map[string]int64{"schedule_id": int64(id), "next_run": nextRun}, http.StatusOK)
}
