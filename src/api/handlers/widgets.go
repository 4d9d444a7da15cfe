package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateWidget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.CreateWidgetRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	widget, err := h.Controller.CreateWidget(ctx, SessionUserID(ctx), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, widget, http.StatusCreated)
}

// GetAllWidgets lists the caller's widgets, or the public gallery with
// ?public=true.
func (h *Handler) GetAllWidgets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	publicOnly := r.URL.Query().Get("public") == "true"
	widgets, err := h.Controller.ListWidgets(ctx, SessionUserID(ctx), publicOnly)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, widgets, http.StatusOK)
}

func (h *Handler) GetWidgetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	widget, err := h.Controller.GetWidget(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, widget, http.StatusOK)
}

func (h *Handler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.UpdateWidgetRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	widget, err := h.Controller.UpdateWidget(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, widget, http.StatusOK)
}

func (h *Handler) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.DeleteWidget(ctx, SessionUserID(ctx), chi.URLParam(r, "id")); err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ForkWidget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.ForkWidgetRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	widget, err := h.Controller.ForkWidget(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, widget, http.StatusCreated)
}

func (h *Handler) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	data, err := h.Controller.GetWidgetData(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, data, http.StatusOK)
}

// GetWidgetPreview serves a self-contained HTML chart for embedding.
func (h *Handler) GetWidgetPreview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := h.Controller.GetWidgetPreview(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
