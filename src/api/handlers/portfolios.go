package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/go-chi/chi/v5"
)

const maxImportSize = 5 << 20 // 5 MiB

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.CreatePortfolioRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	portfolio, err := h.Controller.CreatePortfolio(ctx, SessionUserID(ctx), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolio, http.StatusCreated)
}

func (h *Handler) GetAllPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	portfolios, err := h.Controller.ListPortfolios(ctx, SessionUserID(ctx))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolios, http.StatusOK)
}

func (h *Handler) GetPortfolioByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	portfolio, err := h.Controller.GetPortfolio(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolio, http.StatusOK)
}

func (h *Handler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.UpdatePortfolioRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	portfolio, err := h.Controller.UpdatePortfolio(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolio, http.StatusOK)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.DeletePortfolio(ctx, SessionUserID(ctx), chi.URLParam(r, "id")); err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	holdings, err := h.Controller.ListHoldings(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) PutHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req := new(schemas.UpsertHoldingRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("invalid JSON body"))
		return
	}
	// the URL is authoritative for the symbol
	req.Symbol = chi.URLParam(r, "symbol")
	holding, err := h.Controller.UpsertHolding(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, holding, http.StatusOK)
}

func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	exchange := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("exchange")))
	if exchange == "" {
		exchange = "NSE"
	}
	// holdings are stored with normalized symbols, the path segment must match
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	err := h.Controller.DeleteHolding(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), symbol, exchange)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportHoldings ingests a CSV file posted as multipart form data under the
// "file" field.
func (h *Handler) ImportHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.HandleErrors(w, utils.InvalidArgument("expected multipart form data with a file field"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.HandleErrors(w, utils.InvalidArgument("missing file field"))
		return
	}
	defer file.Close()

	result, err := h.Controller.ImportHoldings(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), file)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, result, http.StatusOK)
}

func (h *Handler) ExportPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	format := r.URL.Query().Get("format")
	data, contentType, err := h.Controller.ExportPortfolio(ctx, SessionUserID(ctx), chi.URLParam(r, "id"), format)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if format == "" {
		format = "csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=portfolio-%s.%s", utils.ShortDashDate(time.Now()), format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	allocation, err := h.Controller.GetAllocation(ctx, SessionUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, allocation, http.StatusOK)
}
