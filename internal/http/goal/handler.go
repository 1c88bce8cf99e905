package goal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{month}", h.get)
	r.Put("/{month}", h.save)
}

type goalResponse struct {
	Month     month.Key       `json:"month"`
	Revenue   decimal.Decimal `json:"revenue"`
	Count     int             `json:"count"`
	Persisted bool            `json:"persisted"`
}

func toResponse(g goal.MonthGoal, persisted bool) goalResponse {
	return goalResponse{
		Month:     g.ID,
		Revenue:   g.Revenue,
		Count:     g.Count,
		Persisted: persisted,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(*g, true)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// get always answers with a goal: the saved one or the default for that month.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := month.Parse(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, persisted, err := h.svc.Get(r.Context(), m)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(g, persisted)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type saveGoalRequest struct {
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	m, err := month.Parse(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req saveGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Save(r.Context(), goal.SaveParams{
		Month:   m,
		Revenue: req.Revenue,
		Count:   req.Count,
	})
	if err != nil {
		if errors.Is(err, goal.ErrInvalidRevenue) || errors.Is(err, goal.ErrInvalidCount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to save goal", "error", err, "month", m)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(*g, true)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
