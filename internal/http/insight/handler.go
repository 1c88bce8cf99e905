package insight

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/insight"
	"github.com/MrJamesThe3rd/pulse/internal/month"
)

type Handler struct {
	dashboard *dashboard.Service
	task      *insight.Task
}

func NewHandler(dashboard *dashboard.Service, task *insight.Task) *Handler {
	return &Handler{dashboard: dashboard, task: task}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.start)
	r.Get("/", h.state)
}

// start kicks off generation for the month and answers right away with the loading state.
func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	m := h.dashboard.CurrentMonth()

	if s := r.URL.Query().Get("month"); s != "" {
		parsed, err := month.Parse(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m = parsed
	}

	snap := h.dashboard.Snapshot(r.Context(), m)
	h.task.Start(m, snap.Sales, snap.Goal)

	writeState(w, http.StatusAccepted, h.task.State())
}

func (h *Handler) state(w http.ResponseWriter, _ *http.Request) {
	writeState(w, http.StatusOK, h.task.State())
}

func writeState(w http.ResponseWriter, code int, state insight.State) {
	if state.Insights == nil {
		state.Insights = []insight.Insight{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(state); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
