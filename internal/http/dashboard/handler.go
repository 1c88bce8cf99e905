package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

const recentSales = 5

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type goalResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

type bucketResponse struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type recentSaleResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Status      sale.Status     `json:"status"`
	HasReceipt  bool            `json:"has_receipt"`
}

type snapshotResponse struct {
	Month            month.Key            `json:"month"`
	Label            string               `json:"label"`
	Goal             goalResponse         `json:"goal"`
	TotalRevenue     decimal.Decimal      `json:"total_revenue"`
	PendingRevenue   decimal.Decimal      `json:"pending_revenue"`
	TotalCount       int                  `json:"total_count"`
	AverageTicket    decimal.Decimal      `json:"average_ticket"`
	RevenueProgress  float64              `json:"revenue_progress"`
	CountProgress    float64              `json:"count_progress"`
	RemainingRevenue decimal.Decimal      `json:"remaining_revenue"`
	RemainingCount   int                  `json:"remaining_count"`
	EndOfMonth       time.Time            `json:"end_of_month"`
	DaysRemaining    int                  `json:"days_remaining"`
	IsCurrentMonth   bool                 `json:"is_current_month"`
	DailyPace        decimal.Decimal      `json:"daily_pace"`
	Calls            int                  `json:"calls"`
	ConversionRate   float64              `json:"conversion_rate"`
	Chart            []bucketResponse     `json:"chart"`
	RecentSales      []recentSaleResponse `json:"recent_sales"`
}

func toResponse(s progress.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Month:            s.Month,
		Label:            s.Month.Label(),
		Goal:             goalResponse{Revenue: s.Goal.Revenue, Count: s.Goal.Count},
		TotalRevenue:     s.TotalRevenue.Round(2),
		PendingRevenue:   s.PendingRevenue.Round(2),
		TotalCount:       s.TotalCount,
		AverageTicket:    s.AverageTicket.Round(2),
		RevenueProgress:  s.RevenueProgress,
		CountProgress:    s.CountProgress,
		RemainingRevenue: s.RemainingRevenue.Round(2),
		RemainingCount:   s.RemainingCount,
		EndOfMonth:       s.EndOfMonth,
		DaysRemaining:    s.DaysRemaining,
		IsCurrentMonth:   s.IsCurrentMonth,
		DailyPace:        s.DailyPace.Round(2),
		Calls:            s.Calls,
		ConversionRate:   s.Rate,
		Chart:            make([]bucketResponse, len(s.Chart)),
	}

	for i, b := range s.Chart {
		resp.Chart[i] = bucketResponse{Label: b.Label, Value: b.Value}
	}

	recent := dashboard.Recent(s.Sales, recentSales)
	resp.RecentSales = make([]recentSaleResponse, len(recent))

	for i, r := range recent {
		resp.RecentSales[i] = recentSaleResponse{
			ID:          r.ID,
			Amount:      r.Amount,
			Date:        r.Date,
			Description: r.Description,
			Status:      r.Status,
			HasReceipt:  r.HasReceipt(),
		}
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m := h.svc.CurrentMonth()

	if s := r.URL.Query().Get("month"); s != "" {
		parsed, err := month.Parse(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m = parsed
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(h.svc.Snapshot(r.Context(), m))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
