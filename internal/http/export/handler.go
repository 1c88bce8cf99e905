package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/export"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
	loc *time.Location
}

func NewHandler(svc *export.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, now: time.Now, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
	r.Post("/summary", h.summary)
}

type itemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Status      sale.Status     `json:"status"`
	ReceiptPath string          `json:"receipt_path,omitempty"`
}

type summaryResponse struct {
	Month     month.Key      `json:"month"`
	Sales     []itemResponse `json:"sales"`
	EmailBody string         `json:"email_body"`
}

func (h *Handler) month(r *http.Request) (month.Key, error) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return month.Of(h.now(), h.loc), nil
	}

	return month.Parse(s)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	m, err := h.month(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.svc.Items(r.Context(), m)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		Month:     m,
		Sales:     make([]itemResponse, 0, len(items)),
		EmailBody: h.svc.Summary(items),
	}

	for _, item := range items {
		resp.Sales = append(resp.Sales, itemResponse{
			ID:          item.Sale.ID,
			Amount:      item.Sale.Amount,
			Date:        item.Sale.Date,
			Description: item.Sale.Description,
			Status:      item.Sale.Status,
			ReceiptPath: item.ReceiptPath,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download buffers the archive so a failure can still be reported with a proper status.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	m, err := h.month(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	if _, err := h.svc.Export(r.Context(), m, &buf); err != nil {
		slog.Error("failed to create zip", "error", err, "month", m)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"vendas_%s.zip\"", m))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}
