package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/importer"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type saleResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Status      sale.Status     `json:"status"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Sales    []saleResponse `json:"sales"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sales, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrInvalidFile),
			errors.Is(err, sale.ErrInvalidAmount),
			errors.Is(err, sale.ErrInvalidStatus),
			errors.Is(err, sale.ErrInvalidReceipt):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("failed to import sales", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	resp := importResponse{
		Imported: len(sales),
		Sales:    make([]saleResponse, 0, len(sales)),
	}

	for _, s := range sales {
		resp.Sales = append(resp.Sales, saleResponse{
			ID:          s.ID,
			Amount:      s.Amount,
			Date:        s.Date,
			Description: s.Description,
			Status:      s.Status,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
