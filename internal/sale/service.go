package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	CreateSale(ctx context.Context, s *Sale) error
	CreateSales(ctx context.Context, sales []*Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
	UpdateSale(ctx context.Context, s *Sale) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Status      Status
	Receipt     string
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	Status      *Status
	Receipt     *string
}

// ListFilter bounds the listing by date: StartDate is inclusive, EndDate exclusive.
// Results are ordered newest first.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Sale, error) {
	sale, err := newSale(params, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// CreateBatch validates every row before persisting any of them.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Sale, error) {
	if len(params) == 0 {
		return nil, nil
	}

	now := time.Now()
	sales := make([]*Sale, len(params))

	for i, p := range params {
		sale, err := newSale(p, now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		sales[i] = sale
	}

	if err := s.repo.CreateSales(ctx, sales); err != nil {
		return nil, fmt.Errorf("create sales: %w", err)
	}

	return sales, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil {
		sale.Amount = *params.Amount
	}

	if params.Date != nil {
		sale.Date = *params.Date
	}

	if params.Description != nil {
		sale.Description = normalizeDescription(*params.Description)
	}

	if params.Status != nil {
		sale.Status = *params.Status
	}

	if params.Receipt != nil {
		sale.Receipt = *params.Receipt
	}

	if err := validate(sale); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// SetStatus flips a sale between paid and pending.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Sale, error) {
	return s.Update(ctx, id, UpdateParams{Status: &status})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSale(ctx, id)
}

func newSale(p CreateParams, now time.Time) (*Sale, error) {
	sale := &Sale{
		ID:          uuid.New(),
		Amount:      p.Amount,
		Date:        p.Date,
		Description: normalizeDescription(p.Description),
		Status:      p.Status,
		Receipt:     p.Receipt,
	}

	if sale.Date.IsZero() {
		sale.Date = now
	}

	if sale.Status == "" {
		sale.Status = StatusPaid
	}

	if err := validate(sale); err != nil {
		return nil, err
	}

	return sale, nil
}

func normalizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return DefaultDescription
	}

	return desc
}

func validate(s *Sale) error {
	if s.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	if !s.Status.Valid() {
		return ErrInvalidStatus
	}

	if s.Receipt != "" {
		if _, _, err := DecodeReceipt(s.Receipt); err != nil {
			return err
		}
	}

	return nil
}
