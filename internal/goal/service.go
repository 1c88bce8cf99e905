package goal

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/month"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	ListGoals(ctx context.Context) ([]*MonthGoal, error)
	GetGoal(ctx context.Context, id month.Key) (*MonthGoal, error)
	UpsertGoal(ctx context.Context, g *MonthGoal) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SaveParams struct {
	Month   month.Key
	Revenue decimal.Decimal
	Count   int
}

func (s *Service) List(ctx context.Context) ([]*MonthGoal, error) {
	return s.repo.ListGoals(ctx)
}

// Get returns the goal stored for m, or the default when none was saved.
// The boolean reports whether the goal comes from storage.
func (s *Service) Get(ctx context.Context, m month.Key) (MonthGoal, bool, error) {
	g, err := s.repo.GetGoal(ctx, m)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Default(m), false, nil
		}

		return MonthGoal{}, false, err
	}

	return *g, true, nil
}

// Save creates or overwrites the goal of a month.
func (s *Service) Save(ctx context.Context, params SaveParams) (*MonthGoal, error) {
	if _, err := month.Parse(params.Month.String()); err != nil {
		return nil, err
	}

	if params.Revenue.IsNegative() {
		return nil, ErrInvalidRevenue
	}

	if params.Count < 0 {
		return nil, ErrInvalidCount
	}

	g := &MonthGoal{
		ID:      params.Month,
		Revenue: params.Revenue,
		Count:   params.Count,
	}

	if err := s.repo.UpsertGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}
