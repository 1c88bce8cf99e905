package dashboard

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

type SaleLister interface {
	List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error)
}

type GoalLister interface {
	List(ctx context.Context) ([]*goal.MonthGoal, error)
}

type CallLister interface {
	List(ctx context.Context) ([]*call.Call, error)
}

// Data holds the three collections as they were read in one Load.
type Data struct {
	Sales []*sale.Sale
	Goals []*goal.MonthGoal
	Calls []*call.Call
}

type Service struct {
	sales SaleLister
	goals GoalLister
	calls CallLister
	loc   *time.Location
	now   func() time.Time
}

func NewService(sales SaleLister, goals GoalLister, calls CallLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		sales: sales,
		goals: goals,
		calls: calls,
		loc:   loc,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for the current month and pacing.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// CurrentMonth is the month the clock falls in, on the configured calendar.
func (s *Service) CurrentMonth() month.Key {
	return month.Of(s.now(), s.loc)
}

// Load reads every collection concurrently. A collection that fails to load is logged
// and replaced by an empty slice so the dashboard still renders.
func (s *Service) Load(ctx context.Context) Data {
	var (
		data Data
		wg   sync.WaitGroup
	)

	wg.Go(func() {
		sales, err := s.sales.List(ctx, sale.ListFilter{})
		if err != nil {
			slog.Error("failed to load sales", "error", err)
			sales = []*sale.Sale{}
		}

		data.Sales = sales
	})

	wg.Go(func() {
		goals, err := s.goals.List(ctx)
		if err != nil {
			slog.Error("failed to load goals", "error", err)
			goals = []*goal.MonthGoal{}
		}

		data.Goals = goals
	})

	wg.Go(func() {
		calls, err := s.calls.List(ctx)
		if err != nil {
			slog.Error("failed to load calls", "error", err)
			calls = []*call.Call{}
		}

		data.Calls = calls
	})

	wg.Wait()

	return data
}

// Compute derives the snapshot of m from already loaded data.
func (s *Service) Compute(data Data, m month.Key) progress.Snapshot {
	return progress.Compute(progress.Input{
		Sales:    data.Sales,
		Goals:    data.Goals,
		Calls:    data.Calls,
		Month:    m,
		Now:      s.now(),
		Location: s.loc,
	})
}

// Snapshot loads fresh data and computes the snapshot of m.
func (s *Service) Snapshot(ctx context.Context, m month.Key) progress.Snapshot {
	return s.Compute(s.Load(ctx), m)
}

// Recent returns up to n sales, newest first. The input is left untouched.
func Recent(sales []*sale.Sale, n int) []*sale.Sale {
	out := slices.Clone(sales)
	slices.SortStableFunc(out, func(a, b *sale.Sale) int {
		return b.Date.Compare(a.Date)
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
