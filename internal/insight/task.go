package insight

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSettled Status = "settled"
)

// State is a snapshot of a Task. Callers receive copies and may keep them.
type State struct {
	Status    Status     `json:"status"`
	Month     month.Key  `json:"month,omitempty"`
	Insights  []Insight  `json:"insights"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Task runs insight generation in the background so callers never wait on the model.
type Task struct {
	gen     Generator
	timeout time.Duration
	now     func() time.Time

	mu    sync.Mutex
	state State
	done  chan struct{}
}

func NewTask(gen Generator, timeout time.Duration) *Task {
	return &Task{
		gen:     gen,
		timeout: timeout,
		now:     time.Now,
		state:   State{Status: StatusIdle},
	}
}

// Start launches generation for m unless a run is already in flight.
// The returned channel is closed once the current run settles.
func (t *Task) Start(m month.Key, sales []*sale.Sale, g goal.MonthGoal) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status == StatusLoading {
		return t.done
	}

	done := make(chan struct{})
	t.done = done
	t.state = State{Status: StatusLoading, Month: m}

	go t.run(done, m, slices.Clone(sales), g)

	return done
}

func (t *Task) run(done chan struct{}, m month.Key, sales []*sale.Sale, g goal.MonthGoal) {
	defer close(done)

	ctx := context.Background()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	insights := t.gen.Generate(ctx, sales, g)
	settledAt := t.now()

	t.mu.Lock()
	t.state = State{
		Status:    StatusSettled,
		Month:     m,
		Insights:  insights,
		SettledAt: &settledAt,
	}
	t.mu.Unlock()
}

func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.state
	s.Insights = slices.Clone(t.state.Insights)

	return s
}
