package progress_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

var brt = time.FixedZone("BRT", -3*60*60)

func newSale(amount int64, date time.Time, status sale.Status) *sale.Sale {
	return &sale.Sale{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(amount),
		Date:   date,
		Status: status,
	}
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestResolveGoal(t *testing.T) {
	saved := &goal.MonthGoal{ID: "2025-03", Revenue: decimal.NewFromInt(5000), Count: 10}

	type testCase struct {
		name  string
		goals []*goal.MonthGoal
		month month.Key
		want  goal.MonthGoal
	}

	tests := []testCase{
		{
			name:  "No goals falls back to default",
			goals: nil,
			month: "2025-03",
			want:  goal.MonthGoal{ID: "2025-03", Revenue: decimal.NewFromInt(10000), Count: 50},
		},
		{
			name:  "Saved goal is returned as is",
			goals: []*goal.MonthGoal{saved},
			month: "2025-03",
			want:  *saved,
		},
		{
			name:  "Goal of another month is ignored",
			goals: []*goal.MonthGoal{saved},
			month: "2025-04",
			want:  goal.MonthGoal{ID: "2025-04", Revenue: decimal.NewFromInt(10000), Count: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.ResolveGoal(tt.goals, tt.month)

			assert.Equal(t, tt.want.ID, got.ID)
			assert.True(t, tt.want.Revenue.Equal(got.Revenue))
			assert.Equal(t, tt.want.Count, got.Count)
		})
	}
}

func TestResolveGoal_DoesNotMutateGoals(t *testing.T) {
	goals := []*goal.MonthGoal{{ID: "2025-03", Revenue: decimal.NewFromInt(5000), Count: 10}}

	_ = progress.ResolveGoal(goals, "2025-04")

	require.Len(t, goals, 1)
	assert.Equal(t, month.Key("2025-03"), goals[0].ID)
}

func TestFilterByMonth_UsesLocalCalendar(t *testing.T) {
	// 01:30 UTC on July 1st is June 30th, 22:30 in Brasília.
	lateJune := newSale(100, time.Date(2025, 7, 1, 1, 30, 0, 0, time.UTC), sale.StatusPaid)
	july := newSale(200, time.Date(2025, 7, 1, 12, 0, 0, 0, brt), sale.StatusPaid)

	got := progress.FilterByMonth([]*sale.Sale{lateJune, july}, "2025-06", brt)

	require.Len(t, got, 1)
	assert.Equal(t, lateJune.ID, got[0].ID)
}

func TestFilterByMonth_PartitionsYear(t *testing.T) {
	var sales []*sale.Sale

	for m := time.January; m <= time.December; m++ {
		sales = append(sales,
			newSale(10, time.Date(2025, m, 1, 0, 0, 0, 0, brt), sale.StatusPaid),
			newSale(20, time.Date(2025, m, 15, 12, 0, 0, 0, brt), sale.StatusPending),
			newSale(30, time.Date(2025, m+1, 1, 0, 0, 0, 0, brt).Add(-time.Millisecond), sale.StatusPaid),
		)
	}

	// Outside the year on both sides.
	sales = append(sales,
		newSale(1, time.Date(2024, 12, 31, 23, 59, 59, 0, brt), sale.StatusPaid),
		newSale(1, time.Date(2026, 1, 1, 0, 0, 0, 0, brt), sale.StatusPaid),
	)

	seen := make(map[uuid.UUID]month.Key)

	for m := time.January; m <= time.December; m++ {
		key := month.Of(time.Date(2025, m, 1, 0, 0, 0, 0, brt), brt)

		for _, s := range progress.FilterByMonth(sales, key, brt) {
			prev, dup := seen[s.ID]
			assert.False(t, dup, "sale %s in both %s and %s", s.ID, prev, key)
			assert.Equal(t, key, month.Of(s.Date, brt))

			seen[s.ID] = key
		}
	}

	assert.Len(t, seen, 36)
}

func TestAggregate(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, brt)

	type testCase struct {
		name          string
		sales         []*sale.Sale
		wantRevenue   int64
		wantPending   int64
		wantCount     int
		wantAvgTicket int64
	}

	tests := []testCase{
		{
			name:          "No sales",
			sales:         nil,
			wantRevenue:   0,
			wantPending:   0,
			wantCount:     0,
			wantAvgTicket: 0,
		},
		{
			name: "Paid and pending",
			sales: []*sale.Sale{
				newSale(300, now, sale.StatusPaid),
				newSale(100, now, sale.StatusPending),
				newSale(200, now, sale.StatusPaid),
			},
			wantRevenue:   500,
			wantPending:   100,
			wantCount:     3,
			wantAvgTicket: 200,
		},
		{
			name:          "Only pending",
			sales:         []*sale.Sale{newSale(400, now, sale.StatusPending)},
			wantRevenue:   0,
			wantPending:   400,
			wantCount:     1,
			wantAvgTicket: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.Aggregate(tt.sales)

			assertDecimal(t, tt.wantRevenue, got.TotalRevenue)
			assertDecimal(t, tt.wantPending, got.PendingRevenue)
			assert.Equal(t, tt.wantCount, got.TotalCount)
			assertDecimal(t, tt.wantAvgTicket, got.AverageTicket)
		})
	}
}

func TestCompare(t *testing.T) {
	type testCase struct {
		name             string
		totals           progress.Totals
		goal             goal.MonthGoal
		wantRevenuePct   float64
		wantCountPct     float64
		wantRemainingRev int64
		wantRemainingCnt int
	}

	tests := []testCase{
		{
			name:             "Halfway",
			totals:           progress.Totals{TotalRevenue: decimal.NewFromInt(5000), TotalCount: 25},
			goal:             goal.MonthGoal{Revenue: decimal.NewFromInt(10000), Count: 50},
			wantRevenuePct:   50,
			wantCountPct:     50,
			wantRemainingRev: 5000,
			wantRemainingCnt: 25,
		},
		{
			name:             "Zero goals floor the denominator",
			totals:           progress.Totals{TotalRevenue: decimal.NewFromInt(500), TotalCount: 3},
			goal:             goal.MonthGoal{Revenue: decimal.Zero, Count: 0},
			wantRevenuePct:   50000,
			wantCountPct:     300,
			wantRemainingRev: 0,
			wantRemainingCnt: 0,
		},
		{
			name:             "Exceeded goal is not capped",
			totals:           progress.Totals{TotalRevenue: decimal.NewFromInt(1500), TotalCount: 12},
			goal:             goal.MonthGoal{Revenue: decimal.NewFromInt(1000), Count: 10},
			wantRevenuePct:   150,
			wantCountPct:     120,
			wantRemainingRev: 0,
			wantRemainingCnt: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.Compare(tt.totals, tt.goal)

			assert.InDelta(t, tt.wantRevenuePct, got.RevenueProgress, 1e-9)
			assert.InDelta(t, tt.wantCountPct, got.CountProgress, 1e-9)
			assertDecimal(t, tt.wantRemainingRev, got.RemainingRevenue)
			assert.Equal(t, tt.wantRemainingCnt, got.RemainingCount)
		})
	}
}

func TestDaysUntil(t *testing.T) {
	end := month.Key("2025-06").End(brt)

	assert.Equal(t, 16, progress.DaysUntil(end, time.Date(2025, 6, 15, 0, 0, 0, 0, brt)))
	assert.Equal(t, 15, progress.DaysUntil(end, time.Date(2025, 6, 16, 0, 0, 0, 0, brt)))
	assert.Equal(t, 1, progress.DaysUntil(end, time.Date(2025, 6, 30, 23, 0, 0, 0, brt)))
	assert.Equal(t, 0, progress.DaysUntil(end, time.Date(2025, 7, 2, 0, 0, 0, 0, brt)))
}

func TestDailyPace(t *testing.T) {
	assertDecimal(t, 100, progress.DailyPace(decimal.NewFromInt(1500), 15, true))
	assertDecimal(t, 0, progress.DailyPace(decimal.NewFromInt(1500), 15, false))
	assertDecimal(t, 0, progress.DailyPace(decimal.NewFromInt(1500), 0, true))
}

func TestPace(t *testing.T) {
	now := time.Date(2025, 6, 16, 0, 0, 0, 0, brt)
	remaining := decimal.NewFromInt(1500)

	t.Run("Current month", func(t *testing.T) {
		got := progress.Pace("2025-06", remaining, now, brt)

		assert.True(t, got.IsCurrentMonth)
		assert.Equal(t, 15, got.DaysRemaining)
		assertDecimal(t, 100, got.DailyPace)
	})

	t.Run("Past month", func(t *testing.T) {
		got := progress.Pace("2025-05", remaining, now, brt)

		assert.False(t, got.IsCurrentMonth)
		assert.Equal(t, 0, got.DaysRemaining)
		assertDecimal(t, 0, got.DailyPace)
	})

	t.Run("Future month", func(t *testing.T) {
		got := progress.Pace("2025-07", remaining, now, brt)

		assert.False(t, got.IsCurrentMonth)
		assert.Positive(t, got.DaysRemaining)
		assertDecimal(t, 0, got.DailyPace)
	})

	t.Run("February deadline", func(t *testing.T) {
		got := progress.Pace("2025-02", remaining, now, brt)

		want := time.Date(2025, 2, 28, 23, 59, 59, 999_000_000, brt)
		assert.True(t, want.Equal(got.EndOfMonth), "got %s", got.EndOfMonth)
	})
}

func TestCompute_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, brt)
	s := newSale(250, now, sale.StatusPaid)

	in := progress.Input{
		Sales:    []*sale.Sale{s},
		Month:    month.Of(now, brt),
		Now:      now,
		Location: brt,
	}

	got := progress.Compute(in)

	assertDecimal(t, 250, got.TotalRevenue)
	assert.Equal(t, 1, got.TotalCount)
	assertDecimal(t, 0, got.PendingRevenue)
	assertDecimal(t, 250, got.AverageTicket)

	s.Status = sale.StatusPending
	got = progress.Compute(in)

	assertDecimal(t, 0, got.TotalRevenue)
	assertDecimal(t, 250, got.PendingRevenue)
	assert.Equal(t, 1, got.TotalCount)
	assertDecimal(t, 250, got.AverageTicket)
}

func TestCompute_CurrentMonthPace(t *testing.T) {
	now := time.Date(2025, 6, 16, 0, 0, 0, 0, brt)

	in := progress.Input{
		Goals:    []*goal.MonthGoal{{ID: "2025-06", Revenue: decimal.NewFromInt(1500), Count: 10}},
		Month:    "2025-06",
		Now:      now,
		Location: brt,
	}

	got := progress.Compute(in)

	assertDecimal(t, 1500, got.RemainingRevenue)
	assert.Equal(t, 15, got.DaysRemaining)
	assertDecimal(t, 100, got.DailyPace)

	in.Month = "2025-05"
	got = progress.Compute(in)

	assertDecimal(t, 10000, got.RemainingRevenue)
	assertDecimal(t, 0, got.DailyPace)
}

func TestCompute_EditedDateMovesSale(t *testing.T) {
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, brt)
	s := newSale(100, now, sale.StatusPaid)

	in := progress.Input{Sales: []*sale.Sale{s}, Month: "2025-06", Now: now, Location: brt}
	assert.Equal(t, 1, progress.Compute(in).TotalCount)

	s.Date = time.Date(2025, 5, 20, 10, 0, 0, 0, brt)
	assert.Equal(t, 0, progress.Compute(in).TotalCount)

	in.Month = "2025-05"
	assert.Equal(t, 1, progress.Compute(in).TotalCount)
}

func TestCompute_Conversion(t *testing.T) {
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, brt)

	in := progress.Input{
		Sales: []*sale.Sale{newSale(100, now, sale.StatusPaid)},
		Calls: []*call.Call{
			{ID: uuid.New(), Date: now},
			{ID: uuid.New(), Date: now.Add(-time.Hour)},
			{ID: uuid.New(), Date: now.AddDate(0, 0, -1)},
			{ID: uuid.New(), Date: now.AddDate(0, 0, -1)},
			{ID: uuid.New(), Date: now.AddDate(0, -1, 0)},
		},
		Month:    "2025-06",
		Now:      now,
		Location: brt,
	}

	got := progress.Compute(in)

	assert.Equal(t, 4, got.Calls)
	assert.InDelta(t, 25.0, got.Rate, 1e-9)

	assert.Zero(t, progress.Convert(3, nil).Rate)
}
