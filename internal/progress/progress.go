// Package progress derives every figure the dashboard shows from the raw sales, goals and calls.
//
// All functions are pure: they never mutate their inputs, perform no I/O and keep no state,
// so they are recomputed on every read. Month membership is derived from each record's date
// in the supplied location, which lets an edited sale move between months without any
// invalidation step.
package progress

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Input is everything the engine needs. Location defines the calendar used for month and day
// boundaries; nil means UTC.
type Input struct {
	Sales    []*sale.Sale
	Goals    []*goal.MonthGoal
	Calls    []*call.Call
	Month    month.Key
	Now      time.Time
	Location *time.Location
}

// Totals aggregates the sales of one month.
type Totals struct {
	TotalRevenue   decimal.Decimal // paid sales only
	PendingRevenue decimal.Decimal
	TotalCount     int // pending included
	AverageTicket  decimal.Decimal
}

// Ratios compares totals against the goal. Percentages are not capped at 100.
type Ratios struct {
	RevenueProgress  float64
	CountProgress    float64
	RemainingRevenue decimal.Decimal
	RemainingCount   int
}

// Pacing projects what is still needed per day until the end of the month.
type Pacing struct {
	EndOfMonth     time.Time
	DaysRemaining  int
	IsCurrentMonth bool
	DailyPace      decimal.Decimal
}

// Conversion relates the month's sales to the calls logged in the same month.
type Conversion struct {
	Calls int
	Rate  float64
}

type Snapshot struct {
	Month month.Key
	Goal  goal.MonthGoal
	Sales []*sale.Sale

	Totals
	Ratios
	Pacing
	Conversion

	Chart []Bucket
}

// Compute derives the full snapshot for in.Month.
func Compute(in Input) Snapshot {
	loc := location(in.Location)

	g := ResolveGoal(in.Goals, in.Month)
	sales := FilterByMonth(in.Sales, in.Month, loc)
	totals := Aggregate(sales)
	ratios := Compare(totals, g)

	return Snapshot{
		Month:      in.Month,
		Goal:       g,
		Sales:      sales,
		Totals:     totals,
		Ratios:     ratios,
		Pacing:     Pace(in.Month, ratios.RemainingRevenue, in.Now, loc),
		Conversion: Convert(totals.TotalCount, FilterCallsByMonth(in.Calls, in.Month, loc)),
		Chart:      Chart(sales, loc),
	}
}

// ResolveGoal returns the goal saved for m, or the default goal when there is none.
func ResolveGoal(goals []*goal.MonthGoal, m month.Key) goal.MonthGoal {
	for _, g := range goals {
		if g != nil && g.ID == m {
			return *g
		}
	}

	return goal.Default(m)
}

// FilterByMonth keeps the sales whose local year-month is m, preserving input order.
func FilterByMonth(sales []*sale.Sale, m month.Key, loc *time.Location) []*sale.Sale {
	loc = location(loc)

	var out []*sale.Sale

	for _, s := range sales {
		if month.Of(s.Date, loc) == m {
			out = append(out, s)
		}
	}

	return out
}

// FilterCallsByMonth keeps the calls whose local year-month is m.
func FilterCallsByMonth(calls []*call.Call, m month.Key, loc *time.Location) []*call.Call {
	loc = location(loc)

	var out []*call.Call

	for _, c := range calls {
		if month.Of(c.Date, loc) == m {
			out = append(out, c)
		}
	}

	return out
}

// Aggregate sums revenue and counts over sales. The average ticket includes pending sales
// even though the realized revenue does not.
func Aggregate(sales []*sale.Sale) Totals {
	t := Totals{
		TotalRevenue:   decimal.Zero,
		PendingRevenue: decimal.Zero,
		AverageTicket:  decimal.Zero,
	}

	gross := decimal.Zero

	for _, s := range sales {
		if s.IsPending() {
			t.PendingRevenue = t.PendingRevenue.Add(s.Amount)
		} else {
			t.TotalRevenue = t.TotalRevenue.Add(s.Amount)
		}

		gross = gross.Add(s.Amount)
		t.TotalCount++
	}

	if t.TotalCount > 0 {
		t.AverageTicket = gross.Div(decimal.NewFromInt(int64(t.TotalCount)))
	}

	return t
}

// Compare computes progress ratios and remaining amounts. Goal denominators are floored
// to 1 so a zero goal never divides by zero.
func Compare(t Totals, g goal.MonthGoal) Ratios {
	revenueGoal := decimal.Max(g.Revenue, one)
	countGoal := max(g.Count, 1)

	return Ratios{
		RevenueProgress:  t.TotalRevenue.Div(revenueGoal).Mul(hundred).InexactFloat64(),
		CountProgress:    float64(t.TotalCount) / float64(countGoal) * 100,
		RemainingRevenue: decimal.Max(decimal.Zero, g.Revenue.Sub(t.TotalRevenue)),
		RemainingCount:   max(0, g.Count-t.TotalCount),
	}
}

// Pace computes the deadline of m and, when m is the month now falls in, the revenue needed
// per remaining day. Past and future months always get a zero pace.
func Pace(m month.Key, remaining decimal.Decimal, now time.Time, loc *time.Location) Pacing {
	loc = location(loc)
	end := m.End(loc)

	p := Pacing{
		EndOfMonth:     end,
		DaysRemaining:  DaysUntil(end, now),
		IsCurrentMonth: month.Of(now, loc) == m,
		DailyPace:      decimal.Zero,
	}

	p.DailyPace = DailyPace(remaining, p.DaysRemaining, p.IsCurrentMonth)

	return p
}

// DaysUntil counts the started days between now and deadline, never negative.
func DaysUntil(deadline, now time.Time) int {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return 0
	}

	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}

	return days
}

// DailyPace spreads remaining over days for the live month only.
func DailyPace(remaining decimal.Decimal, days int, isCurrentMonth bool) decimal.Decimal {
	if !isCurrentMonth || days <= 0 {
		return decimal.Zero
	}

	return remaining.Div(decimal.NewFromInt(int64(days)))
}

// Convert returns the sales-per-call rate in percent; zero without calls.
func Convert(salesCount int, calls []*call.Call) Conversion {
	c := Conversion{Calls: len(calls)}
	if c.Calls > 0 {
		c.Rate = float64(salesCount) / float64(c.Calls) * 100
	}

	return c
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}

	return loc
}
