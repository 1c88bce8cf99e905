package progress

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

// PlaceholderLabel names the single zero bucket emitted for a month without sales.
const PlaceholderLabel = "Início"

// Bucket is one point of the daily trend chart.
type Bucket struct {
	Day   time.Time // local midnight; zero for the placeholder
	Label string    // dd/MM
	Value decimal.Decimal
}

// Chart sums amounts per local calendar day, pending sales included, in ascending day order.
func Chart(sales []*sale.Sale, loc *time.Location) []Bucket {
	loc = location(loc)

	if len(sales) == 0 {
		return []Bucket{{Label: PlaceholderLabel, Value: decimal.Zero}}
	}

	byDay := make(map[time.Time]decimal.Decimal)

	for _, s := range sales {
		local := s.Date.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		total, ok := byDay[day]
		if !ok {
			total = decimal.Zero
		}

		byDay[day] = total.Add(s.Amount)
	}

	buckets := make([]Bucket, 0, len(byDay))
	for day, value := range byDay {
		buckets = append(buckets, Bucket{Day: day, Label: day.Format("02/01"), Value: value})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day.Before(buckets[j].Day)
	})

	return buckets
}
