package goal

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/month"
)

const DefaultCount = 50

var DefaultRevenue = decimal.NewFromInt(10000)

var (
	ErrNotFound       = errors.New("goal not found")
	ErrInvalidRevenue = errors.New("revenue goal must not be negative")
	ErrInvalidCount   = errors.New("count goal must not be negative")
)

// MonthGoal is the revenue and sales-count target of one calendar month.
// The month key doubles as its primary key.
type MonthGoal struct {
	ID      month.Key
	Revenue decimal.Decimal
	Count   int
}

// Default synthesizes the goal used for months nobody configured yet. It is never persisted.
func Default(m month.Key) MonthGoal {
	return MonthGoal{
		ID:      m,
		Revenue: DefaultRevenue,
		Count:   DefaultCount,
	}
}
