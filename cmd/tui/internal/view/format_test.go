package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pulse/internal/progress"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestPaceLine(t *testing.T) {
	tests := []struct {
		name string
		snap progress.Snapshot
		want string
	}{
		{
			name: "Current month",
			snap: progress.Snapshot{
				Ratios: progress.Ratios{RemainingRevenue: decimal.NewFromInt(3000)},
				Pacing: progress.Pacing{DaysRemaining: 10, IsCurrentMonth: true, DailyPace: decimal.NewFromInt(300)},
			},
			want: "Faltam R$ 3.000,00 · 10 dias · R$ 300,00/dia",
		},
		{
			name: "Past month",
			snap: progress.Snapshot{Ratios: progress.Ratios{RemainingRevenue: decimal.NewFromInt(3000)}},
			want: "Expirado",
		},
		{
			name: "Future month",
			snap: progress.Snapshot{
				Ratios: progress.Ratios{RemainingRevenue: decimal.NewFromInt(10000)},
				Pacing: progress.Pacing{DaysRemaining: 45},
			},
			want: "Faltam R$ 10.000,00 · 45 dias até o fim do mês",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paceLine(tt.snap))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("05/03/2025 14:30", brt)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 5, 14, 30, 0, 0, brt).Equal(got))

	got, err = parseDate("05/03/2025", brt)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 5, 0, 0, 0, 0, brt).Equal(got))

	got, err = parseDate("  ", brt)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseDate("2025-03-05", brt)
	assert.Error(t, err)
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateAmount("1.250,00"))
	assert.NoError(t, validateAmount("90"))
	assert.Error(t, validateAmount("-5"))
	assert.Error(t, validateAmount("abc"))

	assert.NoError(t, validateCount("0"))
	assert.NoError(t, validateCount(" 50 "))
	assert.Error(t, validateCount("-1"))
	assert.Error(t, validateCount("1.5"))
}

func TestFormatDate(t *testing.T) {
	instant := time.Date(2025, 4, 1, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "31/03/2025 23:00", FormatDate(instant, brt))
	assert.Equal(t, "01/04/2025 02:00", FormatDate(instant, nil))
}
