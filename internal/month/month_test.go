package month_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pulse/internal/month"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Valid", input: "2025-03"},
		{name: "December", input: "2025-12"},
		{name: "Unpadded month", input: "2025-3", wantErr: true},
		{name: "Month out of range", input: "2025-13", wantErr: true},
		{name: "Full date", input: "2025-03-01", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := month.Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, month.ErrInvalidKey)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, month.Key(tt.input), got)
		})
	}
}

func TestOf_UsesLocalCalendar(t *testing.T) {
	// 02:00 UTC on April 1st is still March 31st in Brasília.
	instant := time.Date(2025, 4, 1, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, month.Key("2025-03"), month.Of(instant, brt))
	assert.Equal(t, month.Key("2025-04"), month.Of(instant, time.UTC))
}

func TestKey_End(t *testing.T) {
	tests := []struct {
		key  month.Key
		want time.Time
	}{
		{key: "2025-02", want: time.Date(2025, 2, 28, 23, 59, 59, 999_000_000, brt)},
		{key: "2024-02", want: time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, brt)},
		{key: "2025-12", want: time.Date(2025, 12, 31, 23, 59, 59, 999_000_000, brt)},
		{key: "2025-04", want: time.Date(2025, 4, 30, 23, 59, 59, 999_000_000, brt)},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.key.End(brt)), "got %s", tt.key.End(brt))
		})
	}
}

func TestKey_Start(t *testing.T) {
	got := month.Key("2025-06").Start(brt)
	assert.True(t, time.Date(2025, 6, 1, 0, 0, 0, 0, brt).Equal(got))
}

func TestKey_Add(t *testing.T) {
	assert.Equal(t, month.Key("2025-01"), month.Key("2024-12").Add(1))
	assert.Equal(t, month.Key("2024-12"), month.Key("2025-01").Add(-1))
	assert.Equal(t, month.Key("2025-03"), month.Key("2025-03").Add(0))
	assert.Equal(t, month.Key("2026-03"), month.Key("2025-03").Add(12))
}

func TestKey_Label(t *testing.T) {
	assert.Equal(t, "março de 2025", month.Key("2025-03").Label())
	assert.Equal(t, "dezembro de 2024", month.Key("2024-12").Label())
}
