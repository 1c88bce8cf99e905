package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pulse/internal/money"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "R$ 0,00"},
		{in: "12.5", want: "R$ 12,50"},
		{in: "999.999", want: "R$ 1.000,00"},
		{in: "1234.56", want: "R$ 1.234,56"},
		{in: "10000", want: "R$ 10.000,00"},
		{in: "1234567.8", want: "R$ 1.234.567,80"},
		{in: "-45", want: "-R$ 45,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, money.FormatBRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestParseBRL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "R$ 90", want: "90"},
		{in: "12,5", want: "12.5"},
		{in: "12.50", want: "12.5"},
		{in: "1.500", want: "1500"},
		{in: "10.000", want: "10000"},
		{in: "1.234.567", want: "1234567"},
		{in: "R$ 2.000", want: "2000"},
		{in: "0.500", want: "0.5"},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseBRL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
