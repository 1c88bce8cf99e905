package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount as Brazilian Real.
func FormatAmount(d decimal.Decimal) string {
	return money.FormatBRL(d)
}

// FormatDate formats a time.Time into dd/mm/yyyy hh:mm in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format("02/01/2006 15:04")
}

func statusLabel(s sale.Status) string {
	if s == sale.StatusPending {
		return "Pendente"
	}

	return "Pago"
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}
