package insight

import (
	"context"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

// Type only drives presentation.
type Type string

const (
	TypePositive Type = "positive"
	TypeNeutral  Type = "neutral"
	TypeNegative Type = "negative"
)

// Insight is a short narrative comment about the month's performance. Insights are never persisted.
type Insight struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    Type   `json:"type"`
}

// Generator produces insights for a month's sales against its goal.
// Implementations degrade to a fallback insight instead of returning errors.
type Generator interface {
	Generate(ctx context.Context, sales []*sale.Sale, g goal.MonthGoal) []Insight
}

// MissingKey is returned when no API key is configured.
func MissingKey() []Insight {
	return []Insight{{
		Title:   "API Key Ausente",
		Message: "Configure sua chave de API para receber insights reais.",
		Type:    TypeNeutral,
	}}
}

// Failure is returned when the generation call fails for any reason.
func Failure() []Insight {
	return []Insight{{
		Title:   "Erro na Análise",
		Message: "Não foi possível gerar insights no momento. Tente novamente.",
		Type:    TypeNegative,
	}}
}
