package insight

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

func TestGemini_MissingKey(t *testing.T) {
	got := NewGemini("", "gemini-2.5-flash").Generate(context.Background(), nil, goal.Default("2025-06"))

	require.Len(t, got, 1)
	assert.Equal(t, "API Key Ausente", got[0].Title)
	assert.Equal(t, TypeNeutral, got[0].Type)
}

func TestParseInsights(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Insight
		wantErr bool
	}{
		{
			name:  "Plain JSON",
			input: `[{"title":"Bom ritmo","message":"Continue assim.","type":"positive"}]`,
			want:  []Insight{{Title: "Bom ritmo", Message: "Continue assim.", Type: TypePositive}},
		},
		{
			name:  "Fenced JSON",
			input: "```json\n[{\"title\":\"Ticket\",\"message\":\"Estável.\",\"type\":\"neutral\"}]\n```",
			want:  []Insight{{Title: "Ticket", Message: "Estável.", Type: TypeNeutral}},
		},
		{
			name:  "Unknown type becomes neutral",
			input: `[{"title":"Dica","message":"Ligue mais.","type":"warning"}]`,
			want:  []Insight{{Title: "Dica", Message: "Ligue mais.", Type: TypeNeutral}},
		},
		{
			name:  "Blank entries dropped",
			input: `[{"title":"","message":"","type":"positive"},{"title":"A","message":"B","type":"negative"}]`,
			want:  []Insight{{Title: "A", Message: "B", Type: TypeNegative}},
		},
		{name: "Empty", input: "  ", wantErr: true},
		{name: "Malformed", input: `{"title":`, wantErr: true},
		{name: "Empty array", input: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInsights(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"title":`), genai.Text(`"x"}]`)}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}

	assert.Equal(t, `[{"title":"x"}]`, responseText(resp))
}

func TestBuildPrompt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var sales []*sale.Sale
	for i := range 7 {
		sales = append(sales, &sale.Sale{
			Amount:      decimal.NewFromInt(int64(100 * (i + 1))),
			Date:        base.AddDate(0, 0, i),
			Description: "Venda " + string(rune('A'+i)),
			Status:      sale.StatusPaid,
		})
	}

	sales[0].Status = sale.StatusPending

	prompt := buildPrompt(sales, goal.MonthGoal{ID: "2025-06", Revenue: decimal.NewFromInt(10000), Count: 50})

	assert.Contains(t, prompt, "Faturamento Atual: R$ 2.700,00")
	assert.Contains(t, prompt, "Valores Pendentes: R$ 100,00")
	assert.Contains(t, prompt, "Meta de Faturamento: R$ 10.000,00")
	assert.Contains(t, prompt, "Progresso Faturamento: 27.0%")
	assert.Contains(t, prompt, "Vendas Realizadas: 7")
	assert.Contains(t, prompt, "Ticket Médio: R$ 400,00")

	// Only the five most recent sales are sent.
	assert.Contains(t, prompt, "Venda G")
	assert.Contains(t, prompt, "Venda C")
	assert.NotContains(t, prompt, "Venda B")
	assert.NotContains(t, prompt, "Venda A")

	// The input order is left untouched.
	assert.Equal(t, "Venda A", sales[0].Description)
}
