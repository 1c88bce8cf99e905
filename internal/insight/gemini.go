package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

const recentSalesInPrompt = 5

var errEmptyResponse = errors.New("empty response from model")

// Gemini generates insights with Google's Gemini models.
type Gemini struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Generate(ctx context.Context, sales []*sale.Sale, mg goal.MonthGoal) []Insight {
	if g.apiKey == "" {
		slog.Warn("gemini api key missing, returning placeholder insight")
		return MissingKey()
	}

	insights, err := g.generate(ctx, buildPrompt(sales, mg))
	if err != nil {
		slog.Error("failed to generate insights", "error", err, "month", mg.ID)
		return Failure()
	}

	return insights
}

func (g *Gemini) generate(ctx context.Context, prompt string) ([]Insight, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	return parseInsights(responseText(resp))
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":   {Type: genai.TypeString},
				"message": {Type: genai.TypeString},
				"type": {
					Type: genai.TypeString,
					Enum: []string{string(TypePositive), string(TypeNeutral), string(TypeNegative)},
				},
			},
			Required: []string{"title", "message", "type"},
		},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var sb strings.Builder

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}

		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}

		// Only the first candidate with content is used.
		if sb.Len() > 0 {
			break
		}
	}

	return sb.String()
}

// parseInsights decodes the model's JSON answer. Unknown types are shown as neutral.
func parseInsights(text string) ([]Insight, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, errEmptyResponse
	}

	var insights []Insight
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("decoding insights: %w", err)
	}

	out := insights[:0]

	for _, in := range insights {
		if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Message) == "" {
			continue
		}

		switch in.Type {
		case TypePositive, TypeNeutral, TypeNegative:
		default:
			in.Type = TypeNeutral
		}

		out = append(out, in)
	}

	if len(out) == 0 {
		return nil, errEmptyResponse
	}

	return out, nil
}

type promptSale struct {
	Amount      string `json:"valor"`
	Date        string `json:"data"`
	Description string `json:"descricao"`
	Status      string `json:"status"`
}

func buildPrompt(sales []*sale.Sale, mg goal.MonthGoal) string {
	totals := progress.Aggregate(sales)
	ratios := progress.Compare(totals, mg)

	recent := make([]*sale.Sale, len(sales))
	copy(recent, sales)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})

	if len(recent) > recentSalesInPrompt {
		recent = recent[:recentSalesInPrompt]
	}

	history := make([]promptSale, 0, len(recent))
	for _, s := range recent {
		history = append(history, promptSale{
			Amount:      s.Amount.StringFixed(2),
			Date:        s.Date.Format(time.DateOnly),
			Description: s.Description,
			Status:      string(s.Status),
		})
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		historyJSON = []byte("[]")
	}

	var sb strings.Builder

	sb.WriteString("Atue como um analista de vendas sênior e motivador.\n\n")
	sb.WriteString("Dados Atuais:\n")
	fmt.Fprintf(&sb, "- Faturamento Atual: %s\n", money.FormatBRL(totals.TotalRevenue))
	fmt.Fprintf(&sb, "- Valores Pendentes: %s\n", money.FormatBRL(totals.PendingRevenue))
	fmt.Fprintf(&sb, "- Meta de Faturamento: %s\n", money.FormatBRL(mg.Revenue))
	fmt.Fprintf(&sb, "- Progresso Faturamento: %.1f%%\n", ratios.RevenueProgress)
	fmt.Fprintf(&sb, "- Vendas Realizadas: %d\n", totals.TotalCount)
	fmt.Fprintf(&sb, "- Meta de Quantidade: %d\n", mg.Count)
	fmt.Fprintf(&sb, "- Ticket Médio: %s\n", money.FormatBRL(totals.AverageTicket))
	fmt.Fprintf(&sb, "- Histórico Recente (últimas %d): %s\n\n", recentSalesInPrompt, historyJSON)
	sb.WriteString("Gere 3 insights curtos e acionáveis em formato JSON.\n")
	sb.WriteString("1. Um insight sobre o progresso geral (motivacional ou alerta).\n")
	sb.WriteString("2. Um insight sobre o ticket médio (comparando faturamento/quantidade).\n")
	sb.WriteString("3. Uma sugestão prática para bater a meta.\n\n")
	sb.WriteString("Responda APENAS com o JSON.")

	return sb.String()
}
