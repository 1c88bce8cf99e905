package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/insight"
	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
)

const recentSales = 5

type dashboardState int

const (
	dashboardStateBrowse dashboardState = iota
	dashboardStateGoal
)

type goalFields struct {
	Revenue string
	Count   string
}

type DashboardModel struct {
	CommonModel
	dashboard *dashboard.Service
	goals     *goal.Service
	calls     *call.Service
	insights  *insight.Task

	state   dashboardState
	month   month.Key
	snap    progress.Snapshot
	loading bool
	status  string

	bar    bar.Model
	form   *huh.Form
	fields *goalFields

	insightState insight.State
}

func NewDashboardModel(
	svc *dashboard.Service,
	goals *goal.Service,
	calls *call.Service,
	task *insight.Task,
	m month.Key,
) DashboardModel {
	return DashboardModel{
		dashboard:    svc,
		goals:        goals,
		calls:        calls,
		insights:     task,
		month:        m,
		loading:      true,
		bar:          bar.New(bar.WithDefaultGradient(), bar.WithWidth(50)),
		insightState: task.State(),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateGoal {
		return "Navigate form | Esc: cancel"
	}

	return "←/→: month | g: goal | c: log call | i: insights | r: refresh | Esc: back"
}

// Month is the month currently on screen.
func (m DashboardModel) Month() month.Key { return m.month }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.month != m.month {
			return m, nil
		}

		m.loading = false
		m.snap = msg.snap

		return m, nil

	case goalSavedMsg:
		m.state = dashboardStateBrowse
		m.form = nil
		m.fields = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving goal: %v", msg.err)
			return m, nil
		}

		m.status = "Meta salva."

		return m, m.loadCmd()

	case callLoggedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error logging call: %v", msg.err)
			return m, nil
		}

		m.status = "Ligação registrada."

		return m, m.loadCmd()

	case insightsSettledMsg:
		m.insightState = m.insights.State()
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.bar.Width = min(max(msg.Width-20, 20), 80)

		return m, nil
	}

	if m.state == dashboardStateGoal {
		return m.updateGoal(msg)
	}

	return m.updateBrowse(msg)
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		return m.switchMonth(-1)
	case "right", "l":
		return m.switchMonth(1)
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "c":
		return m, m.logCallCmd()
	case "g":
		return m.enterGoalMode()
	case "i":
		if m.loading {
			return m, nil
		}

		done := m.insights.Start(m.month, m.snap.Sales, m.snap.Goal)
		m.insightState = m.insights.State()

		return m, waitInsightsCmd(done)
	}

	return m, nil
}

func (m DashboardModel) switchMonth(delta int) (tea.Model, tea.Cmd) {
	m.month = m.month.Add(delta)
	m.loading = true
	m.status = ""

	return m, tea.Batch(m.loadCmd(), changeMonth(m.month))
}

// enterGoalMode builds a fresh form from the goal resolved for the month on screen.
func (m DashboardModel) enterGoalMode() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	m.fields = &goalFields{
		Revenue: m.snap.Goal.Revenue.StringFixed(2),
		Count:   strconv.Itoa(m.snap.Goal.Count),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("revenue").
				Title("Meta de faturamento (R$)").
				Value(&m.fields.Revenue).
				Validate(validateAmount),

			huh.NewInput().
				Key("count").
				Title("Meta de vendas").
				Value(&m.fields.Count).
				Validate(validateCount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dashboardStateGoal

	return m, m.form.Init()
}

func (m DashboardModel) updateGoal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dashboardStateBrowse
			m.form = nil
			m.fields = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveGoalCmd()
}

func (m DashboardModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Pulse · " + activeStyle(m.month.Label()))

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading...")
	}

	s := m.snap

	hero := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s de %s (%.1f%%)", money.FormatBRL(s.TotalRevenue), money.FormatBRL(s.Goal.Revenue), s.RevenueProgress),
		m.bar.ViewAs(min(s.RevenueProgress/100, 1)),
		lipgloss.NewStyle().Faint(true).Render(paceLine(s)),
	)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Vendas", fmt.Sprintf("%d / %d", s.TotalCount, s.Goal.Count), fmt.Sprintf("%.1f%%", s.CountProgress)),
		card("Pendente", money.FormatBRL(s.PendingRevenue), ""),
		card("Ticket médio", money.FormatBRL(s.AverageTicket), ""),
		card("Ligações", strconv.Itoa(s.Calls), fmt.Sprintf("conversão %.1f%%", s.Rate)),
	)

	trend := fmt.Sprintf("Tendência  %s", activeStyle(Sparkline(s.Chart)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		hero,
		"",
		cards,
		"",
		trend,
		"",
		m.recentView(),
		"",
		m.insightsView(),
	)

	if m.state == dashboardStateGoal && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Meta de %s\n\n%s", m.month.Label(), m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DashboardModel) recentView() string {
	recent := dashboard.Recent(m.snap.Sales, recentSales)
	if len(recent) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("Nenhuma venda neste mês.")
	}

	loc := m.dashboard.Location()

	lines := make([]string, 0, len(recent)+1)
	lines = append(lines, "Últimas vendas")

	for _, sl := range recent {
		lines = append(lines, fmt.Sprintf("  %s  %-12s  %-9s %s",
			FormatDate(sl.Date, loc), FormatAmount(sl.Amount), statusLabel(sl.Status), sl.Description))
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) insightsView() string {
	st := m.insightState

	switch st.Status {
	case insight.StatusLoading:
		return "Insights: analisando..."
	case insight.StatusSettled:
		lines := []string{fmt.Sprintf("Insights (%s)", st.Month.Label())}
		for _, in := range st.Insights {
			lines = append(lines, insightStyle(in.Type).Render("● "+in.Title)+"  "+in.Message)
		}

		return strings.Join(lines, "\n")
	}

	return lipgloss.NewStyle().Faint(true).Render("Insights: pressione i para analisar o mês.")
}

func paceLine(s progress.Snapshot) string {
	if s.DaysRemaining == 0 {
		return "Expirado"
	}

	if !s.IsCurrentMonth {
		return fmt.Sprintf("Faltam %s · %d dias até o fim do mês", money.FormatBRL(s.RemainingRevenue), s.DaysRemaining)
	}

	return fmt.Sprintf("Faltam %s · %d dias · %s/dia",
		money.FormatBRL(s.RemainingRevenue), s.DaysRemaining, money.FormatBRL(s.DailyPace))
}

func card(title, value, note string) string {
	body := lipgloss.NewStyle().Faint(true).Render(title) + "\n" + lipgloss.NewStyle().Bold(true).Render(value)
	if note != "" {
		body += "\n" + lipgloss.NewStyle().Faint(true).Render(note)
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(22).
		Render(body)
}

func insightStyle(t insight.Type) lipgloss.Style {
	switch t {
	case insight.TypePositive:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	case insight.TypeNegative:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
}

func validateAmount(s string) error {
	d, err := money.ParseBRL(s)
	if err != nil {
		return errors.New("valor inválido")
	}

	if d.IsNegative() {
		return errors.New("valor não pode ser negativo")
	}

	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("informe um número inteiro não negativo")
	}

	return nil
}

// Messages

type dashboardLoadedMsg struct {
	month month.Key
	snap  progress.Snapshot
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc, key := m.dashboard, m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return dashboardLoadedMsg{month: key, snap: svc.Snapshot(ctx, key)}
	}
}

type goalSavedMsg struct {
	err error
}

func (m DashboardModel) saveGoalCmd() tea.Cmd {
	svc, key, fields := m.goals, m.month, *m.fields

	return func() tea.Msg {
		revenue, err := money.ParseBRL(fields.Revenue)
		if err != nil {
			return goalSavedMsg{err: err}
		}

		count, err := strconv.Atoi(strings.TrimSpace(fields.Count))
		if err != nil {
			return goalSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = svc.Save(ctx, goal.SaveParams{Month: key, Revenue: revenue, Count: count})

		return goalSavedMsg{err: err}
	}
}

type callLoggedMsg struct {
	err error
}

func (m DashboardModel) logCallCmd() tea.Cmd {
	svc := m.calls

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := svc.Log(ctx, time.Time{})

		return callLoggedMsg{err: err}
	}
}

type insightsSettledMsg struct{}

func waitInsightsCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return insightsSettledMsg{}
	}
}
