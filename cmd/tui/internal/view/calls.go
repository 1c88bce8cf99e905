package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/progress"
)

type CallsModel struct {
	CommonModel
	callService *call.Service
	loc         *time.Location

	month month.Key
	table table.Model
	calls []*call.Call

	confirm   *huh.Form
	confirmed *bool
	target    *call.Call

	loading bool
	err     error
	status  string
}

func NewCallsModel(svc *call.Service, loc *time.Location, m month.Key) CallsModel {
	return CallsModel{
		callService: svc,
		loc:         loc,
		month:       m,
		table:       newTable([]table.Column{{Title: "#", Width: 5}, {Title: "Data", Width: 17}}),
		loading:     true,
	}
}

func (m CallsModel) Title() string { return "Calls" }

func (m CallsModel) ShortHelp() string {
	if m.confirm != nil {
		return "Confirm | Esc: cancel"
	}

	return "Esc: back | ←/→: month | c: log call | d: delete | r: refresh"
}

func (m CallsModel) Init() tea.Cmd {
	return m.loadCallsCmd()
}

func (m CallsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCallsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.calls = progress.FilterCallsByMonth(msg.calls, m.month, m.loc)
		m.refreshTable()

		return m, nil

	case callChangedMsg:
		m.closeConfirm()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}

		return m, m.loadCallsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left", "right":
			delta := 1
			if keyMsg.String() == "left" {
				delta = -1
			}

			m.month = m.month.Add(delta)
			m.loading = true
			m.status = ""

			return m, tea.Batch(m.loadCallsCmd(), changeMonth(m.month))
		case "r":
			m.loading = true
			return m, m.loadCallsCmd()
		case "c":
			return m, m.logCmd()
		case "d":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.calls) {
				return m, nil
			}

			m.target = m.calls[idx]
			m.confirmed = new(false)
			m.confirm = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Excluir ligação de %s?", FormatDate(m.target.Date, m.loc))).
						Affirmative("Sim").
						Negative("Não").
						Value(m.confirmed),
				),
			).WithWidth(45).WithShowHelp(false)
			m.table.Blur()

			return m, m.confirm.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CallsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeConfirm()
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirmed {
		m.closeConfirm()
		return m, nil
	}

	return m, m.deleteCmd(m.target)
}

func (m *CallsModel) closeConfirm() {
	m.confirm = nil
	m.confirmed = nil
	m.target = nil
	m.table.Focus()
}

func (m CallsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading calls...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Ligações de %s · %d", activeStyle(m.month.Label()), len(m.calls))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.confirm != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.confirm.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CallsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.calls))
	for i, c := range m.calls {
		rows = append(rows, table.Row{fmt.Sprint(len(m.calls) - i), FormatDate(c.Date, m.loc)})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadCallsMsg struct {
	calls []*call.Call
	err   error
}

func (m CallsModel) loadCallsCmd() tea.Cmd {
	svc := m.callService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		calls, err := svc.List(ctx)

		return loadCallsMsg{calls: calls, err: err}
	}
}

type callChangedMsg struct {
	done string
	err  error
}

func (m CallsModel) logCmd() tea.Cmd {
	svc := m.callService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := svc.Log(ctx, time.Time{})

		return callChangedMsg{done: "Ligação registrada.", err: err}
	}
}

func (m CallsModel) deleteCmd(c *call.Call) tea.Cmd {
	svc := m.callService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return callChangedMsg{done: "Ligação excluída.", err: svc.Delete(ctx, c.ID)}
	}
}
