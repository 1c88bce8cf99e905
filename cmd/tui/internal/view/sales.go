package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

var dateLayouts = []string{"02/01/2006 15:04", "02/01/2006"}

type salesState int

const (
	salesStateBrowse salesState = iota
	salesStateEdit
	salesStateDelete
)

type saleFields struct {
	Amount      string
	Date        string
	Description string
	Status      sale.Status
	Confirmed   bool
}

type SalesModel struct {
	CommonModel
	saleService *sale.Service
	loc         *time.Location

	state   salesState
	month   month.Key
	table   table.Model
	sales   []*sale.Sale
	editing *sale.Sale // nil while adding
	form    *huh.Form
	fields  *saleFields

	loading bool
	err     error
	status  string
}

func NewSalesModel(svc *sale.Service, loc *time.Location, m month.Key) SalesModel {
	columns := []table.Column{
		{Title: "Data", Width: 17},
		{Title: "Status", Width: 10},
		{Title: "Valor", Width: 14},
		{Title: "Descrição", Width: 40},
		{Title: "Comprovante", Width: 12},
	}

	return SalesModel{
		saleService: svc,
		loc:         loc,
		month:       m,
		table:       newTable(columns),
		loading:     true,
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m SalesModel) Title() string { return "Sales" }

func (m SalesModel) ShortHelp() string {
	if m.state != salesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | ←/→: month | a: add | e: edit | p: toggle paid | d: delete | r: refresh"
}

func (m SalesModel) Init() tea.Cmd {
	return m.loadSalesCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalesMsg:
		if msg.month != m.month {
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.sales = msg.sales
		m.refreshTable()

		return m, nil

	case saleSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = msg.done
		}

		m.leaveForm()

		return m, m.loadSalesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case salesStateBrowse:
		return m.updateBrowse(msg)
	case salesStateEdit, salesStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m SalesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left":
			return m.switchMonth(-1)
		case "right":
			return m.switchMonth(1)
		case "r":
			m.loading = true
			return m, m.loadSalesCmd()
		case "a":
			return m.enterEditMode(nil)
		case "e", "enter":
			if sl := m.selected(); sl != nil {
				return m.enterEditMode(sl)
			}

			return m, nil
		case "p":
			if sl := m.selected(); sl != nil {
				return m, m.toggleStatusCmd(sl)
			}

			return m, nil
		case "d":
			if sl := m.selected(); sl != nil {
				return m.enterDeleteMode(sl)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SalesModel) switchMonth(delta int) (tea.Model, tea.Cmd) {
	m.month = m.month.Add(delta)
	m.loading = true
	m.status = ""

	return m, tea.Batch(m.loadSalesCmd(), changeMonth(m.month))
}

func (m SalesModel) selected() *sale.Sale {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sales) {
		return nil
	}

	return m.sales[idx]
}

func (m SalesModel) enterEditMode(sl *sale.Sale) (tea.Model, tea.Cmd) {
	m.editing = sl
	m.fields = &saleFields{Status: sale.StatusPaid}

	if sl != nil {
		m.fields.Amount = sl.Amount.StringFixed(2)
		m.fields.Date = FormatDate(sl.Date, m.loc)
		m.fields.Description = sl.Description
		m.fields.Status = sl.Status
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Valor (R$)").
				Placeholder("1.250,00").
				Value(&m.fields.Amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Data").
				Description("dd/mm/aaaa [hh:mm], vazio para agora").
				Value(&m.fields.Date).
				Validate(func(s string) error {
					_, err := parseDate(s, m.loc)
					return err
				}),

			huh.NewInput().
				Key("description").
				Title("Descrição").
				Placeholder(sale.DefaultDescription).
				Value(&m.fields.Description),

			huh.NewSelect[sale.Status]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption("Pago", sale.StatusPaid),
					huh.NewOption("Pendente", sale.StatusPending),
				).
				Value(&m.fields.Status),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = salesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m SalesModel) enterDeleteMode(sl *sale.Sale) (tea.Model, tea.Cmd) {
	m.editing = sl
	m.fields = &saleFields{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Excluir %s de %s?", FormatAmount(sl.Amount), FormatDate(sl.Date, m.loc))).
				Affirmative("Sim").
				Negative("Não").
				Value(&m.fields.Confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = salesStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m *SalesModel) leaveForm() {
	m.state = salesStateBrowse
	m.form = nil
	m.fields = nil
	m.editing = nil
	m.table.Focus()
}

func (m SalesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.leaveForm()
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

	if m.state == salesStateDelete {
		if !m.fields.Confirmed {
			m.leaveForm()
			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m SalesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading sales...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Vendas de %s · %d registro(s)", activeStyle(m.month.Label()), len(m.sales))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != salesStateBrowse && m.form != nil {
		title := "Nova venda"
		if m.editing != nil {
			title = "Editar venda"
		}

		if m.state == salesStateDelete {
			title = "Excluir venda"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SalesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.sales))
	for _, sl := range m.sales {
		receipt := ""
		if sl.HasReceipt() {
			receipt = "sim"
		}

		rows = append(rows, table.Row{
			FormatDate(sl.Date, m.loc),
			statusLabel(sl.Status),
			FormatAmount(sl.Amount),
			sl.Description,
			receipt,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// parseDate reads a date typed in the form; blank means the zero time.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.New("use dd/mm/aaaa ou dd/mm/aaaa hh:mm")
}

// Messages

type loadSalesMsg struct {
	month month.Key
	sales []*sale.Sale
	err   error
}

func (m SalesModel) loadSalesCmd() tea.Cmd {
	svc, key, loc := m.saleService, m.month, m.loc

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sales, err := svc.List(ctx, sale.ListFilter{
			StartDate: new(key.Start(loc)),
			EndDate:   new(key.Add(1).Start(loc)),
		})

		return loadSalesMsg{month: key, sales: sales, err: err}
	}
}

type saleSaveMsg struct {
	done string
	err  error
}

func (m SalesModel) saveCmd() tea.Cmd {
	svc, loc, editing, fields := m.saleService, m.loc, m.editing, *m.fields

	return func() tea.Msg {
		amount, err := money.ParseBRL(fields.Amount)
		if err != nil {
			return saleSaveMsg{err: err}
		}

		date, err := parseDate(fields.Date, loc)
		if err != nil {
			return saleSaveMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			_, err = svc.Create(ctx, sale.CreateParams{
				Amount:      amount,
				Date:        date,
				Description: fields.Description,
				Status:      fields.Status,
			})

			return saleSaveMsg{done: "Venda registrada.", err: err}
		}

		params := sale.UpdateParams{
			Amount:      &amount,
			Description: &fields.Description,
			Status:      &fields.Status,
		}

		if !date.IsZero() {
			params.Date = &date
		}

		_, err = svc.Update(ctx, editing.ID, params)

		return saleSaveMsg{done: "Venda atualizada.", err: err}
	}
}

func (m SalesModel) toggleStatusCmd(sl *sale.Sale) tea.Cmd {
	svc := m.saleService

	next := sale.StatusPending
	if sl.IsPending() {
		next = sale.StatusPaid
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := svc.SetStatus(ctx, sl.ID, next)

		return saleSaveMsg{done: "Status: " + statusLabel(next), err: err}
	}
}

func (m SalesModel) deleteCmd(sl *sale.Sale) tea.Cmd {
	svc := m.saleService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return saleSaveMsg{done: "Venda excluída.", err: svc.Delete(ctx, sl.ID)}
	}
}
