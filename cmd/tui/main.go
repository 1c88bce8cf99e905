package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pulse/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pulse/internal/call"
	callStore "github.com/MrJamesThe3rd/pulse/internal/call/store"
	"github.com/MrJamesThe3rd/pulse/internal/config"
	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/database"
	"github.com/MrJamesThe3rd/pulse/internal/export"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	goalStore "github.com/MrJamesThe3rd/pulse/internal/goal/store"
	"github.com/MrJamesThe3rd/pulse/internal/importer"
	"github.com/MrJamesThe3rd/pulse/internal/insight"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
	saleStore "github.com/MrJamesThe3rd/pulse/internal/sale/store"
)

const logFile = "pulse-tui.log"

type model struct {
	cfg              *config.Config
	saleService      *sale.Service
	goalService      *goal.Service
	callService      *call.Service
	dashboardService *dashboard.Service
	importService    *importer.Service
	exportService    *export.Service
	insightTask      *insight.Task

	month       month.Key
	width       int
	height      int
	currentView View

	dashboardView view.DashboardModel
	salesView     view.SalesModel
	callsView     view.CallsModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewSales     View = 2
	ViewCalls     View = 3
	ViewImport    View = 4
	ViewExport    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()

	saleSvc := sale.NewService(saleStore.New(db))
	goalSvc := goal.NewService(goalStore.New(db))
	callSvc := call.NewService(callStore.New(db))
	dashSvc := dashboard.NewService(saleSvc, goalSvc, callSvc, loc)
	task := insight.NewTask(insight.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model), cfg.Gemini.Timeout)

	current := dashSvc.CurrentMonth()

	return model{
		cfg:              cfg,
		saleService:      saleSvc,
		goalService:      goalSvc,
		callService:      callSvc,
		dashboardService: dashSvc,
		importService:    importer.NewService(saleSvc, loc),
		exportService:    export.NewService(saleSvc, loc),
		insightTask:      task,
		month:            current,
		currentView:      ViewDashboard,
		dashboardView:    view.NewDashboardModel(dashSvc, goalSvc, callSvc, task, current),
	}
}

func (m model) Init() tea.Cmd {
	return m.dashboardView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case view.MonthChangedMsg:
		m.month = msg.Month
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewCalls:
		var newModel tea.Model
		newModel, cmd = m.callsView.Update(msg)
		m.callsView = newModel.(view.CallsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

// updateMenu rebuilds the chosen view on the shared month so no state leaks between visits.
func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loc := m.cfg.Location()
	size := m.sizeCmd()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewDashboard
		m.dashboardView = view.NewDashboardModel(m.dashboardService, m.goalService, m.callService, m.insightTask, m.month)

		return m, tea.Batch(m.dashboardView.Init(), size)
	case "2":
		m.currentView = ViewSales
		m.salesView = view.NewSalesModel(m.saleService, loc, m.month)

		return m, tea.Batch(m.salesView.Init(), size)
	case "3":
		m.currentView = ViewCalls
		m.callsView = view.NewCallsModel(m.callService, loc, m.month)

		return m, tea.Batch(m.callsView.Init(), size)
	case "4":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.importService)

		return m, m.importView.Init()
	case "5":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, m.month)

		return m, m.exportView.Init()
	}

	return m, nil
}

func (m model) sizeCmd() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: m.width, Height: m.height}
	}
}

func (m model) View() string {
	var v view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + " · " + m.month.Label() + "\n\n" +
				"1. Dashboard\n" +
				"2. Sales\n" +
				"3. Calls\n" +
				"4. Import Sales\n" +
				"5. Export Month\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		v = m.dashboardView
	case ViewSales:
		v = m.salesView
	case ViewCalls:
		v = m.callsView
	case ViewImport:
		v = m.importView
	case ViewExport:
		v = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.Title() + " · " + v.ShortHelp())

	return v.View() + "\n" + help
}

func main() {
	f, err := tea.LogToFile(logFile, "pulse")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
