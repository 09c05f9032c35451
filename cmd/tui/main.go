package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pricewatch/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/pricewatch/internal/alias/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/config"
	"github.com/MrJamesThe3rd/pricewatch/internal/database"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	obsStore "github.com/MrJamesThe3rd/pricewatch/internal/observation/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/pricelist"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
)

type model struct {
	obsService    *observation.Service
	aliasService  *alias.Service
	listService   *pricelist.Service
	reportService *report.Service

	currentView View

	parseView  view.ParseModel
	importView view.ImportModel
	reviewView view.ReviewModel
	listView   view.ListModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewParse  View = 1
	ViewImport View = 2
	ViewReview View = 3
	ViewList   View = 4
	ViewExport View = 5
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

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	obsSvc := observation.NewService(obsStore.New(db))
	aliasSvc := alias.NewService(aliasStore.New(db))
	listSvc := pricelist.NewService()
	reportSvc := report.NewService(obsSvc)

	return model{
		obsService:    obsSvc,
		aliasService:  aliasSvc,
		listService:   listSvc,
		reportService: reportSvc,
		currentView:   ViewMenu,
		parseView:     view.NewParseModel(),
		importView:    view.NewImportModel(obsSvc, listSvc, aliasSvc),
		reviewView:    view.NewReviewModel(obsSvc),
		listView:      view.NewListModel(obsSvc, aliasSvc),
		exportView:    view.NewExportModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewParse
				m.parseView = view.NewParseModel()

				return m, m.parseView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.obsService, m.listService, m.aliasService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.obsService)

				return m, m.reviewView.Init()
			case "4":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.obsService, m.aliasService)

				return m, m.listView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.reportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewParse:
		var newModel tea.Model
		newModel, cmd = m.parseView.Update(msg)
		m.parseView = newModel.(view.ParseModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewParse:
		return m.parseView
	case ViewImport:
		return m.importView
	case ViewReview:
		return m.reviewView
	case ViewList:
		return m.listView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Pricewatch\n\n" +
				"1. Parse Playground\n" +
				"2. Import Price List\n" +
				"3. Review Unreadable Prices\n" +
				"4. List Observations\n" +
				"5. Export Report\n\n" +
				"q. Quit",
		)
	}

	v := m.current()
	if v == nil {
		return "Unknown View"
	}

	header := lipgloss.NewStyle().Bold(true).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
