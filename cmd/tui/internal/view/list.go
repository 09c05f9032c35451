package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

type ListModel struct {
	obsService   *observation.Service
	aliasService *alias.Service

	state listState
	table table.Model
	obs   []*observation.Observation
	form  *huh.Form

	// Filter cycling
	statusFilterIdx int
	dateFilterIdx   int

	filter  observation.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formProduct string
	formPrice   string
	formLearn   bool
}

var (
	listStatusLabels = []string{"All", "Parsed", "Unparsable", "Confirmed", "Ignored"}
	listStatuses     = []observation.Status{"", observation.StatusParsed, observation.StatusUnparsable, observation.StatusConfirmed, observation.StatusIgnored}
	listDateLabels   = []string{"All Time", "This Month", "Last Month"}
)

func NewListModel(obsSvc *observation.Service, aliasSvc *alias.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 11},
		{Title: "Price", Width: 12},
		{Title: "Product", Width: 32},
		{Title: "Label", Width: 18},
		{Title: "Source", Width: 10},
	}

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

	return ListModel{
		obsService:   obsSvc,
		aliasService: aliasSvc,
		table:        t,
		filter:       observation.ListFilter{},
	}
}

func (m ListModel) Title() string { return "Observations" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: edit | x: ignore | s: status filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.obs = msg.obs
		m.status = ""
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			return m, m.ignoreCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(listStatuses)
			m.applyFilter(time.Now())
			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(listDateLabels)
			m.applyFilter(time.Now())
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.obs) {
		return m, nil
	}

	o := m.obs[idx]
	m.formProduct = o.Product
	m.formPrice = ""
	m.formLearn = false

	if o.Valid() {
		m.formPrice = FormatAmount(o.Amount)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("product").
				Title("Product").
				Value(&m.formProduct).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("product cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Price").
				Placeholder("1.234,56").
				Value(&m.formPrice).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := price.ParseCents(s); err != nil {
						return fmt.Errorf("not a price")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("learn").
				Title("Use this name for similar titles?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formLearn),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()
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

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading observations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s | %d rows",
		accentStyle.Render(listStatusLabels[m.statusFilterIdx]),
		accentStyle.Render(listDateLabels[m.dateFilterIdx]),
		len(m.obs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		idx := m.table.Cursor()
		label := ""
		if idx >= 0 && idx < len(m.obs) {
			label = m.obs[idx].RawText
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Edit Observation\n\nLabel: %q\n\n%s", label, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter(now time.Time) {
	m.filter.Status = nil
	if st := listStatuses[m.statusFilterIdx]; st != "" {
		m.filter.Status = new(st)
	}

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.obs))
	for _, o := range m.obs {
		amount := FormatAmount(o.Amount)
		if !o.Valid() {
			amount = "-"
		}

		rows = append(rows, table.Row{
			FormatDate(o.ObservedAt),
			string(o.Status),
			amount,
			o.Product,
			o.RawText,
			string(o.Source),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	obs []*observation.Observation
	err error
}

func (m ListModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		obs, err := m.obsService.List(ctx, m.filter)
		return loadListMsg{obs: obs, err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) selected() *observation.Observation {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.obs) {
		return nil
	}

	return m.obs[idx]
}

// listEdit is what the edit form produced for one observation.
type listEdit struct {
	product   string
	priceText string
	learn     bool
}

// applyEdit returns an edited copy of o. A typed price that differs from
// the stored one, or replaces an unreadable one, confirms the observation.
func applyEdit(o *observation.Observation, e listEdit) (*observation.Observation, error) {
	c := *o
	c.Product = e.product

	if e.priceText == "" {
		return &c, nil
	}

	cents, err := price.ParseCents(e.priceText)
	if err != nil {
		return nil, err
	}

	if cents != c.Amount || !c.Valid() {
		c.Amount = cents
		c.Status = observation.StatusConfirmed
	}

	return &c, nil
}

func (m ListModel) saveCmd() tea.Cmd {
	o := m.selected()
	if o == nil {
		return nil
	}

	edit := listEdit{
		product:   strings.TrimSpace(m.form.GetString("product")),
		priceText: strings.TrimSpace(m.form.GetString("price")),
		learn:     m.form.GetBool("learn"),
	}
	oldProduct := o.Product

	edited, err := applyEdit(o, edit)
	if err != nil {
		return func() tea.Msg { return listSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if edit.learn && edit.product != oldProduct {
			if err := m.aliasService.Learn(ctx, oldProduct, edit.product); err != nil {
				return listSaveMsg{err: err}
			}
		}

		return listSaveMsg{err: m.obsService.Update(ctx, edited)}
	}
}

func (m ListModel) ignoreCmd() tea.Cmd {
	o := m.selected()
	if o == nil {
		return nil
	}

	id := o.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return listSaveMsg{err: m.obsService.UpdateStatus(ctx, id, observation.StatusIgnored)}
	}
}
