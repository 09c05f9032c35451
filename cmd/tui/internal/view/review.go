package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

type reviewState int

const (
	reviewStateWindow reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through observations whose label could not be read and
// lets the user type the price or ignore them.
type ReviewModel struct {
	obsService *observation.Service

	state  reviewState
	picker WindowPicker

	queue   []*observation.Observation
	current *observation.Observation
	input   textinput.Model

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(obsSvc *observation.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Price, empty to ignore"
	ti.Width = 30

	return ReviewModel{
		obsService: obsSvc,
		picker:     NewWindowPicker(WindowMonth),
		input:      ti,
		state:      reviewStateWindow,
	}
}

func (m ReviewModel) Title() string { return "Review Unreadable Prices" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateReviewing {
		return "Enter: confirm price (empty ignores) | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case WindowSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadCmd(msg.Window)

	case loadReviewMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading observations: %v", msg.err)
			return m, nil
		}

		m.queue = msg.obs
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = "No unreadable prices found."
			return m, nil
		}

		m.next()

		return m, textinput.Blink

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.next()

		return m, textinput.Blink
	}

	switch m.state {
	case reviewStateWindow:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case reviewStateReviewing:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.Type {
			case tea.KeyEsc:
				return m, Back
			case tea.KeyEnter:
				if m.loading || m.current == nil {
					return m, nil
				}

				return m.submit()
			}
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReviewModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, m.ignoreCmd(m.current)
	}

	cents, err := price.ParseCents(text)
	if err != nil {
		m.status = fmt.Sprintf("Cannot read %q as a price", text)
		return m, nil
	}

	return m, m.confirmCmd(m.current, cents)
}

func (m *ReviewModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = "All done!"
		m.input.Blur()
		m.input.SetValue("")

		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.input.SetValue("")
	m.input.Focus()
}

func (m ReviewModel) View() string {
	if m.state == reviewStateWindow {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading observations...")
	}

	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	info := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date:    %s\nProduct: %s\nSource:  %s\nLabel:   %q\nURL:     %s",
			FormatDate(m.current.ObservedAt),
			m.current.Product,
			m.current.Source,
			m.current.RawText,
			m.current.URL,
		))

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%s\n\n%s\n\nPrice:\n%s", m.status, info, m.input.View()),
	)
}

type loadReviewMsg struct {
	obs []*observation.Observation
	err error
}

func (m ReviewModel) loadCmd(win HistoryWindow) tea.Cmd {
	filter := observation.ListFilter{Status: new(observation.StatusUnparsable)}
	win.Apply(&filter)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		obs, err := m.obsService.List(ctx, filter)

		return loadReviewMsg{obs: obs, err: err}
	}
}

type reviewSaveMsg struct {
	err error
}

// confirmed returns a copy of o carrying the typed price. The queued
// observation stays untouched while the save runs.
func confirmed(o *observation.Observation, cents int64) *observation.Observation {
	c := *o
	c.Amount = cents
	c.Status = observation.StatusConfirmed

	return &c
}

func (m ReviewModel) confirmCmd(o *observation.Observation, cents int64) tea.Cmd {
	edited := confirmed(o, cents)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return reviewSaveMsg{err: m.obsService.Update(ctx, edited)}
	}
}

func (m ReviewModel) ignoreCmd(o *observation.Observation) tea.Cmd {
	id := o.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return reviewSaveMsg{err: m.obsService.UpdateStatus(ctx, id, observation.StatusIgnored)}
	}
}
