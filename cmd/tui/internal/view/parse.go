package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

const parseHistory = 10

// ParseModel is a playground that shows how a price label is read.
type ParseModel struct {
	input   textinput.Model
	history []string
}

func NewParseModel() ParseModel {
	ti := textinput.New()
	ti.Placeholder = "$1.234,56"
	ti.Prompt = "Label: "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return ParseModel{input: ti}
}

func (m ParseModel) Title() string { return "Parse Playground" }

func (m ParseModel) ShortHelp() string {
	return "Type a label | Enter: keep in history | Esc: back"
}

func (m ParseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ParseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			if v := m.input.Value(); v != "" {
				m.history = append([]string{v}, m.history...)
				if len(m.history) > parseHistory {
					m.history = m.history[:parseHistory]
				}

				m.input.SetValue("")
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// Describe renders the parsing steps for text.
func Describe(text string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "stripped:   %q\n", price.Strip(text))
	fmt.Fprintf(&sb, "normalized: %q\n", price.Normalize(text))
	fmt.Fprintf(&sb, "value:      %v\n", price.Parse(text))

	cents, err := price.ParseCents(text)
	if err != nil {
		sb.WriteString("cents:      " + errorStyle.Render(err.Error()))
	} else {
		sb.WriteString("cents:      " + successStyle.Render(fmt.Sprintf("%d (%s)", cents, price.FormatCents(cents))))
	}

	return sb.String()
}

func (m ParseModel) View() string {
	current := Describe(m.input.Value())

	var hist strings.Builder
	for _, h := range m.history {
		fmt.Fprintf(&hist, "%-20q -> %v\n", h, price.Parse(h))
	}

	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(current)

	content := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render(m.Title()),
		"",
		m.input.View(),
		"",
		panel,
	)

	if hist.Len() > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", "History:", lipgloss.NewStyle().Faint(true).Render(hist.String()))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
