package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
)

const (
	exportTimeout = 30 * time.Second
	summaryLines  = 15
)

type exportStep int

const (
	exportStepWindow exportStep = iota
	exportStepOptions
	exportStepWriting
	exportStepDone
)

// exportOptions holds the form answers. Status "" means any status.
type exportOptions struct {
	format  report.Format
	status  observation.Status
	product string
	dir     string
}

func (o exportOptions) filter(win HistoryWindow) observation.ListFilter {
	f := observation.ListFilter{}
	win.Apply(&f)

	if o.status != "" {
		f.Status = new(o.status)
	}

	if p := strings.TrimSpace(o.product); p != "" {
		f.Product = new(p)
	}

	return f
}

// ExportModel writes a CSV or Excel report of the observations in a
// history window.
type ExportModel struct {
	reportService *report.Service

	step    exportStep
	picker  WindowPicker
	window  HistoryWindow
	options *exportOptions
	form    *huh.Form
	spinner spinner.Model

	result *report.Result
	err    error
}

func NewExportModel(svc *report.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ExportModel{
		reportService: svc,
		picker:        NewWindowPicker(WindowMonth),
		options:       &exportOptions{format: report.FormatCSV, dir: "./reports"},
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Report" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepWriting:
		return "Writing..."
	case exportStepDone:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next"
}

func (m ExportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case WindowSelectedMsg:
		m.window = msg.Window
		m.form = newExportForm(m.options)
		m.step = exportStepOptions

		return m, m.form.Init()

	case exportDoneMsg:
		m.step = exportStepDone
		m.result = msg.result
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	var cmd tea.Cmd

	switch m.step {
	case exportStepWindow:
		m.picker, cmd = m.picker.Update(msg)
	case exportStepOptions:
		form, formCmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, formCmd
		}

		m.step = exportStepWriting
		cmd = tea.Batch(m.spinner.Tick, m.writeCmd())
	case exportStepWriting:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	return m, cmd
}

func (m ExportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case exportStepOptions:
		m.step = exportStepWindow
		m.picker = NewWindowPicker(WindowMonth)

		return m, m.picker.Init()
	case exportStepWriting:
		return m, nil
	}

	return m, Back
}

func newExportForm(o *exportOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[report.Format]().
				Title("Format").
				Options(
					huh.NewOption("CSV", report.FormatCSV),
					huh.NewOption("Excel workbook", report.FormatXLSX),
				).
				Value(&o.format),

			huh.NewSelect[observation.Status]().
				Title("Status").
				Options(
					huh.NewOption("Any", observation.Status("")),
					huh.NewOption("Parsed", observation.StatusParsed),
					huh.NewOption("Confirmed", observation.StatusConfirmed),
					huh.NewOption("Unreadable", observation.StatusUnparsable),
					huh.NewOption("Ignored", observation.StatusIgnored),
				).
				Value(&o.status),

			huh.NewInput().
				Title("Product").
				Description("Canonical name, empty for every product").
				Value(&o.product),

			huh.NewInput().
				Title("Directory").
				Placeholder("./reports").
				Value(&o.dir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("directory is required")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

type exportDoneMsg struct {
	result *report.Result
	err    error
}

func (m ExportModel) writeCmd() tea.Cmd {
	filter := m.options.filter(m.window)
	format := m.options.format
	dir := strings.TrimSpace(m.options.dir)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		res, err := m.reportService.Export(ctx, filter, dir, format)

		return exportDoneMsg{result: res, err: err}
	}
}

// tallyStatuses renders how many rows a report holds per status.
func tallyStatuses(obs []*observation.Observation) string {
	if len(obs) == 0 {
		return "no rows"
	}

	counts := map[observation.Status]int{}
	for _, o := range obs {
		counts[o.Status]++
	}

	parts := []string{}
	for _, st := range []observation.Status{
		observation.StatusParsed,
		observation.StatusConfirmed,
		observation.StatusUnparsable,
		observation.StatusIgnored,
	} {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}

	return fmt.Sprintf("%d rows: %s", len(obs), strings.Join(parts, ", "))
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepWindow:
		return pad.Render(m.picker.View())
	case exportStepOptions:
		return pad.Render(fmt.Sprintf("Window: %s\n\n%s", accentStyle.Render(m.window.Label), m.form.View()))
	case exportStepWriting:
		return pad.Render(fmt.Sprintf("%s Writing %s report...", m.spinner.View(), m.options.format))
	}

	if m.err != nil {
		return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	obs := m.result.Observations
	shown := obs
	if len(shown) > summaryLines {
		shown = shown[:summaryLines]
	}

	body := m.reportService.Summary(shown)
	if more := len(obs) - len(shown); more > 0 {
		body += fmt.Sprintf("... and %d more\n", more)
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Wrote "+m.result.Path),
		fmt.Sprintf("%s | %s", m.window.Label, tallyStatuses(obs)),
		"",
		body,
	))
}
