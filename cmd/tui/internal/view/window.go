package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

// Window is a stretch of price history ending today.
type Window string

const (
	WindowWeek    Window = "7d"
	WindowMonth   Window = "30d"
	WindowQuarter Window = "90d"
	WindowYear    Window = "ytd"
	WindowAll     Window = "all"
	WindowCustom  Window = "custom"
)

var windowOrder = []Window{WindowWeek, WindowMonth, WindowQuarter, WindowYear, WindowAll, WindowCustom}

var windowLabels = map[Window]string{
	WindowWeek:    "Last 7 days",
	WindowMonth:   "Last 30 days",
	WindowQuarter: "Last 90 days",
	WindowYear:    "Year to date",
	WindowAll:     "Whole history",
	WindowCustom:  "Custom dates",
}

// HistoryWindow is a resolved window in UTC days. Start and End are zero
// when All is set.
type HistoryWindow struct {
	Label string
	Start time.Time
	End   time.Time
	All   bool
}

// Apply narrows f to the window.
func (w HistoryWindow) Apply(f *observation.ListFilter) {
	if w.All {
		f.StartDate = nil
		f.EndDate = nil
		return
	}

	f.StartDate = new(w.Start)
	f.EndDate = new(w.End)
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func resolveWindow(w Window, now time.Time) HistoryWindow {
	today := dayStart(now)

	var start time.Time

	switch w {
	case WindowWeek:
		start = today.AddDate(0, 0, -6)
	case WindowMonth:
		start = today.AddDate(0, 0, -29)
	case WindowQuarter:
		start = today.AddDate(0, 0, -89)
	case WindowYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return HistoryWindow{Label: windowLabels[WindowAll], All: true}
	}

	return HistoryWindow{Label: windowLabels[w], Start: start, End: dayEnd(today)}
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}

	return t, nil
}

func customWindow(from, to string) (HistoryWindow, error) {
	start, err := parseDay(from)
	if err != nil {
		return HistoryWindow{}, err
	}

	end, err := parseDay(to)
	if err != nil {
		return HistoryWindow{}, err
	}

	if end.Before(start) {
		return HistoryWindow{}, errors.New("end date is before start date")
	}

	return HistoryWindow{
		Label: fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end)),
		Start: start,
		End:   dayEnd(end),
	}, nil
}

// WindowSelectedMsg is sent once the picker's form is complete.
type WindowSelectedMsg struct {
	Window HistoryWindow
}

// windowFields is shared by picker copies so the form bindings survive
// bubbletea's value receivers.
type windowFields struct {
	choice Window
	from   string
	to     string
}

// WindowPicker asks for a history window. Dates are only asked for when the
// custom window is chosen.
type WindowPicker struct {
	initial Window
	fields  *windowFields
	form    *huh.Form
	now     func() time.Time
}

func NewWindowPicker(initial Window) WindowPicker {
	p := WindowPicker{initial: initial, now: time.Now}
	p.reset()

	return p
}

func (p *WindowPicker) reset() {
	p.fields = &windowFields{choice: p.initial, to: FormatDate(p.now())}
	p.form = newWindowForm(p.fields)
}

func newWindowForm(f *windowFields) *huh.Form {
	opts := make([]huh.Option[Window], 0, len(windowOrder))
	for _, w := range windowOrder {
		opts = append(opts, huh.NewOption(windowLabels[w], w))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Window]().
				Title("Price history").
				Options(opts...).
				Value(&f.choice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("YYYY-MM-DD").
				Value(&f.from).
				Validate(func(s string) error {
					_, err := parseDay(s)
					return err
				}),
			huh.NewInput().
				Title("To").
				Placeholder("YYYY-MM-DD").
				Value(&f.to).
				Validate(func(s string) error {
					_, err := customWindow(f.from, s)
					return err
				}),
		).WithHideFunc(func() bool { return f.choice != WindowCustom }),
	).WithWidth(40).WithShowHelp(false)
}

func (p WindowPicker) Init() tea.Cmd {
	return p.form.Init()
}

func (p WindowPicker) Update(msg tea.Msg) (WindowPicker, tea.Cmd) {
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	win, err := p.selected()
	if err != nil {
		p.reset()
		return p, p.form.Init()
	}

	return p, func() tea.Msg { return WindowSelectedMsg{Window: win} }
}

func (p WindowPicker) selected() (HistoryWindow, error) {
	if p.fields.choice == WindowCustom {
		return customWindow(p.fields.from, p.fields.to)
	}

	return resolveWindow(p.fields.choice, p.now()), nil
}

func (p WindowPicker) View() string {
	return p.form.View()
}
