package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/pricelist"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepFormat importStep = iota
	importStepFile
	importStepPreview
	importStepSaving
	importStepConflicts
	importStepDone
)

var formatLabels = map[pricelist.Format]string{
	pricelist.FormatAuto:      "Detect from header",
	pricelist.FormatFalabella: "Falabella export (Producto;Precio;Fecha)",
	pricelist.FormatShop:      "Shop export (Product,Price,Date)",
	pricelist.FormatCatalog:   "Catalog (Item;Amount;Date)",
}

type namer interface {
	Canonical(ctx context.Context, rawTitle string) string
}

// previewRow is one price-list row after alias lookup, resolved for display.
type previewRow struct {
	params   observation.RecordParams
	original string
	resolved *observation.Observation
}

func (r previewRow) renamed() bool {
	return r.original != r.params.Product
}

func buildPreview(ctx context.Context, names namer, params []observation.RecordParams) []previewRow {
	rows := make([]previewRow, len(params))
	for i, p := range params {
		original := p.Product
		p.Product = names.Canonical(ctx, original)

		rows[i] = previewRow{params: p, original: original, resolved: p.Resolve()}
	}

	return rows
}

type previewCounts struct {
	total      int
	priced     int
	unreadable int
	renamed    int
}

func countPreview(rows []previewRow) previewCounts {
	c := previewCounts{total: len(rows)}
	for _, r := range rows {
		if r.resolved.Valid() {
			c.priced++
		} else {
			c.unreadable++
		}

		if r.renamed() {
			c.renamed++
		}
	}

	return c
}

func (c previewCounts) String() string {
	return fmt.Sprintf("%d rows | %d priced | %d unreadable | %d renamed by alias",
		c.total, c.priced, c.unreadable, c.renamed)
}

// keptParams returns the rows to write after conflict review: every new row
// plus the conflicting rows the user chose to keep.
func keptParams(fresh []observation.RecordParams, conflicts []observation.Conflict, keep map[int]bool) []observation.RecordParams {
	out := append([]observation.RecordParams(nil), fresh...)
	for i, c := range conflicts {
		if keep[i] {
			out = append(out, c.Incoming)
		}
	}

	return out
}

// ImportModel reads a price list, previews how each label parses and which
// aliases apply, then records it.
type ImportModel struct {
	obsService   *observation.Service
	listService  *pricelist.Service
	aliasService *alias.Service

	step       importStep
	format     *pricelist.Format
	formatForm *huh.Form
	filePicker filepicker.Model
	path       string

	preview      []previewRow
	previewTable table.Model

	fresh          []observation.RecordParams
	conflicts      []observation.Conflict
	keep           map[int]bool
	conflictsTable table.Model

	status string
	err    error
}

func NewImportModel(obsSvc *observation.Service, listSvc *pricelist.Service, aliasSvc *alias.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.SetHeight(15)

	m := ImportModel{
		obsService:   obsSvc,
		listService:  listSvc,
		aliasService: aliasSvc,
		filePicker:   fp,
		format:       new(pricelist.FormatAuto),
	}
	m.formatForm = newFormatForm(m.format)

	return m
}

func newFormatForm(format *pricelist.Format) *huh.Form {
	opts := make([]huh.Option[pricelist.Format], 0, len(pricelist.Formats))
	for _, f := range pricelist.Formats {
		opts = append(opts, huh.NewOption(formatLabels[f], f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[pricelist.Format]().
				Title("Price list format").
				Options(opts...).
				Value(format),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Price List" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importStepPreview:
		return "Enter: record | Esc: pick another file"
	case importStepConflicts:
		return "Space: keep/drop | a: keep all | n: drop all | Enter: write | Esc: cancel"
	case importStepDone:
		return "Esc: import another"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.formatForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}

	case previewMsg:
		if msg.err != nil {
			return m.finish(msg.err, "")
		}

		m.preview = msg.rows
		m.previewTable = newPreviewTable(msg.rows)
		m.step = importStepPreview

		return m, nil

	case importBatchMsg:
		if msg.err != nil {
			return m.finish(msg.err, "")
		}

		if len(msg.result.Conflicts) == 0 {
			return m.finish(nil, importSummary(msg.result.Imported))
		}

		m.fresh = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.keep = map[int]bool{}
		m.conflictsTable = newConflictsTable(m.conflicts, m.keep)
		m.step = importStepConflicts

		return m, nil

	case importWrittenMsg:
		if msg.err != nil {
			return m.finish(msg.err, "")
		}

		return m.finish(nil, importSummary(msg.obs))
	}

	switch m.step {
	case importStepFormat:
		return m.updateFormat(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepPreview:
		return m.updatePreview(msg)
	case importStepConflicts:
		return m.updateConflicts(msg)
	}

	return m, nil
}

func (m ImportModel) finish(err error, status string) (tea.Model, tea.Cmd) {
	m.step = importStepDone
	m.err = err
	m.status = status

	return m, nil
}

func (m ImportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepFormat:
		return m, Back
	case importStepSaving:
		return m, nil
	case importStepPreview, importStepConflicts:
		m.step = importStepFile
		m.preview = nil
		m.fresh = nil
		m.conflicts = nil

		return m, m.filePicker.Init()
	}

	m.step = importStepFormat
	m.err = nil
	m.status = ""
	m.formatForm = newFormatForm(m.format)

	return m, m.formatForm.Init()
}

func (m ImportModel) updateFormat(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.formatForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.formatForm = f
	}

	if m.formatForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.step = importStepFile

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		m.path = path
		return m, m.previewCmd(path, *m.format)
	}

	return m, cmd
}

func (m ImportModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if len(m.preview) == 0 {
			return m.finish(nil, "Nothing to import.")
		}

		m.step = importStepSaving

		return m, m.importCmd()
	}

	var cmd tea.Cmd
	m.previewTable, cmd = m.previewTable.Update(msg)

	return m, cmd
}

func (m ImportModel) updateConflicts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			i := m.conflictsTable.Cursor()
			m.keep[i] = !m.keep[i]
		case "a", "n":
			for i := range m.conflicts {
				m.keep[i] = keyMsg.String() == "a"
			}
		case "enter":
			m.step = importStepSaving
			return m, m.writeCmd()
		}

		m.conflictsTable.SetRows(conflictRows(m.conflicts, m.keep))
	}

	var cmd tea.Cmd
	m.conflictsTable, cmd = m.conflictsTable.Update(msg)

	return m, cmd
}

func newPreviewTable(rows []previewRow) table.Model {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		amount := "unreadable"
		if r.resolved.Valid() {
			amount = FormatAmount(r.resolved.Amount)
		}

		aliasNote := ""
		if r.renamed() {
			aliasNote = "from " + r.original
		}

		out = append(out, table.Row{FormatDate(r.params.ObservedAt), r.params.RawText, amount, r.params.Product, aliasNote})
	}

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Label", Width: 16},
			{Title: "Price", Width: 12},
			{Title: "Product", Width: 28},
			{Title: "Alias", Width: 28},
		}),
		table.WithRows(out),
		table.WithFocused(true),
		table.WithHeight(15),
	)
}

func conflictRows(conflicts []observation.Conflict, keep map[int]bool) []table.Row {
	rows := make([]table.Row, 0, len(conflicts))
	for i, c := range conflicts {
		mark := "drop"
		if keep[i] {
			mark = "keep"
		}

		rows = append(rows, table.Row{
			mark,
			FormatDate(c.Incoming.ObservedAt),
			c.Incoming.Product,
			c.Incoming.RawText,
			fmt.Sprintf("%s (%s)", FormatAmount(c.Existing.Amount), c.Existing.Status),
		})
	}

	return rows
}

func newConflictsTable(conflicts []observation.Conflict, keep map[int]bool) table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 5},
			{Title: "Date", Width: 12},
			{Title: "Product", Width: 28},
			{Title: "Label", Width: 16},
			{Title: "Recorded", Width: 22},
		}),
		table.WithRows(conflictRows(conflicts, keep)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepFormat:
		return pad.Render(m.formatForm.View())
	case importStepFile:
		return pad.Render(fmt.Sprintf("Price list (%s):\n\n%s", formatLabels[*m.format], m.filePicker.View()))
	case importStepPreview:
		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			accentStyle.Render(m.path),
			countPreview(m.preview).String(),
			"",
			m.previewTable.View(),
		))
	case importStepSaving:
		return pad.Render("Recording observations...")
	case importStepConflicts:
		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%d new rows, %d already recorded the same day:", len(m.fresh), len(m.conflicts)),
			"",
			m.conflictsTable.View(),
		))
	}

	if m.err != nil {
		return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return pad.Render(successStyle.Render(m.status))
}

type previewMsg struct {
	rows []previewRow
	err  error
}

type importBatchMsg struct {
	result *observation.ImportResult
	err    error
}

type importWrittenMsg struct {
	obs []*observation.Observation
	err error
}

func (m ImportModel) previewCmd(path string, format pricelist.Format) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		params, err := m.listService.Import(format, f)
		if err != nil {
			return previewMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		return previewMsg{rows: buildPreview(ctx, m.aliasService, params)}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	params := make([]observation.RecordParams, len(m.preview))
	for i, r := range m.preview {
		params[i] = r.params
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.obsService.ImportBatch(ctx, params)

		return importBatchMsg{result: result, err: err}
	}
}

func (m ImportModel) writeCmd() tea.Cmd {
	params := keptParams(m.fresh, m.conflicts, m.keep)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		obs, err := m.obsService.CreateBatch(ctx, params)

		return importWrittenMsg{obs: obs, err: err}
	}
}

func importSummary(obs []*observation.Observation) string {
	unparsable := 0

	for _, o := range obs {
		if o.Status == observation.StatusUnparsable {
			unparsable++
		}
	}

	if unparsable == 0 {
		return fmt.Sprintf("Recorded %d observations.", len(obs))
	}

	return fmt.Sprintf("Recorded %d observations, %d with unreadable prices (see Review).", len(obs), unparsable)
}
