package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Valid reports whether f is a known format. The empty format means CSV.
func (f Format) Valid() bool {
	return f == "" || f == FormatCSV || f == FormatXLSX
}

const sheetName = "Observations"

var header = []string{"observed_at", "product", "source", "raw_text", "amount", "status", "url"}

// Result describes a written report.
type Result struct {
	Path         string
	Observations []*observation.Observation
}

// Service writes observation reports to disk.
type Service struct {
	observations *observation.Service
	now          func() time.Time
}

func NewService(obsService *observation.Service) *Service {
	return &Service{
		observations: obsService,
		now:          time.Now,
	}
}

// Export writes the observations matching filter to outputDir as
// observations_YYYYMMDD.<format>.
func (s *Service) Export(ctx context.Context, filter observation.ListFilter, outputDir string, format Format) (*Result, error) {
	if format == "" {
		format = FormatCSV
	}

	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	obs, err := s.observations.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing observations: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("observations_%s.%s", s.now().Format("20060102"), format))

	switch format {
	case FormatXLSX:
		err = writeXLSX(path, obs)
	default:
		err = writeCSV(path, obs)
	}

	if err != nil {
		return nil, err
	}

	return &Result{Path: path, Observations: obs}, nil
}

func record(o *observation.Observation) []string {
	return []string{
		o.ObservedAt.Format(time.RFC3339),
		o.Product,
		string(o.Source),
		o.RawText,
		price.FormatCents(o.Amount),
		string(o.Status),
		o.URL,
	}
}

func writeCSV(path string, obs []*observation.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, o := range obs {
		if err := w.Write(record(o)); err != nil {
			return fmt.Errorf("writing observation %s: %w", o.ID, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeXLSX(path string, obs []*observation.Observation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, o := range obs {
		row := make([]any, 0, len(header))
		for _, v := range record(o) {
			row = append(row, v)
		}

		// Amount as a number so spreadsheets can sum it.
		row[4] = float64(o.Amount) / 100

		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

func setRow[T any](f *excelize.File, n int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("resolving cell: %w", err)
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}

	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", n, err)
	}

	return nil
}

// Summary renders one line per observation.
func (s *Service) Summary(obs []*observation.Observation) string {
	var sb strings.Builder

	for _, o := range obs {
		amount := price.FormatCents(o.Amount)
		if o.Status == observation.StatusUnparsable {
			amount = "?"
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s | %s\n", o.ObservedAt.Format("2006-01-02"), o.Product, amount, o.Status))
	}

	return sb.String()
}
