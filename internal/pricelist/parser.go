package pricelist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/pricewatch/internal/encoding"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

// delimiters are tried in order. Semicolon comes first because comma-decimal
// prices appear unquoted in semicolon files.
var delimiters = []rune{';', ','}

// Parser reads price list CSV exports. With no formats it auto-detects the
// layout from the header row; otherwise only the given formats are tried.
type Parser struct {
	formats []Format
}

func NewParser(formats ...Format) *Parser {
	return &Parser{formats: formats}
}

func (p *Parser) Parse(r io.Reader) ([]observation.RecordParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(content, delim)
		if err != nil {
			continue
		}

		profile, colMap, headerIdx := p.detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx)
	}

	return nil, fmt.Errorf("no matching price list format found: expected Producto/Precio/Fecha, Product/Price/Date or Item/Amount/Date")
}

func readRows(content []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches an allowed profile.
// Returns the matched profile, column index map, and header row index.
func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if !p.allows(profiles[i].Format) {
				continue
			}

			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func (p *Parser) allows(f Format) bool {
	if len(p.formats) == 0 {
		return true
	}

	for _, allowed := range p.formats {
		if allowed == f {
			return true
		}
	}

	return false
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts observations from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]observation.RecordParams, error) {
	productIdx := cols[p.ProductCol]
	priceIdx := cols[p.PriceCol]
	dateIdx := cols[p.DateCol]

	urlIdx := -1
	if idx, ok := cols[p.URLCol]; ok && p.URLCol != "" {
		urlIdx = idx
	}

	var params []observation.RecordParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		product := cellValue(row, productIdx)
		if product == "" {
			return nil, fmt.Errorf("row %d: missing product", rowNum)
		}

		rawPrice := cellValue(row, priceIdx)

		params = append(params, observation.RecordParams{
			Product:    product,
			Source:     observation.SourceImport,
			URL:        cellValue(row, urlIdx),
			RawText:    rawPrice,
			ObservedAt: date,
		})
	}

	return params, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
