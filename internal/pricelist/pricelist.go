// Package pricelist imports price observations from CSV exports.
package pricelist

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
)

// Format names a known CSV layout. FormatAuto tries every layout.
type Format string

const (
	FormatAuto      Format = "auto"
	FormatFalabella Format = "falabella"
	FormatShop      Format = "shop"
	FormatCatalog   Format = "catalog"
)

// Formats lists the formats accepted by Service.Import, in menu order.
var Formats = []Format{FormatAuto, FormatFalabella, FormatShop, FormatCatalog}

type Importer interface {
	Parse(r io.Reader) ([]observation.RecordParams, error)
}

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	importers := map[Format]Importer{
		FormatAuto: NewParser(),
	}

	for i := range profiles {
		importers[profiles[i].Format] = NewParser(profiles[i].Format)
	}

	return &Service{importers: importers}
}

func (s *Service) Import(format Format, r io.Reader) ([]observation.RecordParams, error) {
	if format == "" {
		format = FormatAuto
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}
