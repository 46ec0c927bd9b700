package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"supplymatch/internal"
)

// Per-format default index of the tax-inclusive total column. PDF
// счёт-фактуры carry more service columns than spreadsheet exports.
const (
	totalWithTaxColPDF   = 9
	totalWithTaxColSheet = 8
)

// ParseDocument runs the adapter for the file format and feeds its
// tables through the shared extractor. A document from which nothing
// survives extraction is reported as malformed; the supplier name, when
// found, is returned even then.
func ParseDocument(filename string, content []byte) (internal.ParsedDocument, error) {
	var (
		tables   []Table
		supplier string
		err      error
		totalCol = totalWithTaxColSheet
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		tables, supplier, err = parsePDF(content)
		totalCol = totalWithTaxColPDF
	case ".xlsx":
		tables, supplier, err = parseXLSX(content)
	case ".xls":
		tables, supplier, err = parseXLS(content)
	case ".csv":
		tables, supplier, err = parseCSV(content)
	case ".html", ".htm":
		tables, supplier, err = parseHTML(content)
	default:
		return internal.ParsedDocument{}, fmt.Errorf("unsupported document format: %s", ext)
	}
	if err != nil {
		return internal.ParsedDocument{}, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
	}

	items := NewExtractor(totalCol).Extract(tables)
	log.Debug().Str("file", filepath.Base(filename)).
		Int("tables", len(tables)).Int("items", len(items)).
		Str("supplier", supplier).Msg("document parsed")

	if len(items) == 0 {
		return internal.ParsedDocument{SupplierName: supplier}, internal.ErrMalformedDocument
	}
	return internal.ParsedDocument{LineItems: items, SupplierName: supplier}, nil
}

// ParseFile is ParseDocument over a path on disk.
func ParseFile(path string) (internal.ParsedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return internal.ParsedDocument{}, err
	}
	return ParseDocument(path, content)
}
