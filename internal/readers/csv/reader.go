// Package csv parses legacy CSV exports into row records.
//
// The legacy export tool produces ragged files: rows with fewer or more
// columns than the header, irregular quoting, and literal "NULL" strings
// for absent values. Parsing is lenient: extra columns are dropped,
// missing columns become empty strings and NULLs are normalised to "".
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Parse reads a CSV export with a header row and returns one Row per
// data line. A missing or unreadable file is a setup error.
func Parse(filePath string) ([]domain.Row, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceFile, filePath, err)
	}
	defer f.Close()

	rows, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceFile, filePath, err)
	}
	return rows, nil
}

// ParseReader parses CSV content from a reader. Exposed for tests.
func ParseReader(r io.Reader) ([]domain.Row, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // ragged rows are expected

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []domain.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = normalizeValue(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeValue maps the export's literal NULL markers to "".
func normalizeValue(v string) string {
	switch strings.TrimSpace(v) {
	case "NULL", "null":
		return ""
	}
	return v
}
