package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"signal-tracker/internal/models"
)

// ErrMissingColumns indicates the reference CSV lacks a recognizable company
// name or symbol column. Fatal for the whole pipeline run, not retryable.
var ErrMissingColumns = errors.New("reference CSV missing required columns")

// LoadDirectory reads the symbol reference directory from a CSV stream.
//
// The header row is scanned for the first column whose name contains
// "company" or "name" and the first containing "symbol", both
// case-insensitive. Each data row yields one ReferenceEntry with the name
// already normalized. Rows whose normalized name comes out empty are kept;
// they can never match a query and are harmless. Row order is preserved, the
// resolver depends on it.
func LoadDirectory(r io.Reader) ([]models.ReferenceEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading reference CSV header: %w", err)
	}

	nameCol, symCol := -1, -1
	for i, h := range header {
		lower := strings.ToLower(h)
		if nameCol < 0 && (strings.Contains(lower, "company") || strings.Contains(lower, "name")) {
			nameCol = i
		}
		if symCol < 0 && strings.Contains(lower, "symbol") {
			symCol = i
		}
	}
	if nameCol < 0 || symCol < 0 {
		return nil, ErrMissingColumns
	}

	var entries []models.ReferenceEntry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading reference CSV row: %w", err)
		}
		if nameCol >= len(row) || symCol >= len(row) {
			continue
		}
		entries = append(entries, models.ReferenceEntry{
			Symbol:         strings.TrimSpace(row[symCol]),
			NormalizedName: Normalize(row[nameCol]),
		})
	}
	return entries, nil
}

// LoadDirectoryFile loads the reference directory from a CSV file on disk.
func LoadDirectoryFile(path string) ([]models.ReferenceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference CSV: %w", err)
	}
	defer f.Close()
	return LoadDirectory(f)
}
