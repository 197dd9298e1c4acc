// Package source turns spreadsheet files into the row mappings the adapters
// consume. Column names pass through untouched; the alias tables downstream
// absorb the spelling variants.
package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalogo/internal/adapter"
)

// ReadRows loads rows from an .xlsx or .csv file, dispatching on extension.
// A missing file is a fatal error for the run.
func ReadRows(path string) ([]adapter.Row, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not available: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

// readXLSX reads the first sheet: row 1 is the header, every following
// non-empty row becomes one mapping. Short rows leave trailing columns
// absent rather than empty.
func readXLSX(path string) ([]adapter.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return assemble(cells)
}

func readCSV(path string) ([]adapter.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	cells, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return assemble(cells)
}

func assemble(cells [][]string) ([]adapter.Row, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("input has no header row")
	}
	header := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []adapter.Row
	for _, record := range cells[1:] {
		row := adapter.Row{}
		empty := true
		for i, val := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = val
			if strings.TrimSpace(val) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
