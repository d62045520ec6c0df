// Package importer reads block lists from text, CSV, Excel and DXF files.
// CSV and Excel imports detect the delimiter and map columns by
// case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Specs    []model.BlockSpec
	Errors   []string
	Warnings []string
}

// csvDelimiters are the delimiters DetectCSVDelimiter chooses from, with
// the names used in the detection warning.
var csvDelimiters = []struct {
	r    rune
	name string
}{{',', "comma"}, {';', "semicolon"}, {'\t', "tab"}, {'|', "pipe"}}

// DetectCSVDelimiter picks the delimiter that splits data into more than one
// column with the most rows matching the first row's width. Row agreement
// outweighs column count; on equal scores the earlier candidate wins.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, d := range csvDelimiters {
		records, err := readCSV(bytes.NewReader(data), d.r)
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		width := len(records[0])
		score := width
		for _, row := range records {
			if len(row) == width {
				score += 10
			}
		}
		if score > bestScore {
			best, bestScore = d.r, score
		}
	}
	return best
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func delimiterName(r rune) string {
	for _, d := range csvDelimiters {
		if d.r == r {
			return d.name
		}
	}
	return string(r)
}

// ColumnMapping holds the index of each column in a table, or -1 when the
// table has no such column.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
	Type     int
}

// positionalColumns is used for tables without a header row.
var positionalColumns = ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Type: 4}

// headerNames maps lowercase header text to the mapping field it selects.
var headerNames = map[string]func(*ColumnMapping) *int{}

func init() {
	add := func(field func(*ColumnMapping) *int, names ...string) {
		for _, n := range names {
			headerNames[n] = field
		}
	}
	add(func(m *ColumnMapping) *int { return &m.Label },
		"label", "name", "block", "block name", "description", "desc", "item")
	add(func(m *ColumnMapping) *int { return &m.Width },
		"width", "w", "length", "len", "x")
	add(func(m *ColumnMapping) *int { return &m.Height },
		"height", "h", "depth", "d", "y")
	add(func(m *ColumnMapping) *int { return &m.Quantity },
		"quantity", "qty", "count", "num", "amount", "pcs", "pieces")
	add(func(m *ColumnMapping) *int { return &m.Type },
		"type", "color", "colour", "category", "group", "kind")
}

// DetectColumns maps a header row to column indices, matching header text
// case-insensitively. The first column with a given meaning wins. When no
// cell is a known header name, the positional mapping is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Type: -1}
	found := false
	for i, cell := range row {
		field, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		found = true
		if idx := field(&m); *idx < 0 {
			*idx = i
		}
	}
	if !found {
		return positionalColumns, false
	}
	return m, true
}

// missing lists the required columns a header row did not name.
func (m ColumnMapping) missing() []string {
	var names []string
	if m.Width < 0 {
		names = append(names, "Width")
	}
	if m.Height < 0 {
		names = append(names, "Height")
	}
	return names
}

// tableRow is one data row read through a column mapping.
type tableRow struct {
	cells   []string
	columns ColumnMapping
}

func (r tableRow) get(idx int) string {
	if idx < 0 || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func (r tableRow) empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// spec converts the row. An unusable type is reported as a warning and
// leaves the type at 0; any other bad value rejects the row.
func (r tableRow) spec(n int) (spec model.BlockSpec, warning string, err error) {
	spec.Label = r.get(r.columns.Label)
	if spec.Label == "" {
		spec.Label = fmt.Sprintf("Block %d", n+1)
	}

	for _, side := range []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"width", r.columns.Width, &spec.W},
		{"height", r.columns.Height, &spec.H},
	} {
		v := r.get(side.idx)
		if v == "" {
			return spec, "", fmt.Errorf("missing %s", side.name)
		}
		if *side.dst, err = parseSide(side.name, v); err != nil {
			return spec, "", err
		}
	}

	spec.Num = 1
	if v := r.get(r.columns.Quantity); v != "" {
		if spec.Num, err = parseCount(v); err != nil {
			return spec, "", err
		}
	}
	if spec.W <= 0 || spec.H <= 0 || spec.Num <= 0 {
		return spec, "", fmt.Errorf("width, height and quantity must be positive")
	}

	if v := r.get(r.columns.Type); v != "" {
		if spec.Type, err = parseType(v); err != nil {
			spec.Type = 0
			warning = fmt.Sprintf("Unknown type '%s', defaulting to 0", v)
		}
	}
	return spec, warning, nil
}

// ImportCSV imports block specs from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimiterName(delimiter)))
	}
	return importCSV(bytes.NewReader(data), delimiter, warnings)
}

// ImportCSVFromReader imports block specs from r using a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	return importCSV(r, delimiter, nil)
}

func importCSV(r io.Reader, delimiter rune, warnings []string) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}, Warnings: warnings}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportExcel imports block specs from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"Sheet is empty"}}
	}
	return importFromRows(rows, "Row", nil)
}

// importFromRows converts CSV or Excel rows. rowPrefix names rows in
// messages ("Line" or "Row").
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	columns, hasHeader := DetectColumns(rows[0])
	first := 0
	switch {
	case hasHeader:
		if missing := columns.missing(); len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		first = 1
	case len(rows[0]) >= 3:
		// Unrecognized header names still make a non-numeric width cell.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][columns.Width]), 64); err != nil {
			first = 1
		}
	}
	if first == 1 {
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := first; i < len(rows); i++ {
		row := tableRow{cells: rows[i], columns: columns}
		if row.empty() {
			continue
		}
		spec, warning, err := row.spec(len(result.Specs))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %d: %v", rowPrefix, i+1, err))
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %d: %s", rowPrefix, i+1, warning))
		}
		result.Specs = append(result.Specs, spec)
	}
	return result
}

// ImportFile imports a block list, choosing the reader from the file extension.
// Files without a known extension are read as text block lists.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportText(path)
	}
}

// HasErrors reports whether the import produced any errors.
func (r ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}
