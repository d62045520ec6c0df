package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/treepack/internal/model"
)

// fieldSeparator splits a block line on anything that is not part of a number.
var fieldSeparator = regexp.MustCompile(`[^0-9.]`)

// ParseText reads a block list in the "WxHxNUMxTYPE" line format. Any
// character other than a digit or '.' separates fields, so "100x50x3x1",
// "100,50,3,1" and "100*50*3*1" are equivalent. A line needs at least three
// fields. With exactly three fields the count is 1 and the third field is
// ignored; otherwise the third field is the count and the fourth the type.
// Every separator character starts a new field, so "10 x 10" has an empty
// height field. Lines with fewer fields are skipped silently. Lines whose
// numbers cannot be parsed, and lines whose count or type is fractional or
// out of range, are skipped with a warning.
func ParseText(s string) ([]model.BlockSpec, []string) {
	var specs []model.BlockSpec
	var warnings []string

	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		fields := fieldSeparator.Split(line, -1)
		if len(fields) < 3 {
			continue
		}

		spec, err := parseTextFields(fields)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Line %d: %v", i+1, err))
			continue
		}
		specs = append(specs, spec)
	}
	return specs, warnings
}

func parseTextFields(fields []string) (model.BlockSpec, error) {
	w, err := parseSide("width", fields[0])
	if err != nil {
		return model.BlockSpec{}, err
	}
	h, err := parseSide("height", fields[1])
	if err != nil {
		return model.BlockSpec{}, err
	}

	spec := model.BlockSpec{W: w, H: h, Num: 1}
	if len(fields) == 3 {
		return spec, nil
	}

	if spec.Num, err = parseCount(fields[2]); err != nil {
		return model.BlockSpec{}, err
	}
	// A type field that is not a number at all leaves the type at 0.
	if _, err := strconv.ParseFloat(fields[3], 64); err == nil {
		if spec.Type, err = parseType(fields[3]); err != nil {
			return model.BlockSpec{}, err
		}
	}
	return spec, nil
}

// FormatText writes specs in the format read by ParseText, one
// "WxHxNUMxTYPE" line per spec. Counts below 1 are written as 1.
func FormatText(specs []model.BlockSpec) string {
	var b strings.Builder
	for _, s := range specs {
		num := s.Num
		if num < 1 {
			num = 1
		}
		fmt.Fprintf(&b, "%sx%sx%dx%d\n", formatNumber(s.W), formatNumber(s.H), num, s.Type)
	}
	return b.String()
}

// ImportText imports a block list file in the text format.
func ImportText(path string) ImportResult {
	result := ImportResult{}

	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	defer f.Close()

	return ImportTextFromReader(f)
}

// ImportTextFromReader imports a text block list from r.
func ImportTextFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	result.Specs, result.Warnings = ParseText(sb.String())
	if len(result.Specs) == 0 {
		result.Errors = append(result.Errors, "No block lines found")
	}
	return result
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
