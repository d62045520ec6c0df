package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/treepack/internal/model"
)

// parseSide reads a width or height cell. name is used in the error text.
func parseSide(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

// parseWhole reads a non-negative whole number no larger than limit.
// Spreadsheets often store counts as "2.0", so integral decimals are accepted.
func parseWhole(name, s string, limit int) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	if v != math.Trunc(v) || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: not a whole number", name, s)
	}
	if v > float64(limit) {
		return 0, fmt.Errorf("invalid %s %q: larger than %d", name, s, limit)
	}
	return int(v), nil
}

func parseCount(s string) (int, error) {
	return parseWhole("count", s, model.MaxBlockCount)
}

func parseType(s string) (int, error) {
	return parseWhole("type", s, math.MaxInt32)
}
