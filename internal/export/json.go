package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/treepack/internal/model"
)

// Document is the JSON form of a packing run: the result plus its report.
type Document struct {
	model.PackResult
	Report model.Report `json:"report"`
}

// ExportJSON writes result and its report as indented JSON.
func ExportJSON(w io.Writer, result model.PackResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{PackResult: result, Report: model.BuildReport(result)}); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// ExportJSONFile writes the JSON document to path.
func ExportJSONFile(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := ExportJSON(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
