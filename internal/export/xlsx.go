package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/treepack/internal/model"
)

// Sheet names used by ExportXLSX.
const (
	PlacementsSheet = "Placements"
	SummarySheet    = "Summary"
)

var placementHeader = []interface{}{"ID", "Label", "Width", "Height", "Type", "X", "Y", "Placed"}

// ExportXLSX writes a workbook with one row per block on the Placements
// sheet and the packing report on the Summary sheet.
func ExportXLSX(path string, result model.PackResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PlacementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRow(f, PlacementsSheet, 1, placementHeader); err != nil {
		return err
	}
	for i, b := range result.Blocks {
		row := []interface{}{b.ID, b.Label, b.W, b.H, b.Type, "", "", "no"}
		if b.Placed() {
			row[5], row[6], row[7] = b.Fit.X, b.Fit.Y, "yes"
		}
		if err := writeRow(f, PlacementsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	rep := model.BuildReport(result)
	summary := [][]interface{}{
		{"Container Width", rep.Container.W},
		{"Container Height", rep.Container.H},
		{"Mode", containerKind(result)},
		{"Order", orderName(result)},
		{"Blocks", rep.Total},
		{"Placed", rep.Placed},
		{"Unfit", rep.Unfit},
		{"Used Area", rep.UsedArea},
		{"Fill Ratio (%)", rep.FillRatio},
	}
	for i, row := range summary {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	for i, size := range rep.UnfitSizes {
		if err := writeRow(f, SummarySheet, len(summary)+2+i, []interface{}{"Unfit", size}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
