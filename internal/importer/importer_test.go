package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/treepack/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Width,Height,Qty\nCrate,600,300,2\nBox,400,800,1\n", ','},
		{"semicolon", "Label;Width;Height;Qty\nCrate;600;300;2\nBox;400;800;1\n", ';'},
		{"tab", "Label\tWidth\tHeight\tQty\nCrate\t600\t300\t2\nBox\t400\t800\t1\n", '\t'},
		{"pipe", "Label|Width|Height|Qty\nCrate|600|300|2\nBox|400|800|1\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Height", "Quantity", "Type"}
	mapping, ok := DetectColumns(row)

	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 || mapping.Type != 4 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	row := []string{"Colour", "QTY", "h", "Name", "W"}
	mapping, ok := DetectColumns(row)

	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Type != 0 || mapping.Quantity != 1 || mapping.Height != 2 || mapping.Label != 3 || mapping.Width != 4 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Crate", "600", "300", "2"})

	if ok {
		t.Error("expected no header for a data row")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 || mapping.Type != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Quantity,Type\nCrate,600,300,2,1\nBox,400,800,1,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.HasErrors() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(result.Specs))
	}

	s := result.Specs[0]
	if s.Label != "Crate" || s.W != 600 || s.H != 300 || s.Num != 2 || s.Type != 1 {
		t.Errorf("unexpected first spec: %+v", s)
	}
	if result.Specs[1].Type != 2 {
		t.Errorf("expected type 2, got %d", result.Specs[1].Type)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Crate,600,300,2\nBox,400,800,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	if result.Specs[0].Label != "Crate" || result.Specs[0].W != 600 {
		t.Errorf("unexpected first spec: %+v", result.Specs[0])
	}
}

func TestImportCSVFromReader_QuantityDefaultsToOne(t *testing.T) {
	data := "Label,Width,Height\nCrate,600,300\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	if result.Specs[0].Num != 1 {
		t.Errorf("expected quantity 1, got %d", result.Specs[0].Num)
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"invalid width", "Crate,abc,300,1"},
		{"invalid height", "Crate,600,,1"},
		{"invalid quantity", "Crate,600,300,x"},
		{"negative width", "Crate,-600,300,1"},
		{"zero quantity", "Crate,600,300,0"},
		{"fractional quantity", "Crate,600,300,2.5"},
		{"huge quantity", "Crate,600,300,99999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Label,Width,Height,Quantity\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')
			if !result.HasErrors() {
				t.Error("expected an error")
			}
			if len(result.Specs) != 0 {
				t.Errorf("expected no specs, got %d", len(result.Specs))
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Height,Quantity\nA,100,100,1\nB,abc,100,1\n\nC,50,50,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Specs) != 2 {
		t.Errorf("expected 2 valid specs, got %d", len(result.Specs))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	data := "Label,Width,Height,Quantity\n,600,300,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(result.Specs))
	}
	if result.Specs[0].Label != "Block 1" {
		t.Errorf("expected generated label 'Block 1', got '%s'", result.Specs[0].Label)
	}
}

func TestImportCSVFromReader_TypeParsing(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		warning bool
	}{
		{"0", 0, false},
		{"2", 2, false},
		{" 5 ", 5, false},
		{"", 0, false},
		{"-1", 0, true},
		{"red", 0, true},
		{"1.5", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data := "Label,Width,Height,Quantity,Type\nCrate,600,300,1," + tt.input + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')

			if len(result.Specs) != 1 {
				t.Fatalf("expected 1 spec, got %d (errors: %v)", len(result.Specs), result.Errors)
			}
			if result.Specs[0].Type != tt.want {
				t.Errorf("type %q: expected %d, got %d", tt.input, tt.want, result.Specs[0].Type)
			}
			hasWarning := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "Unknown type") {
					hasWarning = true
				}
			}
			if hasWarning != tt.warning {
				t.Errorf("type %q: warning=%v, want %v", tt.input, hasWarning, tt.warning)
			}
		})
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Width,Type\nCrate,600,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Required columns not found") && strings.Contains(e, "Height") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Required columns not found' error, got: %v", result.Errors)
	}
}

func TestImportCSVFromReader_DecimalValues(t *testing.T) {
	data := "Label,Width,Height,Quantity\nCrate,600.5,300.25,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	if result.Specs[0].W != 600.5 || result.Specs[0].H != 300.25 {
		t.Errorf("unexpected size %vx%v", result.Specs[0].W, result.Specs[0].H)
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := writeFile(t, "blocks.csv", "Label;Width;Height;Quantity\nCrate;600;300;2\nBox;400;800;1\n")

	result := ImportCSV(path)

	if len(result.Specs) != 2 {
		t.Errorf("expected 2 specs, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_MissingAndEmptyFile(t *testing.T) {
	if result := ImportCSV("/nonexistent/path/file.csv"); !result.HasErrors() {
		t.Error("expected error for nonexistent file")
	}
	if result := ImportCSV(writeFile(t, "empty.csv", "")); !result.HasErrors() {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity", "Type"},
		{"Crate", 600, 300, 2, 1},
		{"Box", 400, 800, 1, 0},
	})

	result := ImportExcel(path)

	if result.HasErrors() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(result.Specs))
	}
	s := result.Specs[0]
	if s.Label != "Crate" || s.W != 600 || s.H != 300 || s.Num != 2 || s.Type != 1 {
		t.Errorf("unexpected first spec: %+v", s)
	}
}

func TestImportExcel_ReorderedColumns(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Qty", "Name", "Height", "Width"},
		{2, "Crate", 300, 600},
	})

	result := ImportExcel(path)

	if len(result.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	if result.Specs[0].Label != "Crate" || result.Specs[0].W != 600 || result.Specs[0].Num != 2 {
		t.Errorf("unexpected spec: %+v", result.Specs[0])
	}
}

func TestImportExcel_Errors(t *testing.T) {
	if result := ImportExcel("/nonexistent/file.xlsx"); !result.HasErrors() {
		t.Error("expected error for nonexistent file")
	}

	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity"},
		{"Crate", "abc", 300, 2},
	})
	if result := ImportExcel(path); !result.HasErrors() {
		t.Error("expected error for invalid width")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func createTestDXF(t *testing.T, rects ...[4]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.dxf")

	d := dxf.NewDrawing()
	for _, r := range rects {
		x, y, w, h := r[0], r[1], r[2], r[3]
		corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				t.Fatalf("failed to add line: %v", err)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF file: %v", err)
	}
	return path
}

func TestImportDXF_LineLoopsBecomeBlocks(t *testing.T) {
	path := createTestDXF(t,
		[4]float64{0, 0, 100, 50},
		[4]float64{200, 0, 30, 40},
		[4]float64{300, 300, 100, 50},
	)

	result := ImportDXF(path)

	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d: %+v", len(result.Specs), result.Specs)
	}

	counts := map[string]int{}
	for _, s := range result.Specs {
		counts[formatNumber(s.W)+"x"+formatNumber(s.H)] = s.Num
	}
	if counts["100x50"] != 2 {
		t.Errorf("expected two 100x50 blocks, got %v", counts)
	}
	if counts["30x40"] != 1 {
		t.Errorf("expected one 30x40 block, got %v", counts)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/file.dxf"); !result.HasErrors() {
		t.Error("expected error for nonexistent file")
	}
}

func outlineOf(coords ...float64) outline {
	var o outline
	for i := 0; i+1 < len(coords); i += 2 {
		o = append(o, model.Point{X: coords[i], Y: coords[i+1]})
	}
	return o
}

func TestChainSegments_DropsOpenChains(t *testing.T) {
	segs := pointsToSegments(outlineOf(0, 0, 10, 0, 10, 10))
	if got := chainSegments(segs, 0.01); len(got) != 0 {
		t.Errorf("expected no closed outlines, got %d", len(got))
	}

	closed := pointsToSegments(outlineOf(0, 0, 10, 0, 10, 10, 0, 10, 0, 0))
	got := chainSegments(closed, 0.01)
	if len(got) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(got))
	}
	if b := got[0].bounds(); b.W != 10 || b.H != 10 {
		t.Errorf("unexpected bounds %v", b)
	}
}

// ─── ImportFile Tests ──────────────────────────────────────

func TestImportFile_DispatchesByExtension(t *testing.T) {
	csvPath := writeFile(t, "blocks.csv", "Label,Width,Height,Quantity\nCrate,600,300,2\n")
	if result := ImportFile(csvPath); len(result.Specs) != 1 || result.Specs[0].Label != "Crate" {
		t.Errorf("csv import: %+v", result)
	}

	txtPath := writeFile(t, "blocks.txt", "100x100x3x0\n60x60x2x1\n")
	result := ImportFile(txtPath)
	if len(result.Specs) != 2 || result.Specs[1].Type != 1 {
		t.Errorf("text import: %+v", result)
	}

	xlsxPath := createTestExcel(t, [][]interface{}{{"Crate", 10, 20, 1}})
	if result := ImportFile(xlsxPath); len(result.Specs) != 1 {
		t.Errorf("excel import: %+v", result)
	}
}

func TestImportCSVFromReader_WholeDecimalQuantity(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Crate,600,300,2.0,1.0\n"), ',')

	if len(result.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d (errors: %v)", len(result.Specs), result.Errors)
	}
	if result.Specs[0].Num != 2 || result.Specs[0].Type != 1 {
		t.Errorf("unexpected spec: %+v", result.Specs[0])
	}
}
