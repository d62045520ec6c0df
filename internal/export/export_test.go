package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/treepack/internal/model"
)

// buildTestResult creates a small fixed-container result with one unfit block.
func buildTestResult() model.PackResult {
	return model.PackResult{
		Container: model.Rect{W: 100, H: 100},
		Blocks: []model.Block{
			{ID: "b1", Label: "Left", W: 50, H: 50, Type: 0, Fit: &model.Point{X: 0, Y: 0}},
			{ID: "b2", Label: "Right", W: 30, H: 20, Type: 1, Fit: &model.Point{X: 50, Y: 0}},
			{ID: "b3", Label: "Big", W: 200, H: 10, Type: 2},
		},
		Regions: []model.Rect{
			{W: 100, H: 100},
			{X: 50, W: 50, H: 50},
			{Y: 50, W: 100, H: 50},
		},
		Order: "maxside",
	}
}

func assertFileNotEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output file is empty")
	}
}

// ─── SVG ───────────────────────────────────────────────────

func TestRenderSVG_BlocksAndRegions(t *testing.T) {
	svg := string(RenderSVG(buildTestResult()))

	if !strings.HasPrefix(svg, "<svg ") {
		t.Fatalf("expected svg root element, got %q", svg[:20])
	}
	if !strings.Contains(svg, `width="101" height="101"`) {
		t.Error("expected canvas one unit larger than the container")
	}
	if !strings.Contains(svg, `fill="#e5e059"`) || !strings.Contains(svg, `fill="#5ae681"`) {
		t.Error("expected blocks filled with the palette color of their type")
	}
	if strings.Contains(svg, "Big 200x10") {
		t.Error("unfit block must not be drawn")
	}
	if got := strings.Count(svg, "<title>"); got != 2 {
		t.Errorf("expected 2 block titles, got %d", got)
	}
	if !strings.Contains(svg, `<rect x="50.5" y="0.5" width="50" height="50"/>`) {
		t.Error("expected region outline for the right remainder")
	}
}

func TestRenderSVG_RegionsOff(t *testing.T) {
	svg := string(RenderSVG(buildTestResult(), WithRegions(false), WithScale(2)))

	if !strings.Contains(svg, `width="201" height="201"`) {
		t.Error("expected scaled canvas")
	}
	if !strings.Contains(svg, `<rect x="0.5" y="0.5" width="200" height="200"/>`) {
		t.Error("expected container outline only")
	}
	if strings.Contains(svg, `width="100" height="100"/>`) {
		t.Error("region outlines should be hidden")
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	result := model.PackResult{
		Container: model.Rect{W: 10, H: 10},
		Blocks:    []model.Block{{Label: "a<b>&c", W: 10, H: 10, Fit: &model.Point{}}},
	}
	svg := string(RenderSVG(result))
	if strings.Contains(svg, "a<b>") {
		t.Error("label must be escaped")
	}
	if !strings.Contains(svg, "a&lt;b&gt;&amp;c") {
		t.Errorf("expected escaped label in %s", svg)
	}
}

func TestRenderSVG_ExtremeTypeWrapsPalette(t *testing.T) {
	result := model.PackResult{
		Container: model.Rect{W: 10, H: 10},
		Blocks:    []model.Block{{W: 10, H: 10, Type: math.MinInt64, Fit: &model.Point{}}},
	}
	svg := string(RenderSVG(result))
	if !strings.Contains(svg, `fill="#5ae681"`) {
		t.Errorf("expected wrapped palette color in %s", svg)
	}
}

func TestRenderSVG_CustomPalette(t *testing.T) {
	svg := string(RenderSVG(buildTestResult(), WithPalette([]string{"#112233", "not-a-color"})))
	if !strings.Contains(svg, `fill="#112233"`) {
		t.Error("expected custom palette color")
	}
	if !strings.Contains(svg, `fill="#c8c8c8"`) {
		t.Error("expected fallback color for invalid palette entry")
	}
}

// ─── PNG ───────────────────────────────────────────────────

func TestRenderPNG_Pixels(t *testing.T) {
	data, err := RenderPNG(buildTestResult())
	if err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 101 || b.Dy() != 101 {
		t.Fatalf("expected 101x101 image, got %dx%d", b.Dx(), b.Dy())
	}

	r, g, b, _ := img.At(25, 25).RGBA()
	if r>>8 != 0xE5 || g>>8 != 0xE0 || b>>8 != 0x59 {
		t.Errorf("expected type 0 fill at (25,25), got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(75, 75).RGBA()
	if r>>8 != 0xFF || g>>8 != 0xFF || b>>8 != 0xFF {
		t.Errorf("expected white background at (75,75), got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(0, 40).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("expected black container outline on the left edge")
	}
}

// ─── PDF ───────────────────────────────────────────────────

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")

	if err := ExportPDF(path, buildTestResult()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileNotEmpty(t, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestExportPDF_EmptyContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.PackResult{}); err == nil {
		t.Fatal("expected error for empty container")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty container")
	}
}

func TestExportPDF_GrowingWithoutRegions(t *testing.T) {
	result := buildTestResult()
	result.Growing = true
	result.Blocks = result.Blocks[:2]
	path := filepath.Join(t.TempDir(), "growing.pdf")

	if err := ExportPDF(path, result, WithRegions(false)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

// ─── Labels ────────────────────────────────────────────────

func TestCollectLabelInfos_PlacedOnly(t *testing.T) {
	labels := CollectLabelInfos(buildTestResult())

	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels[1].ID != "b2" || labels[1].X != 50 || labels[1].Type != 1 {
		t.Errorf("unexpected label: %+v", labels[1])
	}
}

func TestLabelInfo_JSON(t *testing.T) {
	data, err := json.Marshal(LabelInfo{ID: "x", Label: "A", Width: 10, Height: 20, Type: 3, X: 1, Y: 2})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"id":"x","label":"A","w":10,"h":20,"type":3,"x":1,"y":2}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestResult()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

func TestExportLabels_MultiplePages(t *testing.T) {
	result := model.PackResult{Container: model.Rect{W: 1000, H: 1000}}
	for i := 0; i < labelsPerPage+5; i++ {
		b := model.NewBlock("A very long block label that needs truncating", 10, 10, i%3)
		b.Fit = &model.Point{X: float64(i * 10), Y: 0}
		result.Blocks = append(result.Blocks, b)
	}
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

func TestExportLabels_NothingPlaced(t *testing.T) {
	result := model.PackResult{
		Container: model.Rect{W: 10, H: 10},
		Blocks:    []model.Block{{W: 20, H: 20}},
	}
	if err := ExportLabels(filepath.Join(t.TempDir(), "labels.pdf"), result); err == nil {
		t.Fatal("expected error when no blocks are placed")
	}
}

// ─── XLSX ──────────────────────────────────────────────────

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := ExportXLSX(path, buildTestResult()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(PlacementsSheet)
	if err != nil {
		t.Fatalf("failed to read placements: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][7] != "Placed" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][1] != "Right" || rows[2][5] != "50" || rows[2][7] != "yes" {
		t.Errorf("unexpected placement row: %v", rows[2])
	}
	if rows[3][7] != "no" {
		t.Errorf("expected unfit block marked no, got %v", rows[3])
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	found := map[string]string{}
	for _, row := range summary {
		if len(row) >= 2 {
			found[row[0]] = row[1]
		}
	}
	if found["Unfit"] != "200x10" {
		t.Errorf("expected unfit size listed, got %q", found["Unfit"])
	}
	if found["Placed"] != "2" {
		t.Errorf("expected 2 placed, got %q", found["Placed"])
	}
	if found["Fill Ratio (%)"] != "31" {
		t.Errorf("expected fill ratio 31, got %q", found["Fill Ratio (%)"])
	}
}

// ─── DXF ───────────────────────────────────────────────────

func TestExportDXF_LineLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")

	if err := ExportDXF(path, buildTestResult()); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	d, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("failed to read DXF back: %v", err)
	}
	lines := 0
	for _, e := range d.Entities() {
		if _, ok := e.(*entity.Line); ok {
			lines++
		}
	}
	// container + 2 placed blocks, 4 edges each
	if lines != 12 {
		t.Errorf("expected 12 lines, got %d", lines)
	}
}

func TestExportDXF_EmptyContainer(t *testing.T) {
	if err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), model.PackResult{}); err == nil {
		t.Fatal("expected error for empty container")
	}
}

// ─── JSON ──────────────────────────────────────────────────

func TestExportJSON_IncludesReport(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, buildTestResult()); err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Blocks) != 3 || doc.Container.W != 100 {
		t.Errorf("unexpected result: %+v", doc.PackResult)
	}
	if doc.Report.Unfit != 1 || doc.Report.UnfitSizes[0] != "200x10" {
		t.Errorf("unexpected report: %+v", doc.Report)
	}
	if doc.Blocks[2].Fit != nil {
		t.Error("unfit block should have no position")
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := ExportJSONFile(path, buildTestResult()); err != nil {
		t.Fatalf("ExportJSONFile returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}
