package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/treepack/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a layout page showing the container and its blocks,
// followed by a summary page with the fill ratio and the blocks that did
// not fit.
func ExportPDF(path string, result model.PackResult, opts ...Option) error {
	if result.Container.Area() == 0 {
		return fmt.Errorf("nothing to export: container is empty")
	}
	o := newOptions(opts)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result, o)

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the container and its placed blocks on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackResult, o Options) {
	c := result.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Container %s x %s (%s)", formatDim(c.W), formatDim(c.H), containerKind(result))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	rep := model.BuildReport(result)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Blocks: %d | Placed: %d | Unfit: %d | Fill: %.0f%% | Order: %s",
		rep.Total, rep.Placed, rep.Unfit, rep.FillRatio, orderName(result))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/c.W, drawHeight/c.H)

	canvasW := c.W * scale
	canvasH := c.H * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(250, 250, 250)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, b := range result.Blocks {
		if !b.Placed() {
			continue
		}
		col := o.blockColor(b.Type)
		bw := b.W * scale
		bh := b.H * scale
		bx := offsetX + b.Fit.X*scale
		by := offsetY + b.Fit.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 15 && bh > 8 {
			drawBlockLabel(pdf, b, bx, by, bw, bh)
		}
	}

	if o.ShowRegions {
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.1)
		for _, r := range result.Regions {
			if r.W == 0 || r.H == 0 {
				continue
			}
			pdf.Rect(offsetX+r.X*scale, offsetY+r.Y*scale, r.W*scale, r.H*scale, "D")
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawTypeLegend(pdf, result, o, offsetY+canvasH+6)
}

func drawBlockLabel(pdf *fpdf.Fpdf, b model.Block, x, y, w, h float64) {
	pdf.SetFont("Helvetica", "", labelFontSize(w, h))
	pdf.SetTextColor(0, 0, 0)

	label := b.Label
	dims := b.SizeString()
	labelW := pdf.GetStringWidth(label)
	dimsW := pdf.GetStringWidth(dims)

	if label != "" && labelW < w-2 {
		pdf.SetXY(x+(w-labelW)/2, y+h/2-4)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
	if h > 14 && dimsW < w-2 {
		pdf.SetXY(x+(w-dimsW)/2, y+h/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawDimensionAnnotations adds width and height labels outside the container.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Rect, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := formatDim(c.W)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := formatDim(c.H)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTypeLegend lists each block type with its color and placed count.
func drawTypeLegend(pdf *fpdf.Fpdf, result model.PackResult, o Options, startY float64) {
	counts := map[int]int{}
	for _, b := range result.Blocks {
		if b.Placed() {
			counts[b.Type]++
		}
	}
	if len(counts) == 0 {
		return
	}
	types := make([]int, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Ints(types)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Block types:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	for _, t := range types {
		col := o.blockColor(t)
		label := fmt.Sprintf("Type %d (%d)", t, counts[t])
		labelW := pdf.GetStringWidth(label) + 6

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderSummaryPage draws the statistics page.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	rep := model.BuildReport(result)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%s x %s (%s)", formatDim(rep.Container.W), formatDim(rep.Container.H), containerKind(result))},
		{"Order", orderName(result)},
		{"Blocks", fmt.Sprintf("%d", rep.Total)},
		{"Placed", fmt.Sprintf("%d", rep.Placed)},
		{"Unfit", fmt.Sprintf("%d", rep.Unfit)},
		{"Used Area", formatDim(rep.UsedArea)},
		{"Fill Ratio", fmt.Sprintf("%.0f%%", rep.FillRatio)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if !rep.AllFit() {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("Blocks that did not fit (%d)", rep.Unfit), "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, size := range rep.UnfitSizes {
			if y > pageHeight-marginBottom-8 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "- "+size, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by treepack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns a font size that suits the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func containerKind(result model.PackResult) string {
	if result.Growing {
		return "automatic"
	}
	return "fixed"
}

func orderName(result model.PackResult) string {
	if result.Order == "" {
		return "none"
	}
	return result.Order
}
