package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/piwi3910/treepack/internal/model"
)

// Shapes are drawn half a unit in so 1-unit strokes land on whole pixels,
// which is why the canvas is one unit larger than the container.
const pixelOffset = 0.5

// RenderSVG draws the placed blocks filled by type, then the outline of every
// tree region on top.
func RenderSVG(result model.PackResult, opts ...Option) []byte {
	o := newOptions(opts)
	w := result.Container.W*o.Scale + 1
	h := result.Container.H*o.Scale + 1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		formatDim(w), formatDim(h), formatDim(w), formatDim(h))

	buf.WriteString("  <g class=\"blocks\">\n")
	for _, b := range result.Blocks {
		if !b.Placed() {
			continue
		}
		r := scaleRect(b.Rect(), o.Scale)
		fmt.Fprintf(&buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s">`,
			formatDim(r.X+pixelOffset), formatDim(r.Y+pixelOffset), formatDim(r.W), formatDim(r.H),
			o.blockColor(b.Type).hex())
		fmt.Fprintf(&buf, "<title>%s</title></rect>\n", escape(blockTitle(b)))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"regions\" fill=\"none\" stroke=\"#000000\" stroke-width=\"1\">\n")
	if o.ShowRegions && len(result.Regions) > 0 {
		for _, region := range result.Regions {
			writeStrokeRect(&buf, scaleRect(region, o.Scale))
		}
	} else {
		writeStrokeRect(&buf, scaleRect(result.Container, o.Scale))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeStrokeRect(buf *bytes.Buffer, r model.Rect) {
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		formatDim(r.X+pixelOffset), formatDim(r.Y+pixelOffset), formatDim(r.W), formatDim(r.H))
}

func scaleRect(r model.Rect, s float64) model.Rect {
	return model.Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

func blockTitle(b model.Block) string {
	if b.Label == "" {
		return b.SizeString()
	}
	return b.Label + " " + b.SizeString()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
