package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/piwi3910/treepack/internal/model"
)

var (
	strokeColor = color.RGBA{A: 255}
	background  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RenderPNG rasterizes the same picture as RenderSVG: a white canvas,
// placed blocks filled by type and 1-pixel region outlines.
func RenderPNG(result model.PackResult, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w := int(math.Ceil(result.Container.W*o.Scale)) + 1
	h := int(math.Ceil(result.Container.H*o.Scale)) + 1

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for _, b := range result.Blocks {
		if !b.Placed() {
			continue
		}
		c := o.blockColor(b.Type)
		fill := color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
		draw.Draw(img, pixelRect(scaleRect(b.Rect(), o.Scale)), &image.Uniform{fill}, image.Point{}, draw.Src)
	}

	regions := []model.Rect{result.Container}
	if o.ShowRegions && len(result.Regions) > 0 {
		regions = result.Regions
	}
	for _, r := range regions {
		strokeRect(img, pixelRect(scaleRect(r, o.Scale)))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pixelRect rounds a rectangle to whole pixels.
func pixelRect(r model.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

// strokeRect draws the outline of r one pixel wide. Its right and bottom
// edges sit on r.Max, so adjacent regions share an edge.
func strokeRect(img *image.RGBA, r image.Rectangle) {
	for x := r.Min.X; x <= r.Max.X; x++ {
		img.Set(x, r.Min.Y, strokeColor)
		img.Set(x, r.Max.Y, strokeColor)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		img.Set(r.Min.X, y, strokeColor)
		img.Set(r.Max.X, y, strokeColor)
	}
}
