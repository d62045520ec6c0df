package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/treepack/internal/model"
)

// DXF layer names used by ExportDXF.
const (
	ContainerLayer = "CONTAINER"
	BlocksLayer    = "BLOCKS"
)

// ExportDXF writes the container outline and every placed block as closed
// LINE loops. DXF's Y axis points up, so the layout is flipped vertically
// to keep the origin block in the top-left corner when viewed.
func ExportDXF(path string, result model.PackResult) error {
	if result.Container.Area() == 0 {
		return fmt.Errorf("nothing to export: container is empty")
	}

	d := dxf.NewDrawing()
	flip := result.Container.H

	if _, err := d.AddLayer(ContainerLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", ContainerLayer, err)
	}
	if err := drawRectLines(d, result.Container, flip); err != nil {
		return err
	}

	if _, err := d.AddLayer(BlocksLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", BlocksLayer, err)
	}
	for _, b := range result.Blocks {
		if !b.Placed() {
			continue
		}
		if err := drawRectLines(d, b.Rect(), flip); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRectLines adds the four edges of r to the current layer.
func drawRectLines(d *drawing.Drawing, r model.Rect, flip float64) error {
	top := flip - r.Y
	bottom := flip - r.Bottom()
	corners := [4][2]float64{
		{r.X, top},
		{r.Right(), top},
		{r.Right(), bottom},
		{r.X, bottom},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}
	}
	return nil
}
