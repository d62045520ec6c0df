// Package export renders packing results and writes them to files: SVG and
// PNG pictures, PDF layouts with QR block labels, XLSX reports, DXF drawings
// and JSON.
package export

import (
	"strconv"
	"strings"

	"github.com/piwi3910/treepack/internal/model"
)

// Options controls how a layout is drawn.
type Options struct {
	Palette     []string
	ShowRegions bool
	Scale       float64
}

// Option configures a renderer.
type Option func(*Options)

// WithPalette sets the fill colors, indexed by block type.
func WithPalette(palette []string) Option {
	return func(o *Options) {
		if len(palette) > 0 {
			o.Palette = palette
		}
	}
}

// WithRegions toggles the outline of every tree region.
func WithRegions(show bool) Option {
	return func(o *Options) { o.ShowRegions = show }
}

// WithScale multiplies every coordinate. Non-positive values are ignored.
func WithScale(scale float64) Option {
	return func(o *Options) {
		if scale > 0 {
			o.Scale = scale
		}
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		Palette:     model.DefaultPalette,
		ShowRegions: true,
		Scale:       1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rgb is an 8-bit color.
type rgb struct {
	R, G, B int
}

// fallbackColor is used for palette entries that are not "#RRGGBB".
var fallbackColor = rgb{R: 200, G: 200, B: 200}

// parseHexColor parses "#RRGGBB" or "RRGGBB".
func parseHexColor(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// blockColor returns the fill for a block type.
func (o Options) blockColor(t int) rgb {
	c, ok := parseHexColor(model.PaletteColor(o.Palette, t))
	if !ok {
		return fallbackColor
	}
	return c
}

// hex formats c as "#rrggbb".
func (c rgb) hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(v int) string {
	s := strconv.FormatInt(int64(v&0xff), 16)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
