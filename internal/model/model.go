package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Point represents a placement origin in container space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. X, Y is the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Area returns W * H.
func (r Rect) Area() float64 { return r.W * r.H }

// Intersects reports whether r and o share an area greater than zero.
// Rectangles that only touch along an edge, and degenerate rectangles with
// zero width or height, do not intersect anything.
func (r Rect) Intersects(o Rect) bool {
	return r.W > 0 && r.H > 0 && o.W > 0 && o.H > 0 &&
		r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@(%g,%g)", r.W, r.H, r.X, r.Y)
}

// Block is a rectangle to be placed. Fit is nil until the block has been
// placed; after a fixed packer run a nil Fit means the block did not fit.
type Block struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Type  int     `json:"type"`
	Fit   *Point  `json:"fit,omitempty"`
}

// NewBlock creates an unplaced block with a short random ID.
func NewBlock(label string, w, h float64, typ int) Block {
	return Block{
		ID:    uuid.New().String()[:8],
		Label: label,
		W:     w,
		H:     h,
		Type:  typ,
	}
}

// Area returns the block area.
func (b Block) Area() float64 { return b.W * b.H }

// Placed reports whether the block received a position.
func (b Block) Placed() bool { return b.Fit != nil }

// Rect returns the occupied rectangle, or the zero Rect when unplaced.
func (b Block) Rect() Rect {
	if b.Fit == nil {
		return Rect{}
	}
	return Rect{X: b.Fit.X, Y: b.Fit.Y, W: b.W, H: b.H}
}

// SizeString formats the block dimensions as "WxH".
func (b Block) SizeString() string {
	return formatDim(b.W) + "x" + formatDim(b.H)
}

// BlockSpec is one entry of a block list: Num identical blocks of W x H.
type BlockSpec struct {
	Label string  `json:"label,omitempty" toml:"label,omitempty"`
	W     float64 `json:"w" toml:"w"`
	H     float64 `json:"h" toml:"h"`
	Num   int     `json:"num" toml:"num"`
	Type  int     `json:"type" toml:"type"`
}

// MaxBlockCount is the largest quantity accepted for a single block spec.
const MaxBlockCount = 100000

// Expand produces one Block per unit of quantity, preserving input order.
// Specs with Num < 1 contribute nothing.
func Expand(specs []BlockSpec) []Block {
	var blocks []Block
	for i, s := range specs {
		label := s.Label
		if label == "" {
			label = fmt.Sprintf("Block %d", i+1)
		}
		for n := 0; n < s.Num; n++ {
			blocks = append(blocks, NewBlock(label, s.W, s.H, s.Type))
		}
	}
	return blocks
}

// ContainerSize selects the container policy: Auto means a growing
// container, otherwise a fixed W x H container.
type ContainerSize struct {
	Auto bool    `json:"auto" toml:"auto"`
	W    float64 `json:"w,omitempty" toml:"w,omitempty"`
	H    float64 `json:"h,omitempty" toml:"h,omitempty"`
}

// Automatic is the growing container size.
var Automatic = ContainerSize{Auto: true}

// ParseContainerSize accepts "automatic" (or "auto") and "WxH".
func ParseContainerSize(s string) (ContainerSize, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "automatic" || v == "auto" {
		return Automatic, nil
	}
	dims := strings.Split(v, "x")
	if len(dims) != 2 {
		return ContainerSize{}, fmt.Errorf("invalid container size %q: want automatic or WxH", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(dims[0]), 64)
	if err != nil {
		return ContainerSize{}, fmt.Errorf("invalid container width %q: %w", dims[0], err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(dims[1]), 64)
	if err != nil {
		return ContainerSize{}, fmt.Errorf("invalid container height %q: %w", dims[1], err)
	}
	if w <= 0 || h <= 0 || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return ContainerSize{}, fmt.Errorf("invalid container size %q: both sides must be positive", s)
	}
	return ContainerSize{W: w, H: h}, nil
}

func (c ContainerSize) String() string {
	if c.Auto {
		return "automatic"
	}
	return formatDim(c.W) + "x" + formatDim(c.H)
}

// ContainerPresets mirrors the size choices offered next to "automatic".
var ContainerPresets = []ContainerSize{
	Automatic,
	{W: 300, H: 300},
	{W: 500, H: 500},
	{W: 800, H: 600},
	{W: 1000, H: 800},
	{W: 1200, H: 1200},
}

// PackSettings holds the options for one packing run.
type PackSettings struct {
	Size  ContainerSize `json:"size" toml:"size"`
	Order string        `json:"order" toml:"order"`
	Seed  int64         `json:"seed" toml:"seed"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() PackSettings {
	return PackSettings{
		Size:  Automatic,
		Order: "maxside",
		Seed:  42,
	}
}

// PackResult holds the outcome of a packing run.
type PackResult struct {
	Container Rect    `json:"container"`
	Blocks    []Block `json:"blocks"`
	Regions   []Rect  `json:"regions,omitempty"` // every tree node, pre-order
	Growing   bool    `json:"growing"`
	Order     string  `json:"order,omitempty"`
}

// Placed returns the blocks that received a position.
func (r PackResult) Placed() []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Placed() {
			out = append(out, b)
		}
	}
	return out
}

// Unfit returns the blocks that did not fit, in input order.
func (r PackResult) Unfit() []Block {
	var out []Block
	for _, b := range r.Blocks {
		if !b.Placed() {
			out = append(out, b)
		}
	}
	return out
}

// UsedArea returns the total area of placed blocks.
func (r PackResult) UsedArea() float64 {
	var total float64
	for _, b := range r.Blocks {
		if b.Placed() {
			total += b.Area()
		}
	}
	return total
}

// FillRatio returns the percentage of the container covered by placed blocks.
func (r PackResult) FillRatio() float64 {
	ca := r.Container.Area()
	if ca == 0 {
		return 0
	}
	return (r.UsedArea() / ca) * 100.0
}

// Project ties a block list and its settings together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Specs    []BlockSpec  `json:"specs"`
	Settings PackSettings `json:"settings"`
	Result   *PackResult  `json:"result,omitempty"`
}

// NewProject returns an untitled project with no blocks and default settings.
func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Specs:    []BlockSpec{},
		Settings: DefaultSettings(),
	}
}

// formatDim prints whole numbers without a fractional part.
func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
