package engine

import (
	"math"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/packerr"
)

// GrowDirection names the way a growing container was enlarged.
type GrowDirection int

const (
	GrowSeed  GrowDirection = iota // Empty root sized to the first block
	GrowRight                      // Width extended by the block width
	GrowDown                       // Height extended by the block height
	GrowBoth                       // Both sides extended
)

func (d GrowDirection) String() string {
	switch d {
	case GrowSeed:
		return "seed"
	case GrowRight:
		return "right"
	case GrowDown:
		return "down"
	default:
		return "both"
	}
}

// Observer receives placement events from a Packer. Implementations must not
// retain or mutate the packer.
type Observer interface {
	OnPlace(index int, b model.Block)
	OnGrow(index int, dir GrowDirection, root model.Rect)
	OnUnfit(index int, b model.Block)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnPlace(int, model.Block)             {}
func (NoopObserver) OnGrow(int, GrowDirection, model.Rect) {}
func (NoopObserver) OnUnfit(int, model.Block)             {}

// missHandler decides what happens when no free region holds a block.
// It returns the region to place into, or nil to leave the block unfit.
type missHandler interface {
	handleMiss(p *Packer, index int, w, h float64) (*node, error)
}

// Packer places blocks into a binary partition tree. A Packer owns its tree
// exclusively and is not safe for concurrent use.
type Packer struct {
	root     *node
	policy   missHandler
	observer Observer
}

// PackerOption configures a Packer.
type PackerOption func(*Packer)

// WithObserver registers o for placement events.
func WithObserver(o Observer) PackerOption {
	return func(p *Packer) {
		if o != nil {
			p.observer = o
		}
	}
}

// NewFixed creates a packer over a fixed w x h container. Blocks that find
// no free region are left unfit.
func NewFixed(w, h float64, opts ...PackerOption) (*Packer, error) {
	if !finite(w) || !finite(h) || w <= 0 || h <= 0 {
		return nil, packerr.New(packerr.ErrCodeInvalidDimension,
			"container size %gx%g: both sides must be positive", w, h)
	}
	p := &Packer{
		root:     &node{rect: model.Rect{W: w, H: h}},
		policy:   fixedPolicy{},
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewGrowing creates a packer whose container starts empty and grows so that
// every block is placed.
func NewGrowing(opts ...PackerOption) *Packer {
	p := &Packer{
		root:     &node{},
		policy:   growingPolicy{},
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fit places blocks in input order and records each position in Block.Fit.
// Every block is validated before anything is placed, so an invalid
// dimension leaves the packer untouched. A growth that fails to produce room
// is an internal defect: Fit stops and returns an INTERNAL_ERROR.
func (p *Packer) Fit(blocks []model.Block) error {
	for i, b := range blocks {
		if err := validateBlock(i, b); err != nil {
			return err
		}
	}

	for i := range blocks {
		b := &blocks[i]
		b.Fit = nil

		n := find(p.root, b.W, b.H)
		if n == nil {
			var err error
			n, err = p.policy.handleMiss(p, i, b.W, b.H)
			if err != nil {
				return err
			}
		}
		if n == nil {
			p.observer.OnUnfit(i, *b)
			continue
		}

		at := split(n, b.W, b.H)
		b.Fit = &at
		p.observer.OnPlace(i, *b)
	}
	return nil
}

// Root returns the container rectangle.
func (p *Packer) Root() model.Rect {
	return p.root.rect
}

// Growing reports whether the container grows on demand.
func (p *Packer) Growing() bool {
	_, ok := p.policy.(growingPolicy)
	return ok
}

// Regions returns the rectangle of every tree node in pre-order.
func (p *Packer) Regions() []model.Rect {
	var out []model.Rect
	walk(p.root, func(n *node) {
		out = append(out, n.rect)
	})
	return out
}

// FreeRegions returns the free leaves that still have a positive area.
func (p *Packer) FreeRegions() []model.Rect {
	var out []model.Rect
	walk(p.root, func(n *node) {
		if !n.used && n.rect.W > 0 && n.rect.H > 0 {
			out = append(out, n.rect)
		}
	})
	return out
}

func validateBlock(i int, b model.Block) error {
	if !finite(b.W) || !finite(b.H) || b.W < 0 || b.H < 0 {
		return packerr.New(packerr.ErrCodeInvalidDimension,
			"block %d (%s): width and height must be non-negative numbers", i, b.SizeString())
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fixedPolicy never grows the container.
type fixedPolicy struct{}

func (fixedPolicy) handleMiss(*Packer, int, float64, float64) (*node, error) {
	return nil, nil
}

// growingPolicy enlarges the container, keeping it as close to square as
// the block allows, then places into the new space.
type growingPolicy struct{}

func (growingPolicy) handleMiss(p *Packer, index int, w, h float64) (*node, error) {
	dir := p.grow(w, h)
	p.observer.OnGrow(index, dir, p.root.rect)

	n := find(p.root, w, h)
	if n == nil {
		return nil, packerr.New(packerr.ErrCodeInternal,
			"block %d (%gx%g): no free region after growing %s to %gx%g",
			index, w, h, dir, p.root.rect.W, p.root.rect.H)
	}
	return n, nil
}

// grow restructures the tree so that a free region of at least w x h exists.
func (p *Packer) grow(w, h float64) GrowDirection {
	old := p.root
	r := old.rect

	// Nothing placed yet: size the root to the block instead of growing
	// both ways, which would leave a phantom free region on top of it.
	if !old.used {
		old.rect = model.Rect{W: math.Max(r.W, w), H: math.Max(r.H, h)}
		return GrowSeed
	}

	canGrowRight := h <= r.H
	canGrowDown := w <= r.W
	preferRight := canGrowRight && r.H >= r.W+w
	preferDown := canGrowDown && r.W >= r.H+h

	switch {
	case preferRight:
		p.growRight(w)
		return GrowRight
	case preferDown:
		p.growDown(h)
		return GrowDown
	case canGrowRight:
		p.growRight(w)
		return GrowRight
	case canGrowDown:
		p.growDown(h)
		return GrowDown
	default:
		p.growBoth(w, h)
		return GrowBoth
	}
}

func (p *Packer) growRight(w float64) {
	old := p.root
	r := old.rect
	p.root = &node{
		rect:  model.Rect{W: r.W + w, H: r.H},
		used:  true,
		down:  old,
		right: &node{rect: model.Rect{X: r.W, W: w, H: r.H}},
	}
}

func (p *Packer) growDown(h float64) {
	old := p.root
	r := old.rect
	p.root = &node{
		rect:  model.Rect{W: r.W, H: r.H + h},
		used:  true,
		right: old,
		down:  &node{rect: model.Rect{Y: r.H, W: r.W, H: h}},
	}
}

// growBoth adds a full-height strip on the right and a strip below the old
// root. The strip below stops at the old width so it never overlaps the
// right strip, and the old root stays in the tree under a used wrapper.
func (p *Packer) growBoth(w, h float64) {
	old := p.root
	r := old.rect
	p.root = &node{
		rect:  model.Rect{W: r.W + w, H: r.H + h},
		used:  true,
		right: &node{rect: model.Rect{X: r.W, W: w, H: r.H + h}},
		down: &node{
			rect:  model.Rect{W: r.W, H: r.H + h},
			used:  true,
			right: old,
			down:  &node{rect: model.Rect{Y: r.H, W: r.W, H: h}},
		},
	}
}
