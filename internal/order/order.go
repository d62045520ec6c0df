// Package order sorts block lists before they are packed. The packer places
// blocks greedily in input order, so the order chosen here largely decides
// how tight the final packing is.
package order

import (
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/packerr"
)

// Order names.
const (
	None    = "none"
	Random  = "random"
	Width   = "width"
	Height  = "height"
	Area    = "area"
	MaxSide = "maxside"
	Type    = "type"
)

// Criterion compares two blocks. A negative result puts a first.
type Criterion func(a, b model.Block) float64

// Single criteria. Size criteria sort largest first; type sorts ascending.
var (
	ByWidth  Criterion = func(a, b model.Block) float64 { return b.W - a.W }
	ByHeight Criterion = func(a, b model.Block) float64 { return b.H - a.H }
	ByArea   Criterion = func(a, b model.Block) float64 { return b.Area() - a.Area() }
	ByMax    Criterion = func(a, b model.Block) float64 {
		return math.Max(b.W, b.H) - math.Max(a.W, a.H)
	}
	ByMin Criterion = func(a, b model.Block) float64 {
		return math.Min(b.W, b.H) - math.Min(a.W, a.H)
	}
	ByType Criterion = func(a, b model.Block) float64 { return float64(a.Type - b.Type) }
)

// composites maps each named order to its criteria; the first non-zero
// criterion decides.
var composites = map[string][]Criterion{
	Width:   {ByWidth, ByHeight},
	Height:  {ByHeight, ByWidth},
	Area:    {ByType, ByArea, ByHeight, ByWidth},
	MaxSide: {ByType, ByMax, ByMin, ByHeight, ByWidth},
	Type:    {ByType},
}

// names lists the orders in the order they are offered to users.
var names = []string{None, Random, Width, Height, Area, MaxSide, Type}

// Names returns every supported order name.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Valid reports whether name is a supported order.
func Valid(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Multi combines criteria; the first one that tells a and b apart wins.
func Multi(criteria ...Criterion) Criterion {
	return func(a, b model.Block) float64 {
		for _, c := range criteria {
			if d := c(a, b); d != 0 {
				return d
			}
		}
		return 0
	}
}

// Sort orders blocks in place by c. Equal blocks keep their input order.
func Sort(blocks []model.Block, c Criterion) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return c(blocks[i], blocks[j]) < 0
	})
}

// Shuffle permutes blocks in place using a generator seeded with seed, so the
// same seed always gives the same permutation.
func Shuffle(blocks []model.Block, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(blocks), func(i, j int) {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	})
}

// Apply reorders blocks in place according to the named order. An empty name
// is treated as none.
func Apply(name string, blocks []model.Block, seed int64) error {
	switch name {
	case "", None:
		return nil
	case Random:
		Shuffle(blocks, seed)
		return nil
	}
	criteria, ok := composites[name]
	if !ok {
		return packerr.New(packerr.ErrCodeInvalidOrder, "unknown order %q", name)
	}
	Sort(blocks, Multi(criteria...))
	return nil
}
