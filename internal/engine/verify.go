package engine

import (
	"fmt"

	"github.com/piwi3910/treepack/internal/model"
)

// ViolationKind names the way a placement breaks the layout.
type ViolationKind string

const (
	Overlap   ViolationKind = "overlap"     // Two placed blocks share area
	OutOfArea ViolationKind = "out_of_area" // A placed block extends past the container
)

// Violation is one broken placement. Other is the index of the second block
// for an Overlap and -1 otherwise.
type Violation struct {
	Kind  ViolationKind
	Index int
	Other int
	Rect  model.Rect
}

// Verify checks a finished layout: every placed block must lie inside the
// container and no two placed blocks may share area. Blocks that only touch
// along an edge are fine. The packer never produces a violation, so a
// non-empty result means the layout was edited or corrupted.
func Verify(result model.PackResult) []Violation {
	var violations []Violation

	for i, b := range result.Blocks {
		if !b.Placed() {
			continue
		}
		r := b.Rect()
		if !result.Container.Contains(r) {
			violations = append(violations, Violation{Kind: OutOfArea, Index: i, Other: -1, Rect: r})
		}
		for j := i + 1; j < len(result.Blocks); j++ {
			o := result.Blocks[j]
			if o.Placed() && r.Intersects(o.Rect()) {
				violations = append(violations, Violation{Kind: Overlap, Index: i, Other: j, Rect: r})
			}
		}
	}

	return dedupeViolations(violations)
}

// dedupeViolations keeps at most one violation per (kind, block, other) triple.
func dedupeViolations(violations []Violation) []Violation {
	type key struct {
		kind  ViolationKind
		index int
		other int
	}
	seen := make(map[key]bool)
	var out []Violation

	for _, v := range violations {
		k := key{v.Kind, v.Index, v.Other}
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// FormatViolations produces human-readable messages from violations.
func FormatViolations(result model.PackResult, violations []Violation) []string {
	var msgs []string
	for _, v := range violations {
		b := result.Blocks[v.Index]
		switch v.Kind {
		case Overlap:
			o := result.Blocks[v.Other]
			msgs = append(msgs, fmt.Sprintf("block %d (%s at %g,%g) overlaps block %d (%s at %g,%g)",
				v.Index, b.SizeString(), b.Fit.X, b.Fit.Y, v.Other, o.SizeString(), o.Fit.X, o.Fit.Y))
		default:
			msgs = append(msgs, fmt.Sprintf("block %d (%s at %g,%g) extends past the %gx%g container",
				v.Index, b.SizeString(), b.Fit.X, b.Fit.Y, result.Container.W, result.Container.H))
		}
	}
	return msgs
}
