package engine

import "github.com/piwi3910/treepack/internal/model"

// node is one region of the partition tree. A free node (used == false) is
// a placement candidate and has no children. A used node always has both
// children: right holds the remainder beside the placed block, down the
// remainder below it.
type node struct {
	rect  model.Rect
	used  bool
	right *node
	down  *node
}

// find returns the first free leaf under n that can hold w x h. Used nodes
// search right before down; that order decides which of several valid
// regions is chosen and so the shape of the whole packing.
func find(n *node, w, h float64) *node {
	if n == nil {
		return nil
	}
	if n.used {
		if r := find(n.right, w, h); r != nil {
			return r
		}
		return find(n.down, w, h)
	}
	if w <= n.rect.W && h <= n.rect.H {
		return n
	}
	return nil
}

// split marks n used by a w x h block at its origin and returns that origin.
func split(n *node, w, h float64) model.Point {
	r := n.rect
	n.used = true
	n.right = &node{rect: model.Rect{X: r.X + w, Y: r.Y, W: r.W - w, H: h}}
	n.down = &node{rect: model.Rect{X: r.X, Y: r.Y + h, W: r.W, H: r.H - h}}
	return model.Point{X: r.X, Y: r.Y}
}

// walk visits n and its descendants in pre-order, right before down.
func walk(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	fn(n)
	walk(n.right, fn)
	walk(n.down, fn)
}
