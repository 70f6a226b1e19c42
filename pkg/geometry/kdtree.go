// Package geometry implements the scene's spatial acceleration structures and
// primitive intersection routines.
package geometry

import "github.com/df07/go-ptrace/pkg/core"

// Bounded is anything a KDTree can index: it must expose an axis-aligned
// bounding box.
type Bounded interface {
	BoundingBox() core.AABB
}

// KDTree is a median-split spatial index over a slice of bounded items. The
// same type backs both the scene's outer tree over mesh bounding boxes and
// each mesh's inner tree over its triangles — the element type is the only
// difference between the two uses.
//
// Despite the name this partitions purely on the longest-axis median of each
// node's bounding box (no k-d "cut plane through a point" discipline) — it is
// a median-split bounding volume hierarchy wearing k-d tree naming, matching
// the indexing structure this codebase was ported from.
type KDTree[T Bounded] struct {
	root   *kdNode[T]
	Center core.Vec3
	Radius float64
}

type kdNode[T Bounded] struct {
	bounds core.AABB
	left   *kdNode[T]
	right  *kdNode[T]
	items  []T // non-nil only on leaves
}

// leafThreshold bounds how many items a leaf node may hold before the
// builder tries to split it further.
const leafThreshold = 8

// NewKDTree builds a tree over the given items. The input slice is copied,
// so callers may safely build multiple trees concurrently from shared data.
func NewKDTree[T Bounded](items []T) *KDTree[T] {
	if len(items) == 0 {
		return &KDTree[T]{}
	}

	own := make([]T, len(items))
	copy(own, items)

	root := buildKDNode(own)

	center := root.bounds.Center()
	radius := root.bounds.Max.Subtract(center).Length()

	return &KDTree[T]{root: root, Center: center, Radius: radius}
}

func buildKDNode[T Bounded](items []T) *kdNode[T] {
	bounds := items[0].BoundingBox()
	for _, it := range items[1:] {
		bounds = bounds.Union(it.BoundingBox())
	}

	if len(items) <= leafThreshold {
		return &kdNode[T]{bounds: bounds, items: items}
	}

	axis := bounds.LongestAxis()
	lo, hi := axisExtent(bounds, axis)
	if hi <= lo {
		return &kdNode[T]{bounds: bounds, items: items}
	}
	splitPos := (lo + hi) * 0.5

	var left, right []T
	for _, it := range items {
		if axisValue(it.BoundingBox().Center(), axis) < splitPos {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return &kdNode[T]{bounds: bounds, items: items}
	}

	return &kdNode[T]{
		bounds: bounds,
		left:   buildKDNode(left),
		right:  buildKDNode(right),
	}
}

func axisExtent(b core.AABB, axis int) (float64, float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// BoundingBox returns the tree's overall bounds.
func (t *KDTree[T]) BoundingBox() core.AABB {
	if t.root == nil {
		return core.AABB{}
	}
	return t.root.bounds
}

// Visit walks the tree nodes whose bounds the ray may intersect within
// [tMin, tMax], calling visit with each leaf's items. visit returning a
// smaller tMax (e.g. after a closer hit) narrows the remaining traversal.
func (t *KDTree[T]) Visit(ray core.Ray, tMin, tMax float64, visit func(items []T, tMax float64) float64) {
	if t.root == nil {
		return
	}
	visitKDNode(t.root, ray, tMin, tMax, visit)
}

func visitKDNode[T Bounded](node *kdNode[T], ray core.Ray, tMin, tMax float64, visit func(items []T, tMax float64) float64) float64 {
	if !node.bounds.Hit(ray, tMin, tMax) {
		return tMax
	}

	if node.items != nil {
		return visit(node.items, tMax)
	}

	closest := tMax
	if node.left != nil {
		closest = visitKDNode(node.left, ray, tMin, closest, visit)
	}
	if node.right != nil {
		closest = visitKDNode(node.right, ray, tMin, closest, visit)
	}
	return closest
}
