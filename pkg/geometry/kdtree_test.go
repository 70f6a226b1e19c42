package geometry

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

// boundedBox is a minimal Bounded item for exercising KDTree in isolation
// from Triangle/Mesh.
type boundedBox struct {
	box core.AABB
	id  int
}

func (b boundedBox) BoundingBox() core.AABB { return b.box }

func boxAt(x float64, id int) boundedBox {
	return boundedBox{
		box: core.NewAABB(core.Vec3{X: x, Y: -0.5, Z: -0.5}, core.Vec3{X: x + 1, Y: 0.5, Z: 0.5}),
		id:  id,
	}
}

func TestKDTreeEmptyHasZeroBounds(t *testing.T) {
	tree := NewKDTree([]boundedBox{})
	if tree.BoundingBox() != (core.AABB{}) {
		t.Errorf("empty tree bounding box = %+v, want zero value", tree.BoundingBox())
	}
}

func TestKDTreeVisitFindsContainingLeaf(t *testing.T) {
	var items []boundedBox
	for i := 0; i < 20; i++ {
		items = append(items, boxAt(float64(i)*2, i))
	}
	tree := NewKDTree(items)

	ray := core.NewRay(core.Vec3{X: 20.5, Y: 5, Z: 0}, core.Vec3{X: 0, Y: -1, Z: 0})

	var found []int
	tree.Visit(ray, 0.001, 1000, func(candidates []boundedBox, tMax float64) float64 {
		for _, c := range candidates {
			if c.box.Hit(ray, 0.001, tMax) {
				found = append(found, c.id)
			}
		}
		return tMax
	})

	hasTen := false
	for _, id := range found {
		if id == 10 {
			hasTen = true
		}
	}
	if !hasTen {
		t.Errorf("expected to find item 10 (box at x=20..21) among candidates %v", found)
	}
}

func TestKDTreeVisitReachesLeafWithNarrowingCallback(t *testing.T) {
	items := []boundedBox{boxAt(0, 0), boxAt(5, 1), boxAt(10, 2)}
	tree := NewKDTree(items)

	ray := core.NewRay(core.Vec3{X: 0.5, Y: 5, Z: 0}, core.Vec3{X: 0, Y: -1, Z: 0})

	visited := 0
	tree.Visit(ray, 0.001, 1000, func(candidates []boundedBox, tMax float64) float64 {
		visited += len(candidates)
		closest := tMax
		for _, c := range candidates {
			if c.box.Hit(ray, 0.001, closest) {
				closest = 4.5 // item 0's box top face is at y=0.5
			}
		}
		return closest
	})

	if visited == 0 {
		t.Fatal("expected Visit to reach at least one leaf")
	}
}

func TestKDTreeBoundingBoxUnionsAllItems(t *testing.T) {
	items := []boundedBox{boxAt(0, 0), boxAt(5, 1), boxAt(10, 2)}
	tree := NewKDTree(items)
	bbox := tree.BoundingBox()

	if bbox.Min.X > 0 || bbox.Max.X < 11 {
		t.Errorf("BoundingBox() = %+v, want to span at least [0, 11] on X", bbox)
	}
}
