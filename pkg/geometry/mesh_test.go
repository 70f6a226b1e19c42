package geometry

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/material"
)

func quadMesh() *Mesh {
	positions := []core.Vec3{
		{X: -1, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 1},
		{X: -1, Y: 0, Z: 1},
	}
	uvs := []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	mat := &material.Material{}
	return NewMesh(positions, uvs, indices, mat)
}

func TestMeshHitReturnsClosestTriangle(t *testing.T) {
	m := quadMesh()
	ray := core.NewRay(core.Vec3{X: 0, Y: 5, Z: 0}, core.Vec3{X: 0, Y: -1, Z: 0})

	var hit material.Hit
	if !m.Hit(ray, 0.001, 1000, &hit) {
		t.Fatal("expected a hit on the quad")
	}
	if hit.T != 5 {
		t.Errorf("T = %v, want 5", hit.T)
	}
	if hit.Material != m.Material {
		t.Error("Hit should set the mesh's shared Material")
	}
}

func TestMeshHitMissesAboveBounds(t *testing.T) {
	m := quadMesh()
	ray := core.NewRay(core.Vec3{X: 10, Y: 5, Z: 10}, core.Vec3{X: 0, Y: -1, Z: 0})

	var hit material.Hit
	if m.Hit(ray, 0.001, 1000, &hit) {
		t.Fatal("expected a miss outside the quad's extent")
	}
}

func TestMeshIndicesRoundTrip(t *testing.T) {
	m := quadMesh()
	indices := m.Indices()
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(indices) != len(want) {
		t.Fatalf("len(Indices()) = %d, want %d", len(indices), len(want))
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("Indices()[%d] = %d, want %d", i, indices[i], want[i])
		}
	}
}

func TestMeshTransformedTranslatesPositionsKeepsTopology(t *testing.T) {
	m := quadMesh()
	moved := m.Transformed(func(p core.Vec3) core.Vec3 {
		return p.Add(core.Vec3{X: 0, Y: 3, Z: 0})
	})

	if moved.Material != m.Material {
		t.Error("Transformed should reuse the same Material")
	}

	ray := core.NewRay(core.Vec3{X: 0, Y: 10, Z: 0}, core.Vec3{X: 0, Y: -1, Z: 0})
	var hit material.Hit
	if !moved.Hit(ray, 0.001, 1000, &hit) {
		t.Fatal("expected a hit on the translated quad")
	}
	if hit.T != 7 {
		t.Errorf("T = %v, want 7 (translated quad at y=3)", hit.T)
	}
}

func TestMeshBoundingBoxCoversAllVertices(t *testing.T) {
	m := quadMesh()
	bbox := m.BoundingBox()
	for _, p := range m.Positions {
		if p.X < bbox.Min.X || p.X > bbox.Max.X || p.Z < bbox.Min.Z || p.Z > bbox.Max.Z {
			t.Errorf("vertex %+v outside bounding box %+v", p, bbox)
		}
	}
}
