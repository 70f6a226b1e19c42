package geometry

import (
	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/material"
)

// Mesh is a transformed triangle mesh sharing a single material, indexed by
// its own inner KDTree over Triangle. A Scene holds many Meshes in an outer
// KDTree over their bounding boxes, so intersection is a two-level lookup.
type Mesh struct {
	Positions []core.Vec3
	UVs       []core.Vec2 // optional; nil means every vertex has UV (0, 0)
	Material  *material.Material

	triangles []*Triangle
	tree      *KDTree[*Triangle]
	bbox      core.AABB
}

// NewMesh builds a Mesh from flat vertex/index buffers. indices is a flat
// triangle list (len(indices) % 3 == 0); uvs may be nil.
func NewMesh(positions []core.Vec3, uvs []core.Vec2, indices []uint32, mat *material.Material) *Mesh {
	m := &Mesh{Positions: positions, UVs: uvs, Material: mat}

	m.triangles = make([]*Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		m.triangles = append(m.triangles, newTriangle(m, indices[i], indices[i+1], indices[i+2]))
	}

	m.tree = NewKDTree(m.triangles)
	m.bbox = m.tree.BoundingBox()
	if len(m.triangles) == 0 {
		m.bbox = core.NewAABBFromPoints(positions...)
	}

	return m
}

// Indices reconstructs the flat triangle index buffer from this mesh's
// triangles, in construction order. Callers that need to rebuild a mesh
// over transformed positions (e.g. placing an instance within a scene) can
// pass this straight back into NewMesh alongside new Positions.
func (m *Mesh) Indices() []uint32 {
	indices := make([]uint32, 0, len(m.triangles)*3)
	for _, t := range m.triangles {
		indices = append(indices, t.I0, t.I1, t.I2)
	}
	return indices
}

// Transformed rebuilds this mesh with every position passed through fn,
// reusing the same UVs, index topology, and material. Used to place a
// mesh instance within a scene on top of whatever transform is already
// baked into its source positions (e.g. a glTF file's own node transforms).
func (m *Mesh) Transformed(fn func(core.Vec3) core.Vec3) *Mesh {
	positions := make([]core.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = fn(p)
	}
	return NewMesh(positions, m.UVs, m.Indices(), m.Material)
}

func (m *Mesh) uvAt(index uint32) core.Vec2 {
	if m.UVs == nil {
		return core.Vec2{}
	}
	return m.UVs[index]
}

// BoundingBox implements geometry.Bounded, letting a Scene index meshes in
// its own outer KDTree.
func (m *Mesh) BoundingBox() core.AABB { return m.bbox }

// Hit finds the closest triangle intersection within [tMin, tMax], writing
// the result (including the mesh's shared Material) into hit. singleSided
// mirrors the owning material's culling mode.
func (m *Mesh) Hit(ray core.Ray, tMin, tMax float64, hit *material.Hit) bool {
	singleSided := m.Material != nil && m.Material.SingleSided
	found := false

	m.tree.Visit(ray, tMin, tMax, func(tris []*Triangle, currentMax float64) float64 {
		for _, tri := range tris {
			if tri.Hit(ray, tMin, currentMax, singleSided, hit) {
				found = true
				currentMax = hit.T
			}
		}
		return currentMax
	})

	if found {
		hit.Material = m.Material
	}
	return found
}
