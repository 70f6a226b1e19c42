package geometry

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/material"
)

// Triangle is a single indexed triangle within a Mesh. Vertex data lives in
// the owning Mesh's arrays; Triangle stores only the three indices plus a
// cached bounding box so KDTree can index it without touching the mesh.
type Triangle struct {
	mesh       *Mesh
	I0, I1, I2 uint32
	bbox       core.AABB
}

func newTriangle(mesh *Mesh, i0, i1, i2 uint32) *Triangle {
	t := &Triangle{mesh: mesh, I0: i0, I1: i1, I2: i2}
	t.bbox = core.NewAABBFromPoints(t.v0(), t.v1(), t.v2())
	return t
}

func (t *Triangle) v0() core.Vec3 { return t.mesh.Positions[t.I0] }
func (t *Triangle) v1() core.Vec3 { return t.mesh.Positions[t.I1] }
func (t *Triangle) v2() core.Vec3 { return t.mesh.Positions[t.I2] }

func (t *Triangle) uv0() core.Vec2 { return t.mesh.uvAt(t.I0) }
func (t *Triangle) uv1() core.Vec2 { return t.mesh.uvAt(t.I1) }
func (t *Triangle) uv2() core.Vec2 { return t.mesh.uvAt(t.I2) }

// BoundingBox implements geometry.Bounded.
func (t *Triangle) BoundingBox() core.AABB { return t.bbox }

// triangleEpsilon guards the Möller–Trumbore determinant against rays
// parallel to the triangle's plane.
const triangleEpsilon = 1e-8

// Hit implements the Möller–Trumbore ray-triangle intersection, including
// barycentric UV interpolation and UV-gradient tangent/bitangent derivation.
// singleSided enables backface culling against the geometric (CCW) normal.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, singleSided bool, hit *material.Hit) bool {
	v0, v1, v2 := t.v0(), t.v1(), t.v2()
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	if math.Abs(det) < triangleEpsilon {
		return false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Subtract(v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false
	}

	qvec := tvec.Cross(edge1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	normal := edge1.Cross(edge2).Normalize()
	if singleSided && ray.Direction.Dot(normal) > 0 {
		return false
	}

	tHit := edge2.Dot(qvec) * invDet
	if tHit < tMin || tHit > tMax {
		return false
	}

	uv0, uv1, uv2 := t.uv0(), t.uv1(), t.uv2()
	duv1 := core.Vec2{X: uv1.X - uv0.X, Y: uv1.Y - uv0.Y}
	duv2 := core.Vec2{X: uv2.X - uv0.X, Y: uv2.Y - uv0.Y}

	hit.T = tHit
	hit.Position = ray.At(tHit)
	hit.UV = core.Vec2{X: uv0.X + u*duv1.X + v*duv2.X, Y: uv0.Y + u*duv1.Y + v*duv2.Y}
	hit.Normal = normal

	// Degenerate UV parameterization (zero UV area): fall back to an
	// arbitrary but stable tangent frame instead of dividing by zero.
	uvDet := duv1.X*duv2.Y - duv2.X*duv1.Y
	if math.Abs(uvDet) < 1e-12 {
		hit.Tangent = core.TransformToWorld(core.Vec3{X: 1}, normal).Normalize()
		hit.Bitangent = normal.Cross(hit.Tangent).Normalize()
		return true
	}

	f := 1.0 / uvDet
	hit.Tangent = edge1.Multiply(duv2.Y).Subtract(edge2.Multiply(duv1.Y)).Multiply(f).Normalize()
	hit.Bitangent = edge1.Multiply(-duv2.X).Add(edge2.Multiply(duv1.X)).Multiply(f).Normalize()

	return true
}
