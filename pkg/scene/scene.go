// Package scene holds the renderable world: the mesh acceleration
// structure, the light list, and the background environment, plus the
// alpha-aware ray query the tracer drives against all three.
package scene

import (
	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/geometry"
	"github.com/df07/go-ptrace/pkg/lights"
	"github.com/df07/go-ptrace/pkg/material"
)

// Scene is an immutable, concurrency-safe snapshot of the world: once built
// it is read-only, so many tile workers can call Hit concurrently.
type Scene struct {
	meshes *geometry.KDTree[*geometry.Mesh]
	Lights []lights.Light
	Env    lights.Environment
}

// New builds a Scene from a flat mesh list, a light list, and a background
// environment. A nil env defaults to lights.Black{}.
func New(meshes []*geometry.Mesh, sceneLights []lights.Light, env lights.Environment) *Scene {
	if env == nil {
		env = lights.Black{}
	}
	return &Scene{
		meshes: geometry.NewKDTree(meshes),
		Lights: sceneLights,
		Env:    env,
	}
}

// Environment returns the background radiance for a ray that left the scene.
func (s *Scene) Environment(ray core.Ray) core.Vec3 {
	return s.Env.Color(ray)
}

// Hit finds the closest visible surface along ray within [tMin, tMax].
//
// "Visible" accounts for alpha-masked materials (e.g. foliage cutouts):
// when the closest geometric intersection lands on a masked-out texel, the
// ray restarts from that hit point with a correspondingly reduced tMax and
// tries again, rather than treating the cutout as an opaque surface.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, hit *material.Hit) bool {
	currentRay := ray
	remaining := tMax

	for {
		if !s.hitMeshes(currentRay, tMin, remaining, hit) {
			return false
		}
		if !hit.Material.Discard(hit.UV) {
			return true
		}
		remaining -= hit.T
		currentRay = core.NewRay(hit.Position, ray.Direction)
	}
}

func (s *Scene) hitMeshes(ray core.Ray, tMin, tMax float64, hit *material.Hit) bool {
	found := false
	s.meshes.Visit(ray, tMin, tMax, func(meshes []*geometry.Mesh, currentMax float64) float64 {
		for _, mesh := range meshes {
			if mesh.Hit(ray, tMin, currentMax, hit) {
				found = true
				currentMax = hit.T
			}
		}
		return currentMax
	})
	return found
}
