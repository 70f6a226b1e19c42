package material

import "github.com/df07/go-ptrace/pkg/core"

// Hit records a ray/triangle intersection before material resolution.
// It is filled in place by acceleration-structure traversal to avoid
// allocating on every candidate intersection.
type Hit struct {
	Position  core.Vec3
	Material  *Material
	T         float64
	UV        core.Vec2
	Normal    core.Vec3 // Geometric normal (cross product of the triangle's edges)
	Tangent   core.Vec3
	Bitangent core.Vec3
}

// ResolvedMaterial is the set of shading quantities derived from a Hit once
// textures have been sampled at its UV coordinates: the point a BRDF
// actually operates on.
type ResolvedMaterial struct {
	BaseColor      core.Vec3
	Emissive       core.Vec3
	GeometryNormal core.Vec3 // Cross product of vertex edges, never perturbed.
	ShadingNormal  core.Vec3 // Geometry normal refined by a normal map, if any.
	Metalness      float64
	Roughness      float64
	SingleSided    bool
}

// Resolve samples the hit's material at its UV coordinates and builds the
// ResolvedMaterial the BRDF layer operates on, applying the tangent-space
// normal map transform when the material carries one.
func (h *Hit) Resolve() ResolvedMaterial {
	shadingNormal := h.Normal
	if h.Material.HasNormalMap() {
		mapped := h.Material.Normal(h.UV)
		// Columns (bitangent, tangent, normal) match the original
		// tangent-space basis convention this system was ported from.
		shadingNormal = h.Bitangent.Multiply(mapped.X).
			Add(h.Tangent.Multiply(mapped.Y)).
			Add(h.Normal.Multiply(mapped.Z)).
			Normalize()
	}

	return ResolvedMaterial{
		BaseColor:      h.Material.BaseColor(h.UV),
		Emissive:       h.Material.EmissiveColor(h.UV),
		GeometryNormal: h.Normal,
		ShadingNormal:  shadingNormal,
		Metalness:      h.Material.Metalness(h.UV),
		Roughness:      h.Material.Roughness(h.UV),
		SingleSided:    h.Material.SingleSided,
	}
}
