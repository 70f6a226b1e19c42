package material

import "github.com/df07/go-ptrace/pkg/core"

// AlphaMode controls how a material's alpha channel affects ray hits.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask             // Hits with alpha <= Cutoff are treated as transparent.
	AlphaBlend            // Not a discard signal; left to the caller (no blending is implemented).
)

// TextureRef pairs a texture with the sampler used to filter it.
type TextureRef struct {
	Texture *Texture
	Sampler Sampler
}

func (tr *TextureRef) sample(uv core.Vec2) (r, g, b, a float64) {
	if tr == nil || tr.Texture == nil {
		return 1, 1, 1, 1
	}
	return tr.Sampler.Sample(tr.Texture, uv)
}

// Material describes a glTF-style metallic-roughness surface: factors that
// are always present, each optionally modulated by a texture.
type Material struct {
	AlphaMode   AlphaMode
	AlphaCutoff float64

	BaseColorFactor  core.Vec3
	BaseColorTexture *TextureRef

	EmissiveFactor  core.Vec3
	EmissiveTexture *TextureRef

	NormalTexture *TextureRef

	MetallicFactor           float64
	RoughnessFactor          float64
	MetallicRoughnessTexture *TextureRef

	SingleSided bool
	Brdf        Brdf
}

// Discard reports whether the surface at uv should be treated as
// transparent to ray intersection (alpha masking).
func (m *Material) Discard(uv core.Vec2) bool {
	if m.AlphaMode != AlphaMask {
		return false
	}
	_, _, _, a := m.BaseColorTexture.sample(uv)
	return a*1.0 <= m.AlphaCutoff
}

// HasNormalMap reports whether this material carries a tangent-space normal map.
func (m *Material) HasNormalMap() bool {
	return m.NormalTexture != nil
}

// BaseColor returns the albedo at uv.
func (m *Material) BaseColor(uv core.Vec2) core.Vec3 {
	r, g, b, _ := m.BaseColorTexture.sample(uv)
	return core.Vec3{X: r * m.BaseColorFactor.X, Y: g * m.BaseColorFactor.Y, Z: b * m.BaseColorFactor.Z}
}

// EmissiveColor returns the emitted radiance at uv.
func (m *Material) EmissiveColor(uv core.Vec2) core.Vec3 {
	r, g, b, _ := m.EmissiveTexture.sample(uv)
	return core.Vec3{X: r * m.EmissiveFactor.X, Y: g * m.EmissiveFactor.Y, Z: b * m.EmissiveFactor.Z}
}

// Normal returns the tangent-space normal map sample at uv, remapped from
// [0,1] texel range to [-1,1].
func (m *Material) Normal(uv core.Vec2) core.Vec3 {
	r, g, b, _ := m.NormalTexture.sample(uv)
	return core.Vec3{X: r*2 - 1, Y: g*2 - 1, Z: b*2 - 1}
}

// Metalness returns the metallic factor at uv (glTF packs it in the blue channel).
func (m *Material) Metalness(uv core.Vec2) float64 {
	_, _, b, _ := m.MetallicRoughnessTexture.sample(uv)
	return m.MetallicFactor * b
}

// Roughness returns the roughness factor at uv (glTF packs it in the green channel).
func (m *Material) Roughness(uv core.Vec2) float64 {
	_, g, _, _ := m.MetallicRoughnessTexture.sample(uv)
	return m.RoughnessFactor * g
}
