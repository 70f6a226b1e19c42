package material

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

func checkerTexture() *Texture {
	return NewTexture(2, 1, []core.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	})
}

func TestMaterialBaseColorAppliesFactorAndTexture(t *testing.T) {
	ref := &TextureRef{Texture: checkerTexture(), Sampler: Sampler{Filtering: FilterNearest, WrapS: WrapClamp, WrapT: WrapClamp}}
	mat := &Material{BaseColorFactor: core.Vec3{X: 2, Y: 2, Z: 2}, BaseColorTexture: ref}

	got := mat.BaseColor(core.Vec2{X: 0, Y: 0.5})
	want := core.Vec3{X: 2, Y: 0, Z: 0}
	if got != want {
		t.Errorf("BaseColor(left texel) = %+v, want %+v", got, want)
	}
}

func TestMaterialBaseColorWithNoTextureIsJustFactor(t *testing.T) {
	mat := &Material{BaseColorFactor: core.Vec3{X: 0.3, Y: 0.4, Z: 0.5}}
	got := mat.BaseColor(core.Vec2{X: 0.5, Y: 0.5})
	want := core.Vec3{X: 0.3, Y: 0.4, Z: 0.5}
	if got != want {
		t.Errorf("BaseColor() = %+v, want %+v", got, want)
	}
}

func TestMaterialMetalnessAndRoughnessPackChannels(t *testing.T) {
	tex := &Texture{Width: 1, Height: 1, RGB: []core.Vec3{{X: 0.1, Y: 0.6, Z: 0.9}}}
	ref := &TextureRef{Texture: tex, Sampler: Sampler{Filtering: FilterNearest, WrapS: WrapClamp, WrapT: WrapClamp}}
	mat := &Material{MetallicFactor: 1, RoughnessFactor: 1, MetallicRoughnessTexture: ref}

	if got := mat.Metalness(core.Vec2{X: 0.5, Y: 0.5}); got < 0.89 || got > 0.91 {
		t.Errorf("Metalness() = %v, want ~0.9 (blue channel)", got)
	}
	if got := mat.Roughness(core.Vec2{X: 0.5, Y: 0.5}); got < 0.59 || got > 0.61 {
		t.Errorf("Roughness() = %v, want ~0.6 (green channel)", got)
	}
}

func TestMaterialDiscardOpaqueNeverDiscards(t *testing.T) {
	mat := &Material{AlphaMode: AlphaOpaque}
	if mat.Discard(core.Vec2{}) {
		t.Error("AlphaOpaque material should never discard")
	}
}

func TestMaterialDiscardMaskUsesCutoff(t *testing.T) {
	tex := &Texture{Width: 1, Height: 1, RGB: []core.Vec3{{X: 1, Y: 1, Z: 1}}, Alpha: []float64{0.1}}
	ref := &TextureRef{Texture: tex, Sampler: Sampler{Filtering: FilterNearest, WrapS: WrapClamp, WrapT: WrapClamp}}
	mat := &Material{AlphaMode: AlphaMask, AlphaCutoff: 0.5, BaseColorTexture: ref}

	if !mat.Discard(core.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("expected a texel below cutoff to be discarded")
	}

	tex.Alpha[0] = 0.9
	if mat.Discard(core.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("expected a texel above cutoff not to be discarded")
	}
}

func TestMaterialHasNormalMap(t *testing.T) {
	mat := &Material{}
	if mat.HasNormalMap() {
		t.Error("material with no NormalTexture should report HasNormalMap() == false")
	}
	mat.NormalTexture = &TextureRef{Texture: checkerTexture(), Sampler: DefaultSampler()}
	if !mat.HasNormalMap() {
		t.Error("material with a NormalTexture should report HasNormalMap() == true")
	}
}
