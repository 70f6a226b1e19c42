package material

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

func gradientTexture() *Texture {
	// 2x1 texture: left texel red, right texel green.
	return NewTexture(2, 1, []core.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	})
}

func TestTextureSampleNearestPicksClosestTexel(t *testing.T) {
	s := Sampler{Filtering: FilterNearest, WrapS: WrapClamp, WrapT: WrapClamp}
	tex := gradientTexture()

	r, g, _, _ := s.Sample(tex, core.Vec2{X: 0.01, Y: 0.5})
	if r < 0.99 || g > 0.01 {
		t.Errorf("left-edge nearest sample = (%v, %v), want ~(1, 0)", r, g)
	}

	r, g, _, _ = s.Sample(tex, core.Vec2{X: 0.99, Y: 0.5})
	if g < 0.99 || r > 0.01 {
		t.Errorf("right-edge nearest sample = (%v, %v), want ~(0, 1)", r, g)
	}
}

func TestTextureSampleLinearBlendsAcrossTexels(t *testing.T) {
	s := Sampler{Filtering: FilterLinear, WrapS: WrapClamp, WrapT: WrapClamp}
	tex := gradientTexture()

	r, g, _, _ := s.Sample(tex, core.Vec2{X: 0.5, Y: 0.5})
	if r <= 0 || r >= 1 || g <= 0 || g >= 1 {
		t.Errorf("bilinear sample at the seam = (%v, %v), want a blend strictly between 0 and 1", r, g)
	}
}

func TestTextureSampleWrapRepeatWrapsAroundEdge(t *testing.T) {
	s := Sampler{Filtering: FilterNearest, WrapS: WrapRepeat, WrapT: WrapRepeat}
	tex := gradientTexture()

	inside := s.wrap(WrapRepeat, tex.Width, 0)
	wrapped := s.wrap(WrapRepeat, tex.Width, tex.Width)
	if inside != wrapped {
		t.Errorf("wrap(0) = %d, wrap(width) = %d, want equal under WrapRepeat", inside, wrapped)
	}

	negative := s.wrap(WrapRepeat, tex.Width, -1)
	if negative != tex.Width-1 {
		t.Errorf("wrap(-1) = %d, want %d under WrapRepeat", negative, tex.Width-1)
	}
}

func TestTextureSampleWrapClampPinsToEdge(t *testing.T) {
	s := Sampler{Filtering: FilterNearest, WrapS: WrapClamp, WrapT: WrapClamp}
	tex := gradientTexture()

	if got := s.wrap(WrapClamp, tex.Width, -5); got != 0 {
		t.Errorf("wrap(-5) = %d, want 0 under WrapClamp", got)
	}
	if got := s.wrap(WrapClamp, tex.Width, tex.Width+5); got != tex.Width-1 {
		t.Errorf("wrap(width+5) = %d, want %d under WrapClamp", got, tex.Width-1)
	}
}

func TestTextureAlphaDefaultsToOpaque(t *testing.T) {
	s := DefaultSampler()
	tex := gradientTexture() // no Alpha slice
	_, _, _, a := s.Sample(tex, core.Vec2{X: 0.5, Y: 0.5})
	if a != 1 {
		t.Errorf("alpha with no Alpha channel = %v, want 1", a)
	}
}
