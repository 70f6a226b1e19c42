package material

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
)

// Filtering selects how a Sampler blends between texel centers.
type Filtering int

const (
	FilterNearest Filtering = iota
	FilterLinear
)

// WrapMode selects how a Sampler handles UV coordinates outside [0, 1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// Texture is a decoded 2D image with an alpha channel, used for base color,
// emissive, metallic-roughness, and tangent-space normal maps alike.
type Texture struct {
	Width, Height int
	RGB           []core.Vec3 // row-major, RGB[y*Width+x]
	Alpha         []float64   // same indexing; nil means fully opaque
}

// NewTexture creates a texture from decoded RGB pixels with no alpha channel.
func NewTexture(width, height int, rgb []core.Vec3) *Texture {
	return &Texture{Width: width, Height: height, RGB: rgb}
}

// Sampler filters a Texture at arbitrary UV coordinates.
type Sampler struct {
	Filtering Filtering
	WrapS     WrapMode
	WrapT     WrapMode
}

// DefaultSampler returns the common repeat+linear sampler configuration.
func DefaultSampler() Sampler {
	return Sampler{Filtering: FilterLinear, WrapS: WrapRepeat, WrapT: WrapRepeat}
}

func (s Sampler) wrap(mode WrapMode, n int, i int) int {
	switch mode {
	case WrapClamp:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	default: // WrapRepeat
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
}

func (s Sampler) fetch(tex *Texture, x, y int) (float64, float64, float64, float64) {
	x = s.wrap(s.WrapS, tex.Width, x)
	y = s.wrap(s.WrapT, tex.Height, y)
	idx := y*tex.Width + x
	c := tex.RGB[idx]
	a := 1.0
	if tex.Alpha != nil {
		a = tex.Alpha[idx]
	}
	return c.X, c.Y, c.Z, a
}

func lerp4(p1, p2 [4]float64, t float64) [4]float64 {
	return [4]float64{
		core.Lerp(p1[0], p2[0], t),
		core.Lerp(p1[1], p2[1], t),
		core.Lerp(p1[2], p2[2], t),
		core.Lerp(p1[3], p2[3], t),
	}
}

// Sample returns the filtered (r, g, b, a) color of tex at uv.
func (s Sampler) Sample(tex *Texture, uv core.Vec2) (r, g, b, a float64) {
	x := uv.X * float64(tex.Width)
	y := (1 - uv.Y) * float64(tex.Height)

	if s.Filtering == FilterNearest {
		r, g, b, a = s.fetch(tex, int(x), int(y))
		return
	}

	x -= 0.5
	y -= 0.5
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))

	p00 := pack4(s.fetch(tex, x0, y0))
	p10 := pack4(s.fetch(tex, x0+1, y0))
	p01 := pack4(s.fetch(tex, x0, y0+1))
	p11 := pack4(s.fetch(tex, x0+1, y0+1))

	fx := x - float64(x0)
	fy := y - float64(y0)

	top := lerp4(p00, p10, fx)
	bottom := lerp4(p01, p11, fx)
	result := lerp4(top, bottom, fy)
	return result[0], result[1], result[2], result[3]
}

func pack4(r, g, b, a float64) [4]float64 { return [4]float64{r, g, b, a} }
