// Package lights implements the punctual light types and background
// environments the tracer samples for direct lighting and ray misses.
package lights

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
)

// Light is a punctual light source the tracer can sample for next-event
// estimation. DirectionDistance and Intensity are both evaluated at the
// shading point being lit, never precomputed, so a single Light can be
// reused across arbitrarily many shading points.
type Light interface {
	// DirectionDistance returns the unit direction from position toward the
	// light, and the distance to travel along it before reaching the light
	// (math.Inf(1) for directional lights).
	DirectionDistance(position core.Vec3) (direction core.Vec3, distance float64)

	// Intensity returns the light's radiance as received at position,
	// including any distance-based attenuation.
	Intensity(position core.Vec3) core.Vec3
}

// Directional is a light at infinite distance (e.g. sunlight): constant
// direction and intensity everywhere in the scene.
type Directional struct {
	Dir      core.Vec3
	Color    core.Vec3
	Strength float64
}

// NewDirectional creates a directional light. dir is normalized internally.
func NewDirectional(dir, color core.Vec3, intensity float64) *Directional {
	return &Directional{Dir: dir.Normalize(), Color: color, Strength: intensity}
}

func (d *Directional) DirectionDistance(_ core.Vec3) (core.Vec3, float64) {
	return d.Dir, math.Inf(1)
}

func (d *Directional) Intensity(_ core.Vec3) core.Vec3 {
	return d.Color.Multiply(d.Strength)
}

// Point is a positional light with a smoothstep range falloff: intensity is
// unattenuated out to 0.75*Range, then eases to zero by Range.
type Point struct {
	Position     core.Vec3
	Color        core.Vec3
	Strength     float64
	Range        float64
	rangeSquared float64
}

// NewPoint creates a point light with the given falloff range.
func NewPoint(position, color core.Vec3, intensity, rng float64) *Point {
	return &Point{Position: position, Color: color, Strength: intensity, Range: rng, rangeSquared: rng * rng}
}

// RangeSquared is exposed so callers (the tracer's shadow-ray shortcut) can
// reject out-of-range lights before computing a direction or tracing a ray.
func (p *Point) RangeSquared() float64 { return p.rangeSquared }

func (p *Point) DirectionDistance(position core.Vec3) (core.Vec3, float64) {
	delta := p.Position.Subtract(position)
	return delta.Normalize(), delta.Length()
}

func (p *Point) Intensity(position core.Vec3) core.Vec3 {
	falloff := 1 - core.Smoothstep(p.Range*0.75, p.Range, p.Position.Subtract(position).Length())
	return p.Color.Multiply(p.Strength * falloff)
}

// Environment supplies background radiance for rays that escape the scene.
type Environment interface {
	Color(ray core.Ray) core.Vec3
}

// Black is a zero-radiance environment (no background contribution).
type Black struct{}

func (Black) Color(_ core.Ray) core.Vec3 { return core.Vec3{} }

// Gradient is a simple vertical-gradient sky: From looking straight down
// blending to To looking straight up, with their midpoint at the horizon.
type Gradient struct {
	From, To core.Vec3
}

// NewGradient creates a vertical gradient environment.
func NewGradient(from, to core.Vec3) *Gradient {
	return &Gradient{From: from, To: to}
}

// DefaultGradient matches the system's built-in sky gradient.
func DefaultGradient() *Gradient {
	return &Gradient{From: core.Vec3{X: 1, Y: 1, Z: 1}, To: core.Vec3{X: 0.5, Y: 0.7, Z: 1.0}}
}

func (g *Gradient) Color(ray core.Ray) core.Vec3 {
	unit := ray.Direction.Normalize()
	t := 0.5 * (unit.Y + 1)
	return g.From.Multiply(1 - t).Add(g.To.Multiply(t))
}
