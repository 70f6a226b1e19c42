package core

import "math"

// Sampler is the RNG abstraction threaded through the tracer. Tile workers
// each own one so that samples stay reproducible per-tile regardless of
// how many worker goroutines are running.
type Sampler interface {
	// Float64 returns a uniform random value in [0, 1).
	Float64() float64
}

const (
	TwoPi     = 2 * math.Pi
	OneOverPi = 1 / math.Pi
)

// Clamp restricts v to the [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Saturate clamps v to [0, 1].
func Saturate(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Smoothstep performs Hermite interpolation between edge0 and edge1, returning
// 0 below edge0, 1 above edge1, and a smooth cubic ramp in between.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// Schlick returns the Schlick approximation to Fresnel reflectance for a
// dielectric interface with the given incidence cosine and relative index.
func Schlick(cosine, refractiveIndex float64) float64 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// Reflect reflects dir about normal.
func Reflect(dir, normal Vec3) Vec3 {
	return dir.Subtract(normal.Multiply(2 * dir.Dot(normal)))
}

// Refract refracts dir through normal using Snell's law with the given
// incident-over-transmitted index ratio. ok is false on total internal
// reflection, in which case the returned vector is meaningless.
func Refract(dir, normal Vec3, niOverNt float64) (Vec3, bool) {
	unit := dir.Normalize()
	dt := unit.Dot(normal)
	discriminant := 1 - niOverNt*niOverNt*(1-dt*dt)
	if discriminant <= 0 {
		return Vec3{}, false
	}
	refracted := unit.Subtract(normal.Multiply(dt)).Multiply(niOverNt).Subtract(normal.Multiply(math.Sqrt(discriminant)))
	return refracted, true
}

// CosineSampleHemisphere draws a direction in the +Z hemisphere with a
// cosine-weighted distribution, returning the direction and its pdf.
// Source: "Sampling Transformations Zoo", Ray Tracing Gems.
func CosineSampleHemisphere(sampler Sampler) (Vec3, float64) {
	ux, uy := sampler.Float64(), sampler.Float64()

	a := math.Sqrt(ux)
	b := TwoPi * uy

	dir := Vec3{X: a * math.Cos(b), Y: a * math.Sin(b), Z: math.Sqrt(1 - ux)}
	return dir, dir.Z * OneOverPi
}

// TransformToWorld builds an orthonormal basis around normal (picking the
// coordinate axis least aligned with it to avoid degeneracies) and maps a
// local-space direction into that basis. This is the Lambertian BRDF's own
// hemisphere-to-world transform, distinct from the quaternion-based one
// Microfacet uses for its local sampling space.
func TransformToWorld(local, normal Vec3) Vec3 {
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)
	var majorAxis Vec3
	switch {
	case ax <= ay && ax <= az:
		majorAxis = Vec3{X: 1}
	case ay <= az:
		majorAxis = Vec3{Y: 1}
	default:
		majorAxis = Vec3{Z: 1}
	}

	u := normal.Cross(majorAxis).Normalize()
	v := normal.Cross(u)

	return u.Multiply(local.X).Add(v.Multiply(local.Y)).Add(normal.Multiply(local.Z))
}

// Average is an incremental recurrent-mean accumulator: each call to Next
// advances the sample count, and Combine folds a new value into the running
// mean without needing to keep every past sample around.
//
//	M_n = ((n-1)/n) * M_{n-1} + (1/n) * x_n
type Average struct {
	spp        int
	prevWeight float64
	thisWeight float64
}

// Sample returns the number of samples accumulated so far.
func (a *Average) Sample() int { return a.spp }

// Reset clears the accumulator back to zero samples.
func (a *Average) Reset() { *a = Average{} }

// Next advances the accumulator to the next sample, recomputing the blend
// weights used by Combine. Must be called once before each Combine.
func (a *Average) Next() {
	a.prevWeight = float64(a.spp) / float64(a.spp+1)
	a.thisWeight = 1 / float64(a.spp+1)
	a.spp++
}

// Combine blends a new color sample into the running mean.
func (a *Average) Combine(prev, next Vec3) Vec3 {
	prevWeight := a.prevWeight
	if a.spp == 1 {
		prevWeight = 0
	}
	return prev.Multiply(prevWeight).Add(next.Multiply(a.thisWeight))
}
