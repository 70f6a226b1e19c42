package material

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
)

// Lambertian is a perfectly diffuse BRDF.
//
// Its eval and pdf are both scaled by an extra factor of pi relative to the
// textbook Lambertian model (eval = baseColor * cosTheta * pi, pdf = cosTheta
// * pi). The two extra factors of pi cancel wherever the tracer divides
// eval by pdf, so the net throughput update is exactly baseColor — this is
// simply how the system this was ported from expresses the cosine-weighted
// importance-sampling cancellation, and is preserved here rather than
// "simplified" to the textbook albedo/pi form.
type Lambertian struct{}

// NewLambertian creates a Lambertian BRDF.
func NewLambertian() *Lambertian { return &Lambertian{} }

func (l *Lambertian) Sample(_ BrdfType, _ core.Vec3, mat ResolvedMaterial, sampler core.Sampler) (core.Vec3, bool) {
	local, _ := core.CosineSampleHemisphere(sampler)
	return core.TransformToWorld(local, mat.ShadingNormal).Normalize(), true
}

func (l *Lambertian) Eval(wi, _ core.Vec3, mat ResolvedMaterial) core.Vec3 {
	return mat.BaseColor.Multiply(wi.Dot(mat.ShadingNormal) * math.Pi)
}

func (l *Lambertian) Pdf(wi, normal core.Vec3) float64 {
	return wi.Dot(normal) * math.Pi
}

func (l *Lambertian) Probability(_ core.Vec3, _ ResolvedMaterial) float64 {
	return 0.5
}
