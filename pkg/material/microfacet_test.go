package material

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

// sequenceSampler returns a fixed sequence of values, cycling once
// exhausted, for deterministic BRDF sampling tests.
type sequenceSampler struct {
	values []float64
	i      int
}

func (s *sequenceSampler) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func straightDownMaterial(metalness, roughness float64) ResolvedMaterial {
	return ResolvedMaterial{
		BaseColor:      core.Vec3{X: 0.8, Y: 0.2, Z: 0.2},
		ShadingNormal:  core.Vec3{X: 0, Y: 0, Z: 1},
		GeometryNormal: core.Vec3{X: 0, Y: 0, Z: 1},
		Metalness:      metalness,
		Roughness:      roughness,
	}
}

func TestMicrofacetEvalNonNegative(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	mat := straightDownMaterial(0, 0.5)

	wo := core.Vec3{X: 0, Y: 0, Z: -1} // points into the surface
	wi := core.Vec3{X: 0.3, Y: 0, Z: 0.7}.Normalize()

	got := brdf.Eval(wi, wo, mat)
	if got.X < 0 || got.Y < 0 || got.Z < 0 {
		t.Errorf("Eval() = %+v, want all components >= 0", got)
	}
}

func TestMicrofacetEvalZeroBelowHemisphere(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	mat := straightDownMaterial(0, 0.5)

	wo := core.Vec3{X: 0, Y: 0, Z: -1}
	wi := core.Vec3{X: 0, Y: 0, Z: -1} // below the surface: backfacing

	got := brdf.Eval(wi, wo, mat)
	if got != (core.Vec3{}) {
		t.Errorf("Eval() for a backfacing wi = %+v, want zero", got)
	}
}

func TestMicrofacetProbabilityIsClampedToUnitInterval(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	wo := core.Vec3{X: 0, Y: 0, Z: -1}

	for _, metalness := range []float64{0, 0.5, 1} {
		mat := straightDownMaterial(metalness, 0.5)
		p := brdf.Probability(wo, mat)
		if p < 0.1 || p > 0.9 {
			t.Errorf("Probability(metalness=%v) = %v, want within [0.1, 0.9]", metalness, p)
		}
	}
}

func TestMicrofacetSampleDiffuseStaysAboveHemisphere(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	mat := straightDownMaterial(0, 0.8)
	sampler := &sequenceSampler{values: []float64{0.25, 0.6, 0.4, 0.9}}

	wo := core.Vec3{X: 0, Y: 0, Z: -1}
	wi, ok := brdf.Sample(BrdfDiffuse, wo, mat, sampler)
	if !ok {
		t.Fatal("expected a valid diffuse sample")
	}
	if wi.Dot(mat.GeometryNormal) <= 0 {
		t.Errorf("sampled wi = %+v should be above the geometric hemisphere", wi)
	}
}

func TestMicrofacetSampleSpecularMirrorReflectsExactly(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	mat := straightDownMaterial(1, 0) // roughness 0: perfect mirror
	sampler := &sequenceSampler{values: []float64{0.5, 0.5}}

	wo := core.Vec3{X: 0.3, Y: 0, Z: -0.95}.Normalize()
	wi, ok := brdf.Sample(BrdfSpecular, wo, mat, sampler)
	if !ok {
		t.Fatal("expected a valid specular sample for a perfect mirror")
	}

	want := core.Reflect(wo, mat.ShadingNormal)
	const eps = 1e-6
	if absf(wi.X-want.X) > eps || absf(wi.Y-want.Y) > eps || absf(wi.Z-want.Z) > eps {
		t.Errorf("mirror Sample() = %+v, want exact reflection %+v", wi, want)
	}
}

func TestMicrofacetSampleRejectsGrazingViewer(t *testing.T) {
	brdf := NewMicrofacetBrdf()
	mat := straightDownMaterial(0, 0.5)
	sampler := &sequenceSampler{values: []float64{0.5, 0.5}}

	// wo pointing away from the surface on the same side as the normal:
	// v = -wo would then point into the surface, which Sample rejects.
	wo := core.Vec3{X: 0, Y: 0, Z: 1}
	if _, ok := brdf.Sample(BrdfDiffuse, wo, mat, sampler); ok {
		t.Error("expected Sample to reject a viewer direction behind the surface")
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
