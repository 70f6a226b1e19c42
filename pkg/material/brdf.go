package material

import "github.com/df07/go-ptrace/pkg/core"

// BrdfType selects which lobe of a (possibly layered) BRDF to sample.
type BrdfType int

const (
	BrdfDiffuse BrdfType = iota
	BrdfSpecular
)

// Brdf is the scattering model attached to a Material. wo is the incoming
// ray's forward direction (i.e. it points into the surface, the same vector
// as Ray.Direction) — not the optics convention of pointing away from the
// surface. Implementations that need the away-from-surface view vector
// negate wo themselves (Microfacet does this internally).
type Brdf interface {
	// Sample draws an incident direction wi given outgoing direction wo.
	// ok is false when no valid direction exists (e.g. sampled below the
	// geometric hemisphere).
	Sample(brdfType BrdfType, wo core.Vec3, mat ResolvedMaterial, sampler core.Sampler) (wi core.Vec3, ok bool)

	// Eval returns the BRDF value for the given incident/outgoing pair.
	Eval(wi, wo core.Vec3, mat ResolvedMaterial) core.Vec3

	// Pdf returns the probability density of sampling wi via Sample, with
	// respect to the same convention Sample/Eval use (see individual BRDF
	// docs — this is not always a literal solid-angle density).
	Pdf(wi, normal core.Vec3) float64

	// Probability returns the probability of choosing the specular lobe
	// over the diffuse lobe for this BRDF, used to pick a BrdfType before
	// calling Sample. Defaults to 0.5 for BRDFs with a single lobe.
	Probability(wo core.Vec3, mat ResolvedMaterial) float64
}
