package material

import "github.com/df07/go-ptrace/pkg/core"

// Dielectric is a smooth refractive BRDF (glass, water). Its eval is always
// (1,1,1) and its pdf is always 1 — a delta-function lobe, its weight is
// already folded entirely into which direction Sample returns.
type Dielectric struct {
	RefractiveIndex float64
}

// NewDielectric creates a Dielectric BRDF with the given index of refraction.
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

func (d *Dielectric) Sample(_ BrdfType, wo core.Vec3, mat ResolvedMaterial, sampler core.Sampler) (core.Vec3, bool) {
	reflected := core.Reflect(wo, mat.ShadingNormal)
	woDotNormal := wo.Dot(mat.ShadingNormal)

	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	if woDotNormal > 0 {
		outwardNormal = mat.ShadingNormal.Multiply(-1)
		niOverNt = d.RefractiveIndex
		cosine = d.RefractiveIndex * woDotNormal / wo.Length()
	} else {
		outwardNormal = mat.ShadingNormal
		niOverNt = 1 / d.RefractiveIndex
		cosine = -woDotNormal / wo.Length()
	}

	refracted, ok := core.Refract(wo, outwardNormal, niOverNt)
	if !ok {
		return reflected, true
	}

	reflectProb := core.Schlick(cosine, d.RefractiveIndex)
	if sampler.Float64() < reflectProb {
		return reflected, true
	}
	return refracted, true
}

func (d *Dielectric) Eval(_, _ core.Vec3, _ ResolvedMaterial) core.Vec3 {
	return core.Vec3One()
}

func (d *Dielectric) Pdf(_, _ core.Vec3) float64 {
	return 1
}

func (d *Dielectric) Probability(_ core.Vec3, _ ResolvedMaterial) float64 {
	return 0.5
}
