package material

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
)

// minDielectricsF0 is the reflectance of the least reflective common
// dielectric, used as the floor when deriving specular F0 from metalness.
const minDielectricsF0 = 0.04

var minDielectricsF0Vec = core.Vec3{X: minDielectricsF0, Y: minDielectricsF0, Z: minDielectricsF0}

func baseColorToSpecularF0(baseColor core.Vec3, metalness float64) core.Vec3 {
	return core.Vec3{
		X: core.Lerp(minDielectricsF0Vec.X, baseColor.X, metalness),
		Y: core.Lerp(minDielectricsF0Vec.Y, baseColor.Y, metalness),
		Z: core.Lerp(minDielectricsF0Vec.Z, baseColor.Z, metalness),
	}
}

func baseColorToDiffuseReflectance(baseColor core.Vec3, metalness float64) core.Vec3 {
	return baseColor.Multiply(1 - metalness)
}

// evalFresnel is Schlick's approximation to the Fresnel term; f90 is 1 except
// for the shadowedF90 trick used to attenuate low-F0 grazing highlights.
func evalFresnel(f0, f90 core.Vec3, nDotS float64) core.Vec3 {
	t := math.Pow(1-nDotS, 5)
	return core.Vec3{
		X: f0.X + (f90.X-f0.X)*t,
		Y: f0.Y + (f90.Y-f0.Y)*t,
		Z: f0.Z + (f90.Z-f0.Z)*t,
	}
}

// shadowedF90 attenuates F90 for very low F0 values.
// Source: Schuler, "An Efficient and Physically Plausible Real-Time Shading Model", ShaderX7.
func shadowedF90(f0 core.Vec3) float64 {
	t := 1 / minDielectricsF0
	return math.Min(t*f0.Luminance(), 1)
}

// brdfData holds the commonly reused terms for evaluating/sampling the
// microfacet lobe at a single shading point.
type brdfData struct {
	specularF0          core.Vec3
	diffuseReflectance  core.Vec3
	roughness           float64
	alpha, alphaSquared float64
	f                   core.Vec3 // Fresnel term evaluated at (V, H)

	v, n, h, l core.Vec3
	nDotL      float64
	nDotV      float64

	vBackfacing bool
	lBackfacing bool
}

func prepareBrdfData(n, l, v core.Vec3, mat ResolvedMaterial) brdfData {
	var d brdfData
	d.v = v
	d.n = n
	d.l = l

	d.nDotL = n.Dot(l)
	d.nDotV = n.Dot(v)

	d.vBackfacing = d.nDotV <= 0
	d.lBackfacing = d.nDotL <= 0

	d.nDotL = core.Clamp(d.nDotL, 0.00001, 1)
	d.nDotV = core.Clamp(d.nDotV, 0.00001, 1)

	d.roughness = mat.Roughness
	d.alpha = mat.Roughness * mat.Roughness
	d.alphaSquared = d.alpha * d.alpha

	d.specularF0 = baseColorToSpecularF0(mat.BaseColor, mat.Metalness)
	d.diffuseReflectance = baseColorToDiffuseReflectance(mat.BaseColor, mat.Metalness)

	d.h = v.Add(l).Normalize()
	vDotH := math.Max(0, v.Dot(d.h))
	d.f = evalFresnel(d.specularF0, core.Vec3One(), vDotH)

	return d
}

// ggxD is the Trowbridge-Reitz (GGX) normal distribution function.
func ggxD(alphaSquared, nDotH float64) float64 {
	b := (alphaSquared - 1) * nDotH * nDotH + 1
	return alphaSquared / (math.Pi * b * b)
}

// smithG1Ggx is the separable Smith masking/shadowing term for one direction.
func smithG1Ggx(alphaSquared, nDotSSquared float64) float64 {
	return 2 / (math.Sqrt(((alphaSquared*(1-nDotSSquared))+nDotSSquared)/nDotSSquared) + 1)
}

// smithG2OverG1HeightCorrelated is the G2/G1(V) ratio used as the specular
// VNDF sample's throughput weight: most terms of the full BRDF/pdf quotient
// cancel, leaving just this ratio.
func smithG2OverG1HeightCorrelated(alphaSquared, nDotL, nDotV float64) float64 {
	g1V := smithG1Ggx(alphaSquared, nDotV*nDotV)
	g1L := smithG1Ggx(alphaSquared, nDotL*nDotL)
	return g1L / (g1V + g1L - g1V*g1L)
}

// smithG2HeightCorrelatedGgxLagarde is the closed-form height-correlated G2,
// used directly when evaluating full BRDF contribution (as opposed to the
// ratio form used when deriving a sampling weight).
func smithG2HeightCorrelatedGgxLagarde(alphaSquared, nDotL, nDotV float64) float64 {
	a := nDotV * math.Sqrt(alphaSquared+nDotL*(nDotL-alphaSquared*nDotL))
	b := nDotL * math.Sqrt(alphaSquared+nDotV*(nDotV-alphaSquared*nDotV))
	return 0.5 / (a + b)
}

// sampleGgxVndf samples a half-vector from the GGX visible normal
// distribution. Source: Heitz, "Sampling the GGX Distribution of Visible
// Normals", JCGT 2018.
func sampleGgxVndf(v core.Vec3, alpha2D [2]float64, u [2]float64) core.Vec3 {
	vh := core.Vec3{X: alpha2D[0] * v.X, Y: alpha2D[1] * v.Y, Z: v.Z}.Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	var tangent1 core.Vec3
	if lensq > 0 {
		tangent1 = core.Vec3{X: -vh.Y, Y: vh.X}.Multiply(1 / math.Sqrt(lensq))
	} else {
		tangent1 = core.Vec3{X: 1}
	}
	tangent2 := vh.Cross(tangent1)

	r := math.Sqrt(u[0])
	phi := 2 * math.Pi * u[1]
	t1 := r * math.Cos(phi)
	t2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	t2 = (1-s)*math.Sqrt(1-t1*t1) + s*t2

	nh := tangent1.Multiply(t1).Add(tangent2.Multiply(t2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-t1*t1-t2*t2))))

	return core.Vec3{X: alpha2D[0] * nh.X, Y: alpha2D[1] * nh.Y, Z: math.Max(0, nh.Z)}.Normalize()
}

func specularSampleWeightGgxVndf(alpha, alphaSquared, nDotL, nDotV, nDotH, vDotH float64) float64 {
	return smithG2OverG1HeightCorrelated(alphaSquared, nDotL, nDotV)
}

// sampleSpecularMicrofacet samples the specular lobe in local (+Z) space,
// returning the sampled light direction and the throughput weight already
// divided by the sampling pdf.
func sampleSpecularMicrofacet(v core.Vec3, alpha, alphaSquared float64, specularF0 core.Vec3, u [2]float64) (core.Vec3, core.Vec3) {
	var l core.Vec3
	if alpha == 0 {
		// Perfect mirror: avoid the degenerate VNDF sample.
		l = core.Vec3{X: -v.X, Y: -v.Y, Z: v.Z}
		nDotL := l.Z
		nDotV := v.Z
		f := evalFresnel(specularF0, core.Vec3One(), math.Max(nDotV, 0))
		weight := f.Multiply(smithG2OverG1HeightCorrelated(0.0001, math.Abs(nDotL), math.Abs(nDotV)))
		return l, weight
	}

	h := sampleGgxVndf(v, [2]float64{alpha, alpha}, u)
	l = core.Reflect(v.Multiply(-1), h)

	nDotL := l.Z
	nDotV := v.Z
	nDotH := h.Z
	vDotH := math.Max(0.00001, math.Min(1, v.Dot(h)))

	if nDotL <= 0 {
		return l, core.Vec3{}
	}

	f := evalFresnel(specularF0, core.Vec3One(), vDotH)
	weight := f.Multiply(specularSampleWeightGgxVndf(alpha, alphaSquared, math.Abs(nDotL), math.Abs(nDotV), nDotH, vDotH))

	return l, weight
}

// evalMicrofacet returns the specular layer's BRDF value (already including
// the cosine term n.l, matching this codebase's "eval already includes
// cosine" convention).
func evalMicrofacet(d brdfData) core.Vec3 {
	nDotH := core.Saturate(d.n.Dot(d.h))
	// Clamp only the D term: a roughness-0 mirror drives alphaSquared to 0,
	// which would otherwise make D spike to infinity at nDotH==1 for an
	// off-axis half-vector instead of the near-delta-function it approximates.
	dTerm := ggxD(math.Max(0.00001, d.alphaSquared), nDotH)
	g2 := smithG2HeightCorrelatedGgxLagarde(d.alphaSquared, d.nDotL, d.nDotV)
	return d.f.Multiply(g2 * dTerm * d.nDotL)
}

// evalLambertian returns the diffuse layer's BRDF value (also including cosine).
func evalLambertian(d brdfData) core.Vec3 {
	return d.diffuseReflectance.Multiply(core.OneOverPi * d.nDotL)
}

// MicrofacetBrdf combines a GGX specular lobe with a Lambertian diffuse
// lobe, weighted by Fresnel so the pair stays energy conserving.
// Source: https://github.com/boksajak/referencePT
type MicrofacetBrdf struct{}

// NewMicrofacetBrdf creates a combined GGX + Lambertian BRDF.
func NewMicrofacetBrdf() *MicrofacetBrdf { return &MicrofacetBrdf{} }

func (m *MicrofacetBrdf) Sample(brdfType BrdfType, wo core.Vec3, mat ResolvedMaterial, sampler core.Sampler) (core.Vec3, bool) {
	v := wo.Multiply(-1)

	if mat.ShadingNormal.Dot(v) <= 0 {
		return core.Vec3{}, false
	}

	qToZ := core.RotationToZAxis(mat.ShadingNormal)
	vLocal := qToZ.RotatePoint(v)
	nLocal := core.Vec3{Z: 1}

	var localDir core.Vec3
	var weight core.Vec3

	switch brdfType {
	case BrdfDiffuse:
		local, _ := core.CosineSampleHemisphere(sampler)
		d := prepareBrdfData(nLocal, local, vLocal, mat)
		weight = d.diffuseReflectance

		h := sampleGgxVndf(vLocal, [2]float64{d.alpha, d.alpha}, [2]float64{sampler.Float64(), sampler.Float64()})
		vDotH := core.Clamp(vLocal.Dot(h), 0.00001, 1)
		diff := core.Vec3One().Subtract(evalFresnel(d.specularF0, core.Vec3{
			X: shadowedF90(d.specularF0), Y: shadowedF90(d.specularF0), Z: shadowedF90(d.specularF0),
		}, vDotH))
		weight = core.Vec3{X: weight.X * diff.X, Y: weight.Y * diff.Y, Z: weight.Z * diff.Z}
		localDir = local

	case BrdfSpecular:
		d := prepareBrdfData(nLocal, core.Vec3{Z: 1}, vLocal, mat)
		localDir, weight = sampleSpecularMicrofacet(vLocal, d.alpha, d.alphaSquared, d.specularF0,
			[2]float64{sampler.Float64(), sampler.Float64()})
	}

	if weight.Luminance() == 0 {
		return core.Vec3{}, false
	}

	wi := qToZ.Invert().RotatePoint(localDir).Normalize()

	if mat.GeometryNormal.Dot(wi) <= 0 {
		return core.Vec3{}, false
	}

	return wi, true
}

func (m *MicrofacetBrdf) Eval(wi, wo core.Vec3, mat ResolvedMaterial) core.Vec3 {
	n := mat.ShadingNormal
	d := prepareBrdfData(n, wi, wo.Multiply(-1), mat)

	if d.vBackfacing || d.lBackfacing {
		return core.Vec3{}
	}

	specular := evalMicrofacet(d)
	diffuse := evalLambertian(d)

	// Specular already carries its own Fresnel factor; attenuate diffuse by
	// the complement so the combined layers stay energy conserving.
	oneMinusF := core.Vec3{X: 1 - d.f.X, Y: 1 - d.f.Y, Z: 1 - d.f.Z}
	return core.Vec3{
		X: oneMinusF.X*diffuse.X + specular.X,
		Y: oneMinusF.Y*diffuse.Y + specular.Y,
		Z: oneMinusF.Z*diffuse.Z + specular.Z,
	}
}

// Pdf always returns 1: Sample's returned direction's throughput weight is
// already divided by its true sampling pdf, so the tracer's generic
// "throughput *= eval(wi,wo) / pdf(wi,n)" update needs pdf to be a no-op here.
func (m *MicrofacetBrdf) Pdf(_, _ core.Vec3) float64 {
	return 1
}

// Probability estimates how much of the reflected light comes from the
// specular lobe versus the diffuse lobe, using the Fresnel term evaluated
// at the shading normal (an approximation — the true half-vector isn't
// known until a lobe has been chosen).
func (m *MicrofacetBrdf) Probability(wo core.Vec3, mat ResolvedMaterial) float64 {
	specularF0 := baseColorToSpecularF0(mat.BaseColor, mat.Metalness).Luminance()
	diffuseReflectance := baseColorToDiffuseReflectance(mat.BaseColor, mat.Metalness).Luminance()

	nDotV := math.Max(0, wo.Multiply(-1).Dot(mat.ShadingNormal))
	f0 := core.Vec3{X: specularF0, Y: specularF0, Z: specularF0}
	fresnel := core.Saturate(evalFresnel(f0, core.Vec3{
		X: shadowedF90(f0), Y: shadowedF90(f0), Z: shadowedF90(f0),
	}, nDotV).Luminance())

	specular := fresnel
	diffuse := diffuseReflectance * (1 - fresnel)

	p := specular / math.Max(0.0001, specular+diffuse)
	return core.Clamp(p, 0.1, 0.9)
}
