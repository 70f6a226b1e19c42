// Package tracer implements the progressive path tracing integrator: the
// per-pixel Monte Carlo estimator that combines next-event light sampling,
// BRDF importance sampling, and Russian roulette termination.
package tracer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/lights"
	"github.com/df07/go-ptrace/pkg/material"
	"github.com/df07/go-ptrace/pkg/scene"
)

// Settings controls the integrator's sampling strategy. It is exchanged as
// JSON so render presets can be versioned alongside scene files.
type Settings struct {
	MaxScatterDepth   int  `json:"max_scatter_depth"`
	ShadowRays        bool `json:"shadow_rays"`
	RandomLightSample bool `json:"random_light_sample"`
	TMin              float64 `json:"t_min"`
	TMax              float64 `json:"t_max"`
	MinBounces        int     `json:"min_bounces"`
}

// DefaultSettings returns reasonable defaults for interactive preview.
func DefaultSettings() Settings {
	return Settings{
		MaxScatterDepth:   8,
		ShadowRays:        true,
		RandomLightSample: false,
		TMin:              0.001,
		TMax:              math.Inf(1),
		MinBounces:        3,
	}
}

// LoadSettings reads Settings from a JSON file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, core.WrapIo(fmt.Errorf("reading tracer settings: %w", err))
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, core.WrapFormat(fmt.Errorf("parsing tracer settings: %w", err))
	}
	return s, nil
}

// Save writes Settings to path as JSON.
func (s Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tracer settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing tracer settings: %w", err)
	}
	return nil
}

// Camera generates a primary ray for a screen-space coordinate in [0,1]²,
// consuming sampler entropy for depth-of-field or other jittering.
type Camera interface {
	Ray(x, y float64, sampler core.Sampler) core.Ray
}

// Tracer holds the immutable state needed to evaluate pixels: the camera,
// the scene, and the integrator settings. It is safe to share across
// concurrent tile workers, each supplying its own Sampler.
type Tracer struct {
	Camera   Camera
	Scene    *scene.Scene
	Settings Settings
}

// New creates a Tracer.
func New(camera Camera, sc *scene.Scene, settings Settings) *Tracer {
	return &Tracer{Camera: camera, Scene: sc, Settings: settings}
}

// traceLight returns the direction toward light if it is visible (unoccluded
// and not facing away) from position, or ok=false otherwise.
func (t *Tracer) traceLight(position, normal core.Vec3, light lights.Light) (core.Vec3, bool) {
	if point, ok := light.(*lights.Point); ok {
		if point.Position.Subtract(position).LengthSquared() > point.RangeSquared() {
			return core.Vec3{}, false
		}
	}

	direction, distance := light.DirectionDistance(position)
	if normal.Dot(direction) <= 0 {
		return core.Vec3{}, false
	}

	var hit material.Hit
	shadowRay := core.NewRay(position, direction)
	if t.Scene.Hit(shadowRay, t.Settings.TMin, t.Settings.TMax, &hit) && hit.T < distance {
		return core.Vec3{}, false
	}
	return direction, true
}

func (t *Tracer) sampleLight(light lights.Light, position core.Vec3, mat material.ResolvedMaterial, brdf material.Brdf, wo core.Vec3) core.Vec3 {
	direction, ok := t.traceLight(position, mat.ShadingNormal, light)
	if !ok {
		return core.Vec3{}
	}
	pdf := brdf.Pdf(direction, mat.ShadingNormal)
	value := brdf.Eval(direction, wo, mat).MultiplyVec(light.Intensity(position))
	return value.Multiply(1 / pdf)
}

// sampleLights estimates direct lighting at position. With RandomLightSample
// == false it sums every light's contribution and divides by the light count
// N; with RandomLightSample == true it samples one light uniformly and divides
// that light's contribution by N, so its expected value is the summed mode's
// result divided by N.
func (t *Tracer) sampleLights(position core.Vec3, mat material.ResolvedMaterial, brdf material.Brdf, sampler core.Sampler, wo core.Vec3) core.Vec3 {
	numLights := len(t.Scene.Lights)
	if numLights == 0 {
		return core.Vec3{}
	}

	if t.Settings.RandomLightSample {
		idx := int(sampler.Float64() * float64(numLights))
		if idx >= numLights {
			idx = numLights - 1
		}
		return t.sampleLight(t.Scene.Lights[idx], position, mat, brdf, wo).Multiply(1 / float64(numLights))
	}

	var color core.Vec3
	for _, light := range t.Scene.Lights {
		color = color.Add(t.sampleLight(light, position, mat, brdf, wo))
	}
	return color.Multiply(1 / float64(numLights))
}

// Trace estimates the radiance arriving at the camera along the primary ray
// through screen-space coordinate (x, y), both in [0,1].
func (t *Tracer) Trace(x, y float64, sampler core.Sampler) core.Vec3 {
	ray := t.Camera.Ray(x, y, sampler)

	var color core.Vec3
	throughput := core.Vec3One()
	bounce := 0

	for bounce < t.Settings.MaxScatterDepth {
		bounce++

		var rawHit material.Hit
		if !t.Scene.Hit(ray, t.Settings.TMin, t.Settings.TMax, &rawHit) {
			color = color.Add(throughput.MultiplyVec(t.Scene.Environment(ray)))
			break
		}

		mat := rawHit.Resolve()
		brdf := rawHit.Material.Brdf

		color = color.Add(throughput.MultiplyVec(mat.Emissive))

		if t.Settings.ShadowRays {
			color = color.Add(throughput.MultiplyVec(t.sampleLights(rawHit.Position, mat, brdf, sampler, ray.Direction)))
		}

		if bounce == t.Settings.MaxScatterDepth {
			break
		}

		if bounce > t.Settings.MinBounces {
			prob := math.Min(throughput.Luminance(), 0.95)
			if prob < sampler.Float64() {
				break
			}
			throughput = throughput.Multiply(1 / prob)
		}

		var brdfType material.BrdfType
		if mat.Metalness == 1 && mat.Roughness == 0 {
			brdfType = material.BrdfSpecular
		} else {
			prob := brdf.Probability(ray.Direction, mat)
			if sampler.Float64() < prob {
				throughput = throughput.Multiply(1 / prob)
				brdfType = material.BrdfSpecular
			} else {
				throughput = throughput.Multiply(1 / (1 - prob))
				brdfType = material.BrdfDiffuse
			}
		}

		wi, ok := brdf.Sample(brdfType, ray.Direction, mat, sampler)
		if !ok {
			break
		}

		pdf := brdf.Pdf(wi, mat.ShadingNormal)
		value := brdf.Eval(wi, ray.Direction, mat)
		throughput = throughput.MultiplyVec(value).Multiply(1 / pdf)

		ray = core.NewRay(rawHit.Position, wi)
	}

	if t.Settings.MaxScatterDepth == 1 {
		return color.Add(throughput)
	}
	return color
}
