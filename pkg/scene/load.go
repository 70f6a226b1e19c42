package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/geometry"
	"github.com/df07/go-ptrace/pkg/lights"
	"github.com/df07/go-ptrace/pkg/loaders"
)

// Transform describes an optional translate/scale/rotate applied to a mesh
// reference on top of whatever transform is already baked into its source
// file. Rotate is Euler angles in degrees, applied X then Y then Z.
type Transform struct {
	Translate *[3]float64 `json:"translate,omitempty"`
	Scale     *[3]float64 `json:"scale,omitempty"`
	Rotate    *[3]float64 `json:"rotate,omitempty"`
}

func (t *Transform) apply(p core.Vec3) core.Vec3 {
	if t == nil {
		return p
	}
	if t.Scale != nil {
		p = core.Vec3{X: p.X * t.Scale[0], Y: p.Y * t.Scale[1], Z: p.Z * t.Scale[2]}
	}
	if t.Rotate != nil {
		p = p.Rotate(core.Vec3{
			X: t.Rotate[0] * math.Pi / 180,
			Y: t.Rotate[1] * math.Pi / 180,
			Z: t.Rotate[2] * math.Pi / 180,
		})
	}
	if t.Translate != nil {
		p = p.Add(core.Vec3{X: t.Translate[0], Y: t.Translate[1], Z: t.Translate[2]})
	}
	return p
}

// MeshRef names a mesh asset file plus the scene-instance transform applied
// to its (already world-baked) vertex positions.
type MeshRef struct {
	Path      string     `json:"path"`
	Transform *Transform `json:"transform,omitempty"`
}

// DirectionalLightDescription is the JSON shape of a directional light entry.
type DirectionalLightDescription struct {
	Dir       [3]float64 `json:"dir"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
}

// PointLightDescription is the JSON shape of a point light entry.
type PointLightDescription struct {
	Position  [3]float64 `json:"position"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
	Range     float64    `json:"range"`
}

// EnvironmentDescription is the JSON shape of the background environment:
// Type is "black" (default) or "gradient", in which case From/To are used.
type EnvironmentDescription struct {
	Type string     `json:"type"`
	From [3]float64 `json:"from,omitempty"`
	To   [3]float64 `json:"to,omitempty"`
}

// Description is the on-disk JSON scene description: a list of mesh
// references, optional directional/point lights, and an optional
// background environment. See spec.md §6 "Scene description file".
type Description struct {
	Meshes            []MeshRef                    `json:"meshes"`
	DirectionalLights []DirectionalLightDescription `json:"directionalLights,omitempty"`
	PointLights       []PointLightDescription       `json:"pointLights,omitempty"`
	Environment       *EnvironmentDescription        `json:"environment,omitempty"`
}

func vec3(c [3]float64) core.Vec3 { return core.Vec3{X: c[0], Y: c[1], Z: c[2]} }

// Load reads a scene description JSON file, resolves and loads every
// referenced mesh asset (glTF/glb, relative to the description file's
// directory), and assembles the resulting Scene. Errors from malformed
// JSON or missing/unreadable mesh files propagate as wrapped errors (see
// spec.md §7's FormatError/IoError/ImportError taxonomy — the caller can
// distinguish them with errors.Is/As against the underlying os and json
// error types this wraps).
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapIo(fmt.Errorf("reading scene description %q: %w", path, err))
	}

	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, core.WrapFormat(fmt.Errorf("parsing scene description %q: %w", path, err))
	}

	dir := filepath.Dir(path)

	var allMeshes []*geometry.Mesh
	for _, ref := range desc.Meshes {
		meshPath := ref.Path
		if !filepath.IsAbs(meshPath) {
			meshPath = filepath.Join(dir, meshPath)
		}
		loaded, err := loaders.LoadGLTF(meshPath)
		if err != nil {
			return nil, fmt.Errorf("loading mesh %q: %w", ref.Path, err)
		}
		for _, m := range loaded {
			if ref.Transform != nil {
				m = m.Transformed(ref.Transform.apply)
			}
			allMeshes = append(allMeshes, m)
		}
	}

	var sceneLights []lights.Light
	for _, d := range desc.DirectionalLights {
		sceneLights = append(sceneLights, lights.NewDirectional(vec3(d.Dir), vec3(d.Color), d.Intensity))
	}
	for _, p := range desc.PointLights {
		sceneLights = append(sceneLights, lights.NewPoint(vec3(p.Position), vec3(p.Color), p.Intensity, p.Range))
	}

	env := environmentFrom(desc.Environment)

	return New(allMeshes, sceneLights, env), nil
}

func environmentFrom(desc *EnvironmentDescription) lights.Environment {
	if desc == nil || desc.Type == "black" || desc.Type == "" {
		return lights.Black{}
	}
	return lights.NewGradient(vec3(desc.From), vec3(desc.To))
}
