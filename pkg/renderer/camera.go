package renderer

import (
	"math"

	"github.com/df07/go-ptrace/pkg/core"
)

// sampleUnitDisk draws a point uniformly from the unit disk by rejection
// sampling, matching this codebase's unit_sphere/unit_disk convention of
// rejecting instead of using a closed-form (e.g. concentric) mapping.
func sampleUnitDisk(sampler core.Sampler) (x, y float64) {
	for {
		x = 2*sampler.Float64() - 1
		y = 2*sampler.Float64() - 1
		if x*x+y*y < 1 {
			return
		}
	}
}

// SimpleCamera is a pinhole camera with no depth of field.
type SimpleCamera struct {
	position   core.Vec3
	lowerLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
}

// NewSimpleCamera builds a pinhole camera looking from position toward
// lookAt, with the given up vector, vertical field of view (degrees), and
// aspect ratio (width/height).
func NewSimpleCamera(position, lookAt, up core.Vec3, vFovDegrees, aspectRatio float64) *SimpleCamera {
	theta := vFovDegrees * math.Pi / 180
	height := 2 * math.Tan(theta/2)
	width := aspectRatio * height

	w := position.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(width)
	vertical := v.Multiply(height)
	lowerLeft := position.Subtract(horizontal.Multiply(0.5)).Subtract(vertical.Multiply(0.5)).Subtract(w)

	return &SimpleCamera{position: position, lowerLeft: lowerLeft, horizontal: horizontal, vertical: vertical}
}

// Ray implements tracer.Camera.
func (c *SimpleCamera) Ray(x, y float64, _ core.Sampler) core.Ray {
	direction := c.lowerLeft.Add(c.horizontal.Multiply(x)).Add(c.vertical.Multiply(y)).Subtract(c.position)
	return core.NewRay(c.position, direction.Normalize())
}

// ApertureCamera adds a thin-lens depth-of-field model on top of SimpleCamera's framing.
type ApertureCamera struct {
	position    core.Vec3
	u, v        core.Vec3
	lensRadius  float64
	lowerLeft   core.Vec3
	horizontal  core.Vec3
	vertical    core.Vec3
}

// NewApertureCamera builds a thin-lens camera; aperture is the lens
// diameter and focusDistance is the distance to the in-focus plane.
func NewApertureCamera(position, lookAt, up core.Vec3, vFovDegrees, aspectRatio, aperture, focusDistance float64) *ApertureCamera {
	theta := vFovDegrees * math.Pi / 180
	height := 2 * math.Tan(theta/2)
	width := aspectRatio * height

	w := position.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(width * focusDistance)
	vertical := v.Multiply(height * focusDistance)
	lowerLeft := position.Subtract(horizontal.Multiply(0.5)).Subtract(vertical.Multiply(0.5)).Subtract(w.Multiply(focusDistance))

	return &ApertureCamera{
		position:   position,
		u:          u,
		v:          v,
		lensRadius: aperture / 2,
		lowerLeft:  lowerLeft,
		horizontal: horizontal,
		vertical:   vertical,
	}
}

// Ray implements tracer.Camera.
func (c *ApertureCamera) Ray(x, y float64, sampler core.Sampler) core.Ray {
	rx, ry := sampleUnitDisk(sampler)
	rx *= c.lensRadius
	ry *= c.lensRadius
	offset := c.u.Multiply(rx).Add(c.v.Multiply(ry))

	origin := c.position.Add(offset)
	direction := c.lowerLeft.Add(c.horizontal.Multiply(x)).Add(c.vertical.Multiply(y)).Subtract(c.position).Subtract(offset)
	return core.NewRay(origin, direction.Normalize())
}
