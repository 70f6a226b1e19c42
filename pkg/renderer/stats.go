package renderer

import "github.com/df07/go-ptrace/pkg/core"

// RenderStats summarizes one progressive pass over a region of the image.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamplesUsed int
}

// PixelStats accumulates a single pixel's running-mean color via
// core.Average, matching the accumulator's exact recurrence so the result
// never needs a full sample history in memory.
type PixelStats struct {
	color core.Vec3
	avg   core.Average
}

// AddSample folds one more radiance sample into the pixel's running mean.
func (ps *PixelStats) AddSample(sample core.Vec3) {
	ps.avg.Next()
	ps.color = ps.avg.Combine(ps.color, sample)
}

// Color returns the pixel's current running-mean color.
func (ps *PixelStats) Color() core.Vec3 { return ps.color }

// SampleCount returns how many samples have been folded into this pixel.
func (ps *PixelStats) SampleCount() int { return ps.avg.Sample() }
