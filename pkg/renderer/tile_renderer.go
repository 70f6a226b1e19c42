package renderer

import (
	"image"
	"sync/atomic"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/tracer"
)

// TileRenderer drives a tracer.Tracer over a rectangular pixel region,
// folding each new sample into the shared pixelStats array.
type TileRenderer struct {
	tracer        *tracer.Tracer
	width, height int

	// cancelled is checked once per pixel (not per sample); when set, the
	// remaining pixels in the tile are skipped without tracing so an
	// in-flight tile drains quickly instead of finishing its full sample
	// budget. Nil means cancellation is not wired up (e.g. direct tests).
	cancelled *atomic.Bool
}

// NewTileRenderer creates a TileRenderer for an image of the given
// dimensions.
func NewTileRenderer(t *tracer.Tracer, width, height int) *TileRenderer {
	return &TileRenderer{tracer: t, width: width, height: height}
}

// RenderTileBounds samples every pixel in bounds up to targetSamples total
// samples per pixel (pixels already past that count are skipped), writing
// results into the shared pixelStats array (indexed [y][x] in image space).
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			if tr.cancelled != nil && tr.cancelled.Load() {
				continue
			}

			ps := &pixelStats[j][i]
			used := tr.samplePixel(ps, i, j, sampler, targetSamples)

			stats.TotalSamples += used
			if used > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = used
			}
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

func (tr *TileRenderer) samplePixel(ps *PixelStats, i, j int, sampler core.Sampler, targetSamples int) int {
	taken := 0
	for ps.SampleCount() < targetSamples {
		x := (float64(i) + sampler.Float64()) / float64(tr.width)
		y := 1 - (float64(j)+sampler.Float64())/float64(tr.height)

		color := tr.tracer.Trace(x, y, sampler)
		ps.AddSample(color)
		taken++
	}
	return taken
}
