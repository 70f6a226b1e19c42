package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/tracer"
)

// DefaultLogger implements core.Logger by writing to stdout.
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a logger that writes to stdout.
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig controls how a render is split into tiles and passes.
type ProgressiveConfig struct {
	TileSize           int
	InitialSamples     int
	MaxSamplesPerPixel int
	MaxPasses          int
	NumWorkers         int // 0 = use CPU count
}

// DefaultProgressiveConfig returns sensible defaults for interactive preview.
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 64,
		MaxPasses:          7,
		NumWorkers:         0,
	}
}

// ProgressiveRaytracer coordinates multi-pass rendering of a single tracer
// over a tile grid, raising the cumulative sample count by an equal step
// each pass after the first so the image fills in quickly and then converges.
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer builds a progressive renderer for t over an image
// of the given dimensions.
func NewProgressiveRaytracer(t *tracer.Tracer, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	tiles := NewTileGrid(width, height, config.TileSize)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	workerPool := NewWorkerPool(t, width, height, len(tiles), config.NumWorkers)

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		workerPool: workerPool,
		logger:     logger,
	}
}

// getSamplesForPass computes the cumulative target sample count for a pass,
// ramping from InitialSamples on pass 1 up to MaxSamplesPerPixel by the
// final pass.
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	target := pr.config.InitialSamples + (passNumber-1)*samplesPerPass
	if passNumber == pr.config.MaxPasses {
		target = pr.config.MaxSamplesPerPixel
	}
	return target
}

// RenderPass renders every tile up to this pass's cumulative sample target,
// invoking tileCallback (if non-nil) as each tile finishes.
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: target %d samples/pixel (%d workers)\n",
		passNumber, targetSamples, pr.workerPool.NumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	for i, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		})
	}

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	img, stats := pr.assembleImage()
	return img, stats, nil
}

func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pr.pixelStats[y][x]
			if ps.SampleCount() > 0 {
				img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, vec3ToRGBA(ps.Color()))
			}
		}
	}
	return img
}

// PassResult is one progressive pass's output image and statistics.
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult reports a single tile finishing within a pass.
type TileCompletionResult struct {
	TileX, TileY int
	TileImage    *image.RGBA
	PassNumber   int
	TileNumber   int
	TotalTiles   int
	TotalPasses  int
}

// RenderOptions toggles optional progress reporting.
type RenderOptions struct {
	TileUpdates bool
}

// RenderProgressive runs every configured pass in a background goroutine,
// returning channels the caller drains for pass completions, per-tile
// completions, and any fatal error. Cancelling ctx sets the worker pool's
// cancellation flag immediately, so in-flight tiles abort at their next
// pixel rather than finishing the pass's full sample budget; the pass loop
// itself still only observes ctx at a pass boundary and returns ctx.Err()
// there. The next RenderProgressive call detects a leftover cancellation
// and resets the accumulation buffer before starting.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	if pr.workerPool.Cancelled() {
		pr.Reset()
	}

	watcherDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pr.workerPool.Cancel()
		case <-watcherDone:
		}
	}()

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()
		defer close(watcherDone)

		pr.logger.Printf("Starting progressive rendering with %d passes\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			start := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			elapsed := time.Since(start)
			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n", pass, elapsed, actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if actualSamples >= pr.config.MaxSamplesPerPixel {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping\n", pr.config.MaxSamplesPerPixel)
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Reset clears the accumulation buffer and the worker pool's cancellation
// flag, so the next RenderProgressive call starts a fresh running average
// instead of resuming a partially-cancelled one.
func (pr *ProgressiveRaytracer) Reset() {
	for y := range pr.pixelStats {
		for x := range pr.pixelStats[y] {
			pr.pixelStats[y][x] = PixelStats{}
		}
	}
	pr.workerPool.ResetCancellation()
}

func (pr *ProgressiveRaytracer) assembleImage() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := RenderStats{TotalPixels: pr.width * pr.height}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			ps := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, vec3ToRGBA(ps.Color()))

			stats.TotalSamples += ps.SampleCount()
			if ps.SampleCount() > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = ps.SampleCount()
			}
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}

// vec3ToRGBA tonemaps a linear radiance value to sRGB-gamma 8-bit output.
func vec3ToRGBA(c core.Vec3) color.RGBA {
	gammaCorrected := c.Clamp(0, 1).GammaCorrect(2.2)
	return color.RGBA{
		R: uint8(gammaCorrected.X*255 + 0.5),
		G: uint8(gammaCorrected.Y*255 + 0.5),
		B: uint8(gammaCorrected.Z*255 + 0.5),
		A: 255,
	}
}
