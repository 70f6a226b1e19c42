package renderer

import (
	"image"

	"github.com/df07/go-ptrace/pkg/core"
)

// Tile is a rectangular region of the image rendered as one unit of work.
// Each tile owns a deterministic sampler seed so re-rendering the same
// scene with the same tile grid reproduces identical pixels regardless of
// how goroutines happen to interleave.
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
}

// NewTileGrid partitions a width x height image into tileSize x tileSize
// tiles (the final row/column may be smaller), in raster order.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	id := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: id, Bounds: image.Rect(x0, y0, x1, y1)})
			id++
		}
	}

	return tiles
}

// tileSampler returns a deterministic per-tile Sampler, so repeated renders
// of the same tile grid are reproducible independent of goroutine scheduling.
func tileSampler(tileID int) core.Sampler {
	return core.NewRandSampler(int64(tileID) + 42)
}
