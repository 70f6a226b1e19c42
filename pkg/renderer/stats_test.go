package renderer

import (
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

func TestPixelStatsAccumulatesMean(t *testing.T) {
	var ps PixelStats

	samples := []core.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	for _, s := range samples {
		ps.AddSample(s)
	}

	if ps.SampleCount() != 3 {
		t.Fatalf("SampleCount() = %d, want 3", ps.SampleCount())
	}

	got := ps.Color()
	want := 1.0 / 3.0
	const eps = 1e-9
	if absDiff(got.X, want) > eps || absDiff(got.Y, want) > eps || absDiff(got.Z, want) > eps {
		t.Errorf("Color() = %v, want (%.6f,%.6f,%.6f)", got, want, want, want)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
