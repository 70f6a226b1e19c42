package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-ptrace/pkg/core"
)

// TestLoadImage creates a test PNG and verifies loading.
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// Top-left: white, top-right: red, bottom-left: green, bottom-right: blue.
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	tex, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if tex.Width != 2 || tex.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", tex.Width, tex.Height)
	}
	if len(tex.RGB) != 4 {
		t.Errorf("Expected 4 pixels, got %d", len(tex.RGB))
	}
	if tex.Alpha != nil {
		t.Errorf("expected a fully opaque image to leave Alpha nil")
	}

	checkColor := func(name string, got, expected core.Vec3) {
		const tolerance = 0.01
		if abs(got.X-expected.X) > tolerance ||
			abs(got.Y-expected.Y) > tolerance ||
			abs(got.Z-expected.Z) > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	white := core.NewVec3(1.0, 1.0, 1.0)
	red := core.NewVec3(1.0, 0.0, 0.0)
	green := core.NewVec3(0.0, 1.0, 0.0)
	blue := core.NewVec3(0.0, 0.0, 1.0)

	checkColor("Top-left (white)", tex.RGB[0], white)
	checkColor("Top-right (red)", tex.RGB[1], red)
	checkColor("Bottom-left (green)", tex.RGB[2], green)
	checkColor("Bottom-right (blue)", tex.RGB[3], blue)
}

// TestLoadImageTransparentSetsAlpha verifies a non-opaque source populates
// the straight alpha channel.
func TestLoadImageTransparentSetsAlpha(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "alpha.png")

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 128})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	tex, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if tex.Alpha == nil {
		t.Fatal("expected a translucent image to populate Alpha")
	}
	if tex.Alpha[0] <= 0 || tex.Alpha[0] >= 1 {
		t.Errorf("Alpha[0] = %v, want strictly between 0 and 1", tex.Alpha[0])
	}
}

// TestLoadImageNotFound verifies error handling for missing files.
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
