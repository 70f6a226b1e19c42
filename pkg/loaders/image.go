package loaders

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder, registered for image.Decode
	_ "image/png"  // PNG decoder, registered for image.Decode
	"os"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/material"
)

// DecodeImage decodes PNG- or JPEG-encoded bytes into a material.Texture
// with a straight (non-premultiplied) alpha channel. This is the single
// decode path shared by every texture source the engine reads: glTF's
// embedded (BufferView) and external (URI) images, and a standalone
// texture file loaded directly via LoadImage.
func DecodeImage(data []byte) (*material.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return textureFromImage(img), nil
}

// LoadImage reads a PNG or JPEG file from disk and decodes it into a
// material.Texture, for previewing or reusing a texture asset outside the
// context of a glTF document.
func LoadImage(filename string) (*material.Texture, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return DecodeImage(data)
}

// textureFromImage converts a decoded image.Image into the engine's
// row-major Vec3 RGB buffer plus an optional straight-alpha channel (nil
// when the source has no transparency, per material.Texture's contract).
func textureFromImage(img image.Image) *material.Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rgb := make([]core.Vec3, width*height)
	alpha := make([]float64, width*height)

	hasAlpha := false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA64Model.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA64)
			idx := y*width + x
			rgb[idx] = core.NewVec3(float64(c.R)/65535.0, float64(c.G)/65535.0, float64(c.B)/65535.0)
			alpha[idx] = float64(c.A) / 65535.0
			if alpha[idx] != 1 {
				hasAlpha = true
			}
		}
	}

	tex := material.NewTexture(width, height, rgb)
	if hasAlpha {
		tex.Alpha = alpha
	}
	return tex
}
