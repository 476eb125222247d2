// Package preview renders exported terrain heights as a coloured top-down image.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"github.com/Faultbox/faultterrain/internal/engine/terrain"
)

// ErrNotSquareGrid is returned when the vertex count is not (div+1)^2.
var ErrNotSquareGrid = errors.New("vertex count is not a square grid")

// Stop is a colour at a normalized height in [0, 1].
type Stop struct {
	At    float32
	Color color.RGBA
}

// DefaultRamp runs from low valleys through grass and rock to snow caps.
var DefaultRamp = []Stop{
	{0.00, color.RGBA{28, 58, 150, 255}},
	{0.30, color.RGBA{58, 138, 72, 255}},
	{0.60, color.RGBA{128, 98, 60, 255}},
	{0.85, color.RGBA{196, 196, 196, 255}},
	{1.00, color.RGBA{255, 255, 255, 255}},
}

// HeightImage maps every vertex to one pixel, row i of the grid at image
// row div-i so that +Y points up. Heights are normalized by MinZ/MaxZ.
func HeightImage(buf terrain.Buffers, ramp []Stop) (*image.RGBA, error) {
	if len(ramp) == 0 {
		ramp = DefaultRamp
	}
	vc := buf.VertexCount()
	n := int(math.Sqrt(float64(vc)))
	if n < 2 || n*n != vc || len(buf.Positions) != 3*vc {
		return nil, fmt.Errorf("%d vertices: %w", vc, ErrNotSquareGrid)
	}

	span := buf.MaxZ - buf.MinZ
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			z := buf.Positions[3*(i*n+j)+2]
			h := float32(0.5)
			if span > 0 {
				h = (z - buf.MinZ) / span
			}
			img.SetRGBA(j, n-1-i, Lookup(ramp, h))
		}
	}
	return img, nil
}

// Lookup linearly interpolates the ramp at h, clamping outside the stops.
func Lookup(ramp []Stop, h float32) color.RGBA {
	if h <= ramp[0].At {
		return ramp[0].Color
	}
	for k := 1; k < len(ramp); k++ {
		lo, hi := ramp[k-1], ramp[k]
		if h > hi.At {
			continue
		}
		t := (h - lo.At) / (hi.At - lo.At)
		return color.RGBA{
			R: lerp8(lo.Color.R, hi.Color.R, t),
			G: lerp8(lo.Color.G, hi.Color.G, t),
			B: lerp8(lo.Color.B, hi.Color.B, t),
			A: lerp8(lo.Color.A, hi.Color.A, t),
		}
	}
	return ramp[len(ramp)-1].Color
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

// Render builds the height image and resamples it to size x size pixels.
func Render(buf terrain.Buffers, size int) (*image.RGBA, error) {
	src, err := HeightImage(buf, nil)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, fmt.Errorf("preview size %d", size)
	}
	if size == src.Bounds().Dx() {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// WritePNG renders and PNG-encodes the preview.
func WritePNG(w io.Writer, buf terrain.Buffers, size int) error {
	img, err := Render(buf, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
