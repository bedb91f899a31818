package imageio

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"github.com/df07/go-rtiow/pkg/core"
)

// WritePPM writes pixels as a plain-text PPM (P3) image.
// Pixels are in emission order, top row first. Each component is quantized
// with Vec3.Quantize and written unclamped.
func WritePPM(w io.Writer, width, height int, pixels []core.Vec3) error {
	if len(pixels) != width*height {
		return fmt.Errorf("ppm: have %d pixels for a %dx%d image", len(pixels), width, height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for _, c := range pixels {
		r, g, b := c.Quantize()
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeImagePPM writes any image as P3, reading its 8-bit colors
func writeImagePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
