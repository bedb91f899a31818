package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-rtiow/pkg/core"
)

// ErrUnsupportedFormat is returned for file extensions with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format names an output encoding
type Format string

const (
	PPM  Format = "ppm"
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// JPEGQuality is used for every JPEG this package encodes
const JPEGQuality = 95

// ParseFormat accepts a format name or file extension, with or without the dot
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "ppm":
		return PPM, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case PPM:
		return "image/x-portable-pixmap"
	case JPEG:
		return "image/jpeg"
	default:
		return "image/" + string(f)
	}
}

// Extension returns the conventional file extension, including the dot
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// ToImage converts gamma-corrected pixels in emission order to an 8-bit image.
// Row 0 of the image is the top row. Components are quantized then clamped to [0, 255].
func ToImage(width, height int, pixels []core.Vec3) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := pixels[y*width+x].Quantize()
			img.SetNRGBA(x, y, color.NRGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 255})
		}
	}
	return img
}

// clampByte also maps NaN-derived values, which quantize to arbitrary ints, into range
func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PPM:
		return writeImagePPM(w, img)
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	case TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case BMP:
		return imaging.Encode(w, img, imaging.BMP)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save writes img to path, choosing the encoder from the extension
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if format != PPM {
		return imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeImagePPM(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, keeping its aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Bilinear)
}
