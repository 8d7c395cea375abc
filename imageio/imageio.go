// Package imageio decodes raster files into floating point RGB buffers.
// PNG and JPEG are decoded through the standard image registry, TIFF
// through golang.org/x/image/tiff and Radiance RGBE (.hdr) through the
// decoder in this package. Files in the linear format set are treated as
// already scene-linear by the callers above.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// ErrUnreadable is returned when the image at a path cannot be read or
// decoded. A partially decoded buffer is never returned.
var ErrUnreadable = errors.New("image unreadable")

// LinearExtensions is the fixed set of file extensions assumed to hold
// scene-linear data; decoding transfer functions are not applied to them.
var LinearExtensions = map[string]bool{
	".exr": true,
	".hdr": true,
}

// IsLinearFormat reports whether the path names a scene-linear format.
func IsLinearFormat(path string) bool {
	return LinearExtensions[strings.ToLower(filepath.Ext(path))]
}

// Image is a decoded raster: a 3 channel floating point array in row major
// pixel order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
}

// Clone returns an independent copy of the image.
func (im *Image) Clone() *Image {
	pix := make([]float64, len(im.Pix))
	copy(pix, im.Pix)
	return &Image{Width: im.Width, Height: im.Height, Channels: im.Channels, Pix: pix}
}

// Read decodes the image at path into a floating point RGB buffer. Encoded
// integer formats are scaled to [0, 1]; Radiance RGBE keeps its full
// radiance range. Unreadable or undecodable files yield ErrUnreadable.
func Read(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hdr":
		im, err := decodeRGBE(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
		}
		return im, nil
	case ".exr":
		return nil, fmt.Errorf("%w: %s: OpenEXR decoding is not supported", ErrUnreadable, path)
	}

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return fromImage(src), nil
}

func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &Image{Width: w, Height: h, Channels: 3, Pix: make([]float64, 0, w*h*3)}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			out.Pix = append(out.Pix,
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0)
		}
	}
	return out
}
