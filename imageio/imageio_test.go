package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestIsLinearFormat(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"render.exr", true},
		{"render.EXR", true},
		{"radiance.hdr", true},
		{"photo.png", false},
		{"photo.jpg", false},
		{"photo", false},
	}
	for _, c := range cases {
		if got := IsLinearFormat(c.path); got != c.want {
			t.Errorf("IsLinearFormat(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestClone(t *testing.T) {
	im := &Image{Width: 1, Height: 1, Channels: 3, Pix: []float64{0.1, 0.2, 0.3}}
	clone := im.Clone()
	clone.Pix[0] = 9
	if im.Pix[0] != 0.1 {
		t.Error("Clone shares the pixel buffer")
	}
	if clone.Width != 1 || clone.Height != 1 || clone.Channels != 3 {
		t.Errorf("Clone dropped dimensions: %+v", clone)
	}
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, B: 255, A: 255})

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return path
}

func TestReadPNG(t *testing.T) {
	im, err := Read(writePNG(t))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if im.Width != 2 || im.Height != 1 || im.Channels != 3 {
		t.Fatalf("decoded shape = %dx%dx%d, want 2x1x3", im.Width, im.Height, im.Channels)
	}
	want := []float64{1, 0, 0, 0, 1, 1}
	for i := range want {
		if math.Abs(im.Pix[i]-want[i]) > 1e-4 {
			t.Errorf("Pix[%d] = %v, want %v", i, im.Pix[i], want[i])
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.png")); !errors.Is(err, ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}

func TestReadEXRUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.exr")
	if err := os.WriteFile(path, []byte{0x76, 0x2f, 0x31, 0x01}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}

func writeHDR(t *testing.T, body []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "radiance.hdr")
	header := []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 2\n")
	if err := os.WriteFile(path, append(header, body...), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadRGBEFlat(t *testing.T) {
	// Two flat pixels: a unit red and a zero exponent black.
	path := writeHDR(t, []byte{
		128, 0, 0, 129,
		0, 0, 0, 0,
	})
	im, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if im.Width != 2 || im.Height != 1 {
		t.Fatalf("decoded shape = %dx%d, want 2x1", im.Width, im.Height)
	}
	if math.Abs(im.Pix[0]-1) > 1e-12 {
		t.Errorf("red = %v, want 1", im.Pix[0])
	}
	for i := 3; i < 6; i++ {
		if im.Pix[i] != 0 {
			t.Errorf("zero exponent pixel channel %d = %v, want 0", i-3, im.Pix[i])
		}
	}
}

func TestReadRGBERLE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radiance.hdr")
	header := []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 8\n")
	// RLE scanline of 8 identical pixels (64, 32, 16, e=130).
	body := []byte{
		2, 2, 0, 8,
		136, 64, // red run
		136, 32, // green run
		136, 16, // blue run
		136, 130, // exponent run
	}
	if err := os.WriteFile(path, append(header, body...), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	im, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if im.Width != 8 || im.Height != 1 {
		t.Fatalf("decoded shape = %dx%d, want 8x1", im.Width, im.Height)
	}
	for x := 0; x < 8; x++ {
		r, g, b := im.Pix[x*3], im.Pix[x*3+1], im.Pix[x*3+2]
		if math.Abs(r-1) > 1e-12 || math.Abs(g-0.5) > 1e-12 || math.Abs(b-0.25) > 1e-12 {
			t.Fatalf("pixel %d = (%v, %v, %v), want (1, 0.5, 0.25)", x, r, g, b)
		}
	}
}

func TestReadRGBETruncated(t *testing.T) {
	path := writeHDR(t, []byte{128, 0})
	if _, err := Read(path); !errors.Is(err, ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}
