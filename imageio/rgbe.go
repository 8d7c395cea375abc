package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Radiance RGBE decoder. The format stores one shared exponent byte per
// pixel next to 8 bit red, green and blue mantissas; scanlines are either
// flat or run-length encoded per component (the "new" RLE introduced with
// Radiance 2.0, marked by a 2, 2, hi, lo scanline header).

func decodeRGBE(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(magic, "#?") {
		return nil, errors.New("rgbe: missing #? magic")
	}

	for {
		line, err := readHeaderLine(br)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		// Header variables (FORMAT, EXPOSURE, ...) are not needed for
		// decoding, the shared exponent carries the scale.
	}

	var h, w int
	resolution, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Sscanf(resolution, "-Y %d +X %d", &h, &w); err != nil {
		return nil, fmt.Errorf("rgbe: unsupported resolution line %q", resolution)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rgbe: invalid dimensions %dx%d", w, h)
	}

	out := &Image{Width: w, Height: h, Channels: 3, Pix: make([]float64, w*h*3)}
	scanline := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := readScanline(br, scanline, w); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			r8 := scanline[x*4]
			g8 := scanline[x*4+1]
			b8 := scanline[x*4+2]
			e8 := scanline[x*4+3]
			i := (y*w + x) * 3
			if e8 == 0 {
				continue
			}
			scale := math.Ldexp(1, int(e8)-(128+8))
			out.Pix[i] = float64(r8) * scale
			out.Pix[i+1] = float64(g8) * scale
			out.Pix[i+2] = float64(b8) * scale
		}
	}
	return out, nil
}

func readHeaderLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("rgbe: truncated header: %w", err)
	}
	return strings.TrimRight(line, "\n"), nil
}

func readScanline(br *bufio.Reader, dst []byte, width int) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(br, header); err != nil {
		return fmt.Errorf("rgbe: truncated scanline: %w", err)
	}

	if header[0] != 2 || header[1] != 2 || int(header[2])<<8|int(header[3]) != width {
		// Flat scanline; the four bytes already read are the first pixel.
		copy(dst, header)
		_, err := io.ReadFull(br, dst[4:width*4])
		if err != nil {
			return fmt.Errorf("rgbe: truncated scanline: %w", err)
		}
		return nil
	}

	// RLE scanline: the four components are stored separately.
	component := make([]byte, width)
	for c := 0; c < 4; c++ {
		for x := 0; x < width; {
			count, err := br.ReadByte()
			if err != nil {
				return fmt.Errorf("rgbe: truncated run: %w", err)
			}
			if count > 128 {
				// Run of a repeated byte.
				n := int(count) - 128
				if x+n > width {
					return errors.New("rgbe: run overflows scanline")
				}
				v, err := br.ReadByte()
				if err != nil {
					return fmt.Errorf("rgbe: truncated run: %w", err)
				}
				for i := 0; i < n; i++ {
					component[x+i] = v
				}
				x += n
			} else {
				n := int(count)
				if n == 0 || x+n > width {
					return errors.New("rgbe: invalid literal run")
				}
				if _, err := io.ReadFull(br, component[x:x+n]); err != nil {
					return fmt.Errorf("rgbe: truncated run: %w", err)
				}
				x += n
			}
		}
		for x := 0; x < width; x++ {
			dst[x*4+c] = component[x]
		}
	}
	return nil
}
