package hw

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math/bits"
)

// Framebuffer is the monochrome 64x32 display, one bit per pixel. Each row is
// stored in a uint64 whose most significant bit is the leftmost column.
type Framebuffer [ScreenHeight]uint64

func (fb *Framebuffer) clear() {
	*fb = Framebuffer{}
}

// Pixel reports whether the pixel at column x, row y is set. Coordinates
// wrap around both axes.
func (fb Framebuffer) Pixel(x, y int) bool {
	x &= ScreenWidth - 1
	y &= ScreenHeight - 1
	return fb[y]>>(ScreenWidth-1-x)&1 != 0
}

// Count returns the number of pixels set.
func (fb Framebuffer) Count() int {
	n := 0
	for _, row := range fb {
		n += bits.OnesCount64(row)
	}
	return n
}

// xorRow composites an 8-pixel sprite row onto row y, starting at column x.
// Columns past the right edge wrap to the left edge. It reports whether a
// pixel previously set has been cleared.
func (fb *Framebuffer) xorRow(x, y int, sprite uint8) bool {
	x &= ScreenWidth - 1
	y &= ScreenHeight - 1
	mask := bits.RotateLeft64(uint64(sprite)<<(ScreenWidth-8), -x)
	collision := fb[y]&mask != 0
	fb[y] ^= mask
	return collision
}

// Render writes the framebuffer as text, one line per row, using on and off
// for set and unset pixels.
func (fb Framebuffer) Render(w io.Writer, on, off string) error {
	var buf bytes.Buffer
	for y := range ScreenHeight {
		for x := range ScreenWidth {
			if fb.Pixel(x, y) {
				buf.WriteString(on)
			} else {
				buf.WriteString(off)
			}
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (fb Framebuffer) String() string {
	var sb bytes.Buffer
	fb.Render(&sb, "#", ".")
	return sb.String()
}

var palette = color.Palette{
	color.RGBA{0x0a, 0x0a, 0x0a, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

// Image returns the framebuffer as an image, each pixel scaled to a
// scale x scale square.
func (fb Framebuffer) Image(scale int) *image.Paletted {
	scale = max(scale, 1)
	img := image.NewPaletted(image.Rect(0, 0, ScreenWidth*scale, ScreenHeight*scale), palette)
	for y := range ScreenHeight * scale {
		for x := range ScreenWidth * scale {
			if fb.Pixel(x/scale, y/scale) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}
