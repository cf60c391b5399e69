package emu

import (
	"fmt"
	"image/png"
	"os"

	"chipper/hw"
)

// SaveAsPNG saves the framebuffer as a PNG file at path, each pixel being
// scaled to a square of scale x scale.
func SaveAsPNG(fb *hw.Framebuffer, path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.Image(scale)); err != nil {
		f.Close()
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return f.Close()
}
