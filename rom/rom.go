// Package rom reads program images, raw binaries loaded at address 0x200 of
// the interpreter memory.
package rom

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"chipper/hw"
)

// ErrEmpty is returned when reading an image with no data.
var ErrEmpty = errors.New("empty program image")

// An Image is a program image.
type Image struct {
	Name string // base name of the file, without extension
	Data []byte
}

// Open loads an image from file.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img := &Image{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if _, err := img.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ReadFrom implements io.ReaderFrom interface.
func (img *Image) ReadFrom(r io.Reader) (int64, error) {
	// Read one byte more than the max, to detect oversized images without
	// reading them entirely.
	buf, err := io.ReadAll(io.LimitReader(r, hw.MaxProgramSize+1))
	if err != nil {
		return 0, err
	}

	switch {
	case len(buf) == 0:
		return 0, ErrEmpty
	case len(buf) > hw.MaxProgramSize:
		return int64(len(buf)), fmt.Errorf("%w: more than %d bytes", hw.ErrProgramTooLarge, hw.MaxProgramSize)
	}

	img.Data = buf
	return int64(len(buf)), nil
}

// Size returns the image size in bytes.
func (img *Image) Size() int { return len(img.Data) }

// PrintInfos writes a summary of the image to w.
func (img *Image) PrintInfos(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	entry := hw.Disasm(img.Data, 0)
	entry.PC = hw.ProgramStart

	fmt.Fprintf(tw, "Name:\t%s\n", img.Name)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", img.Size())
	fmt.Fprintf(tw, "Free memory:\t%d bytes\n", hw.MaxProgramSize-img.Size())
	fmt.Fprintf(tw, "CRC32:\t%08X\n", crc32.ChecksumIEEE(img.Data))
	fmt.Fprintf(tw, "SHA-1:\t%x\n", sha1.Sum(img.Data))
	fmt.Fprintf(tw, "Entry:\t$%03X  %s  %s\n", entry.PC, entry.Opcode, entry)
}

// Disasm writes a linear disassembly of the image to w, one instruction per
// line, as if loaded at hw.ProgramStart.
func (img *Image) Disasm(w io.Writer) error {
	for off := 0; off < len(img.Data); off += 2 {
		op := hw.Disasm(img.Data, uint16(off))
		if _, err := fmt.Fprintf(w, "%03X  %s  %s\n", hw.ProgramStart+off, op.Opcode, op); err != nil {
			return err
		}
	}
	return nil
}
