package emu

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chipper/emu/log"
	"chipper/hw"
	"chipper/rom"
)

var updateGolden = flag.Bool("update", false, "update golden files")

// diffScreen compares fb with the golden screen testdata/<name>.golden,
// or records it with -update. The test is skipped if there's no golden file
// yet.
func diffScreen(t *testing.T, name string, fb hw.Framebuffer) {
	t.Helper()
	path := filepath.Join("testdata", name+".golden")
	got := fb.String()

	if *updateGolden {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatal(err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Skipf("no golden screen %s, record it with -update", path)
	}
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("screen differs from %s (-want +got):\n%s", path, diff)
	}
}

// program assembles instruction words into an image.
func program(ops ...uint16) *rom.Image {
	img := &rom.Image{Name: "test"}
	for _, op := range ops {
		img.Data = append(img.Data, uint8(op>>8), uint8(op))
	}
	return img
}

// recordOutput is an Output recording everything it receives.
type recordOutput struct {
	mu     sync.Mutex
	frames []hw.Framebuffer
	beeps  []bool
	polls  int
	limit  int // Poll returns false after limit calls, if non-zero
	closed bool
}

func (ro *recordOutput) Present(fb *hw.Framebuffer) {
	ro.mu.Lock()
	ro.frames = append(ro.frames, *fb)
	ro.mu.Unlock()
}

func (ro *recordOutput) Beep(on bool) {
	ro.mu.Lock()
	ro.beeps = append(ro.beeps, on)
	ro.mu.Unlock()
}

func (ro *recordOutput) Poll() bool {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	ro.polls++
	return ro.limit == 0 || ro.polls <= ro.limit
}

func (ro *recordOutput) Close() error {
	ro.mu.Lock()
	ro.closed = true
	ro.mu.Unlock()
	return nil
}

func launch(tb testing.TB, img *rom.Image, out Output, in Input, cfg Config) *Emulator {
	tb.Helper()
	log.SetOutput(io.Discard)
	tb.Cleanup(func() { log.SetOutput(os.Stderr) })

	e, err := Launch(img, out, in, cfg)
	if err != nil {
		tb.Fatal(err)
	}
	return e
}

// unthrottled returns the default configuration, running as fast as possible
// and stopping after maxCycles.
func unthrottled(maxCycles int64) Config {
	cfg := DefaultConfig()
	cfg.Emulation.CyclesPerSecond = 0
	cfg.MaxCycles = maxCycles
	return cfg
}
