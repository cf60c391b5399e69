// Package tests provides the test ROMs used by the integration tests,
// downloaded on first use.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// ROMs of github.com/Timendus/chip8-test-suite.
var suiteFiles = []string{
	"1-chip8-logo.ch8",
	"2-ibm-logo.ch8",
	"3-corax+.ch8",
	"4-flags.ch8",
	"5-quirks.ch8",
	"6-keypad.ch8",
	"7-beep.ch8",
}

const suiteURL = `https://raw.githubusercontent.com/Timendus/chip8-test-suite/main/bin/%s`

func download(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// download all test suite roms into dest dir.
func downloadTestRoms(tb testing.TB, dest string) error {
	tempdir, err := os.MkdirTemp("", "chip8-test-suite.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, name := range suiteFiles {
		url := fmt.Sprintf(suiteURL, name)
		g.Go(func() error {
			if err := download(url, filepath.Join(tempdir, name)); err != nil {
				return err
			}
			tb.Log("downloaded", url)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}
	return os.Rename(tempdir, dest)
}

var (
	romsOnce sync.Once
	romsDir  string
	romsErr  error
)

// RomsPath returns the directory containing the test suite roms, downloading
// them if needed. The test is skipped when running with -short or if the roms
// can't be downloaded.
func RomsPath(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping test rom in short mode")
	}

	romsOnce.Do(func() {
		_, b, _, _ := runtime.Caller(0)
		romsDir = filepath.Join(filepath.Dir(b), "chip8-test-suite")

		if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
			tb.Log("chip8-test-suite directory not found, downloading it...")
			romsErr = downloadTestRoms(tb, romsDir)
		}
	})

	if romsErr != nil {
		tb.Skipf("test roms unavailable: %s", romsErr)
	}
	return romsDir
}
