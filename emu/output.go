package emu

import (
	"bytes"
	"io"
	"sync"

	"chipper/hw"
)

// Output presents the emulator video and audio signals.
type Output interface {
	// Present shows a new frame.
	Present(fb *hw.Framebuffer)
	// Beep starts or stops the tone.
	Beep(on bool)
	// Poll reports whether the emulation should go on.
	Poll() bool
	Close() error
}

// TextOutput renders frames as text. Each frame overwrites the previous one
// when writing to a terminal.
type TextOutput struct {
	w       io.Writer
	on, off string
	ansi    bool

	buf bytes.Buffer
}

// NewTextOutput returns an output rendering frames to w. If ansi is set, the
// cursor is moved back to the top left corner before each frame, and beeps
// ring the terminal bell.
func NewTextOutput(w io.Writer, cfg VideoConfig, ansi bool) *TextOutput {
	return &TextOutput{w: w, on: cfg.PixelOn, off: cfg.PixelOff, ansi: ansi}
}

func (to *TextOutput) Present(fb *hw.Framebuffer) {
	to.buf.Reset()
	if to.ansi {
		to.buf.WriteString("\x1b[H")
	}
	fb.Render(&to.buf, to.on, to.off)
	to.w.Write(to.buf.Bytes())
}

func (to *TextOutput) Beep(on bool) {
	if on && to.ansi {
		to.w.Write([]byte{'\a'})
	}
}

func (to *TextOutput) Poll() bool { return true }

func (to *TextOutput) Close() error {
	if to.ansi {
		_, err := io.WriteString(to.w, "\x1b[0m\n")
		return err
	}
	return nil
}

// HeadlessOutput discards the video and audio signals, only counting them.
type HeadlessOutput struct {
	mu     sync.Mutex
	frames int64
	beeps  int64
	closed bool
}

func (ho *HeadlessOutput) Present(*hw.Framebuffer) {
	ho.mu.Lock()
	ho.frames++
	ho.mu.Unlock()
}

func (ho *HeadlessOutput) Beep(on bool) {
	if !on {
		return
	}
	ho.mu.Lock()
	ho.beeps++
	ho.mu.Unlock()
}

func (ho *HeadlessOutput) Poll() bool { return true }

func (ho *HeadlessOutput) Close() error {
	ho.mu.Lock()
	ho.closed = true
	ho.mu.Unlock()
	return nil
}

// Stats returns the number of presented frames and started beeps.
func (ho *HeadlessOutput) Stats() (frames, beeps int64) {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.frames, ho.beeps
}
