package emu

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"chipper/emu/log"
	"chipper/hw"
	"chipper/rom"
)

func TestLaunchErrors(t *testing.T) {
	big := &rom.Image{Data: make([]byte, hw.MaxProgramSize+1)}
	if _, err := Launch(big, &HeadlessOutput{}, nil, DefaultConfig()); !errors.Is(err, hw.ErrProgramTooLarge) {
		t.Errorf("Launch() error = %v, want ErrProgramTooLarge", err)
	}
}

func TestResetReloadFailure(t *testing.T) {
	img := program(0x1200) // JP $200
	e := launch(t, img, &HeadlessOutput{}, nil, unthrottled(0))

	var buf bytes.Buffer
	log.SetOutput(&buf)

	// The image grew past the memory size since power up.
	img.Data = make([]byte, hw.MaxProgramSize+1)
	e.Reset()

	err := e.Run(context.Background())
	if !errors.Is(err, hw.ErrProgramTooLarge) {
		t.Fatalf("Run() error = %v, want ErrProgramTooLarge", err)
	}
	if !strings.Contains(buf.String(), "Failed to reload program") {
		t.Errorf("reload failure not logged:\n%s", buf.String())
	}
}

func TestRunMaxCycles(t *testing.T) {
	out := &recordOutput{}
	e := launch(t, program(0x1200), out, nil, unthrottled(1000)) // JP $200

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Machine.Cycles != 1000 {
		t.Errorf("ran %d cycles, want 1000", e.Machine.Cycles)
	}
	if !out.closed {
		t.Errorf("output not closed")
	}
}

func TestRunFault(t *testing.T) {
	e := launch(t, program(0x6001, 0x0123), &HeadlessOutput{}, nil, unthrottled(0))

	err := e.Run(context.Background())
	var operr *hw.OpcodeError
	if !errors.As(err, &operr) {
		t.Fatalf("Run() error = %v, want *hw.OpcodeError", err)
	}
	if operr.PC != 0x202 {
		t.Errorf("fault at $%03X, want $202", operr.PC)
	}
}

func TestRunPresentsFrames(t *testing.T) {
	out := &recordOutput{}
	e := launch(t, program(
		0xA050, // LD I, $050
		0xD015, // DRW V0, V0, 5
		0x6000, // LD V0, $00
		0x00E0, // CLS
		0x1208, // JP $208
	), out, nil, unthrottled(50))

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(out.frames) != 2 {
		t.Fatalf("got %d frames, want 2 (draw, clear)", len(out.frames))
	}
	if out.frames[0].Count() != 14 || out.frames[1].Count() != 0 {
		t.Errorf("frames have %d and %d pixels, want 14 and 0", out.frames[0].Count(), out.frames[1].Count())
	}
	if e.Machine.NeedsRedraw() {
		t.Errorf("redraw flag not cleared after presenting")
	}
	if fb := e.Frame(); fb != out.frames[1] {
		t.Errorf("Frame() is not the last presented frame")
	}
}

func TestRunBeeps(t *testing.T) {
	out := &recordOutput{}
	e := launch(t, program(
		0x6003, // LD V0, $03
		0xF018, // LD ST, V0
		0x1204, // JP $204
	), out, nil, unthrottled(20))

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if want := []bool{true, false}; !slices.Equal(out.beeps, want) {
		t.Errorf("beeps = %v, want %v", out.beeps, want)
	}
}

func TestRunOutputPoll(t *testing.T) {
	out := &recordOutput{limit: 10}
	e := launch(t, program(0x1200), out, nil, unthrottled(0))

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Machine.Cycles != 10 {
		t.Errorf("ran %d cycles, want 10", e.Machine.Cycles)
	}
}

func TestRunContextCancel(t *testing.T) {
	e := launch(t, program(0x1200), &HeadlessOutput{}, nil, unthrottled(0))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Machine.Cycles == 0 {
		t.Errorf("no cycle executed")
	}
}

func TestStop(t *testing.T) {
	e := launch(t, program(0x1200), &HeadlessOutput{}, nil, unthrottled(0))

	done := make(chan error)
	go func() { done <- e.Run(context.Background()) }()

	time.Sleep(5 * time.Millisecond)
	e.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("emulator didn't stop")
	}
}

func TestPauseResetKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Emulation.CyclesPerSecond = 2000
	out := &recordOutput{}
	e := launch(t, program(
		0xF50A, // LD V5, K
		0xA050, // LD I, $050
		0xD015, // DRW V0, V0, 5
		0x1206, // JP $206
	), out, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- e.Run(ctx) }()

	// Wait for the key, then release it.
	time.Sleep(20 * time.Millisecond)
	var keys [hw.NumKeys]bool
	keys[0x7] = true
	e.SetKeys(keys)
	waitFor(t, func() bool { return e.Frame().Count() != 0 })
	e.SetKeys([hw.NumKeys]bool{})

	// Reset is performed even while paused.
	e.SetPause(true)
	if !e.IsPaused() {
		t.Errorf("not paused")
	}
	e.Reset()
	waitFor(t, func() bool { return e.Frame().Count() == 0 })

	e.SetPause(false)
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if e.Machine.V[5] != 0 || e.Machine.PC != 0x200 {
		t.Errorf("machine not reset: V5=%d PC=$%03X", e.Machine.V[5], e.Machine.PC)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

type fixedInput [hw.NumKeys]bool

func (fi fixedInput) Keys() [hw.NumKeys]bool { return fi }

func TestInputPolling(t *testing.T) {
	var in fixedInput
	in[0xA] = true

	cfg := DefaultConfig()
	cfg.Emulation.CyclesPerSecond = 1000
	e := launch(t, program(
		0xF30A, // LD V3, K
		0x1202, // JP $202
	), &HeadlessOutput{}, in, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if e.Machine.PC != 0x202 || e.Machine.V[3] != 0xA {
		t.Errorf("key not received: PC=$%03X V3=$%02X", e.Machine.PC, e.Machine.V[3])
	}
}

func TestTrace(t *testing.T) {
	var sb strings.Builder
	cfg := unthrottled(3)
	cfg.TraceOut = &sb
	cfg.TraceFormat = hw.TraceText

	e := launch(t, program(0x6001, 0x6102, 0x6203), &HeadlessOutput{}, nil, cfg)
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(sb.String(), "\n"); n != 3 {
		t.Errorf("got %d trace lines, want 3:\n%s", n, sb.String())
	}
}

func TestSeed(t *testing.T) {
	prog := program(0xC0FF, 0xC1FF, 0xC2FF, 0xC3FF)
	cfg := unthrottled(4)
	cfg.Emulation.Seed = 1234

	var regs [2][hw.NumRegs]uint8
	for i := range regs {
		e := launch(t, prog, &HeadlessOutput{}, nil, cfg)
		if err := e.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		regs[i] = e.Machine.V
	}
	if regs[0] != regs[1] {
		t.Errorf("same seed, different values: % X vs % X", regs[0][:4], regs[1][:4])
	}
}
