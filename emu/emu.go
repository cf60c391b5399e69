package emu

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"chipper/emu/log"
	"chipper/hw"
	"chipper/rom"
)

// InputPollRate is the frequency at which the host input is sampled.
const InputPollRate = 60

type Emulator struct {
	Machine *hw.Machine

	img *rom.Image
	out Output
	in  Input
	cfg Config

	// These are accessed concurrently by the emulator loop and the remote
	// control or input goroutines.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
	cycles atomic.Int64 // mirrors Machine.Cycles for log records

	mu    sync.Mutex
	keys  [hw.NumKeys]bool // latched, copied to the machine before each cycle
	frame hw.Framebuffer   // last presented

	mmu sync.Mutex // guards Machine while the loop runs

	beeping bool
}

// Launch powers up the machine and loads the program image. It doesn't start
// the emulation loop, call Run() for that. in can be nil, if keys are only
// set with SetKeys.
func Launch(img *rom.Image, out Output, in Input, cfg Config) (*Emulator, error) {
	m := hw.NewMachine()
	if cfg.Emulation.Seed != 0 {
		m.SetRand(hw.NewRand(cfg.Emulation.Seed))
	}
	if err := m.LoadProgram(img.Data); err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		m.SetTraceOutput(cfg.TraceOut, cfg.TraceFormat)
	}

	log.ModEmu.InfoZ("Machine powered up").
		String("rom", img.Name).
		Int("size", img.Size()).
		Int("hz", cfg.Emulation.CyclesPerSecond).
		End()

	return &Emulator{
		Machine: m,
		img:     img,
		out:     out,
		in:      in,
		cfg:     cfg,
	}, nil
}

// Run runs the emulation loop until Stop is called, ctx is canceled, the
// configured number of cycles is reached or the machine faults. Only a fault,
// or a reset that fails to reload the program, returns an error.
func (e *Emulator) Run(ctx context.Context) error {
	defer log.AddContext(e)()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return e.loop(ctx)
	})
	if e.in != nil {
		g.Go(func() error {
			e.pollInput(ctx)
			return nil
		})
	}

	err := g.Wait()
	if cerr := e.out.Close(); cerr != nil {
		log.ModEmu.WarnZ("Failed to close output").Error("err", cerr).End()
	}
	log.ModEmu.InfoZ("Emulation loop exited").Int64("cycles", e.Machine.Cycles).End()
	return err
}

func (e *Emulator) loop(ctx context.Context) error {
	var tick <-chan time.Time
	if hz := e.cfg.Emulation.CyclesPerSecond; hz > 0 {
		t := time.NewTicker(time.Second / time.Duration(hz))
		defer t.Stop()
		tick = t.C
	}

	done := ctx.Done()
	for {
		if tick != nil {
			select {
			case <-done:
				return nil
			case <-tick:
			}
		} else {
			select {
			case <-done:
				return nil
			default:
			}
		}

		if !e.out.Poll() || e.quit.Load() {
			return nil
		}
		if err := e.handleReset(); err != nil {
			return err
		}

		// Handle pause.
		if e.paused.Load() {
			if tick == nil {
				// Don't burn cpu while paused.
				time.Sleep(10 * time.Millisecond)
			}
			continue
		}

		if err := e.step(); err != nil {
			return err
		}
		if e.cfg.MaxCycles > 0 && e.Machine.Cycles >= e.cfg.MaxCycles {
			return nil
		}
	}
}

// step runs one cycle, then presents the screen and the sound if they
// changed.
func (e *Emulator) step() error {
	e.mmu.Lock()
	defer e.mmu.Unlock()

	e.mu.Lock()
	e.Machine.SetKeys(e.keys)
	e.mu.Unlock()

	err := e.Machine.Step()
	e.cycles.Store(e.Machine.Cycles)
	if err != nil {
		return err
	}

	if e.Machine.NeedsRedraw() {
		fb := e.Machine.Screen
		e.mu.Lock()
		e.frame = fb
		e.mu.Unlock()

		e.out.Present(&fb)
		e.Machine.ClearRedraw()
	}

	if on := e.Machine.SoundActive(); on != e.beeping {
		e.beeping = on
		log.ModSound.DebugZ("beep").Bool("on", on).End()
		e.out.Beep(on)
	}
	return nil
}

func (e *Emulator) pollInput(ctx context.Context) {
	t := time.NewTicker(time.Second / InputPollRate)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.SetKeys(e.in.Keys())
		}
	}
}

// handleReset performs a pending reset. The loop stops if the program can't
// be loaded again.
func (e *Emulator) handleReset() error {
	if !e.reset.CompareAndSwap(true, false) {
		return nil
	}

	log.ModEmu.InfoZ("Performing reset").End()
	e.mmu.Lock()
	e.Machine.Reset()
	e.cycles.Store(0)
	err := e.Machine.LoadProgram(e.img.Data)
	e.mmu.Unlock()
	if err != nil {
		log.ModEmu.WarnZ("Failed to reload program").String("rom", e.img.Name).Error("err", err).End()
		return fmt.Errorf("reset failed: %w", err)
	}

	var fb hw.Framebuffer
	e.mu.Lock()
	e.frame = fb
	e.mu.Unlock()
	e.out.Present(&fb)

	if e.beeping {
		e.beeping = false
		e.out.Beep(false)
	}
	return nil
}

// SetPause, Stop, Reset, SetKeys, Frame and State allow to control the emulator
// loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) SetKeys(keys [hw.NumKeys]bool) {
	e.mu.Lock()
	e.keys = keys
	e.mu.Unlock()
}

// Frame returns the last presented frame.
func (e *Emulator) Frame() hw.Framebuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *Emulator) IsPaused() bool { return e.paused.Load() }

// AddLogContext implements log.Context.
func (e *Emulator) AddLogContext(z *log.EntryZ) {
	z.Int64("cycle", e.cycles.Load())
}
