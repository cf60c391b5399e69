package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"chipper/emu"
	"chipper/emu/rpc"
	"chipper/hw"
	"chipper/rom"
)

// runMain runs the emulator with the given rom, until it's stopped or the
// machine faults.
func runMain(args Run, cfg emu.Config) {
	img, err := rom.Open(args.RomPath)
	checkf(err, "error reading ROM")

	if args.Hz != nil {
		cfg.Emulation.CyclesPerSecond = *args.Hz
	}
	if args.Seed != 0 {
		cfg.Emulation.Seed = args.Seed
	}
	cfg.Check()
	cfg.MaxCycles = args.Cycles

	if args.Trace != nil {
		defer args.Trace.Close()
		cfg.TraceOut = args.Trace
		cfg.TraceFormat, err = hw.ParseTraceFormat(args.TraceFormat)
		check(err)
	}

	var (
		out emu.Output = &emu.HeadlessOutput{}
		in  emu.Input
	)
	if args.Screen {
		out = emu.NewTextOutput(os.Stdout, cfg.Video, true)
		in = emu.NewLineInput(os.Stdin, cfg.Input)
	}

	emulator, err := emu.Launch(img, out, in, cfg)
	checkf(err, "failed to start emulator")

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	if args.Port != 0 {
		server, err := rpc.NewServer(args.Port, emulator)
		checkf(err, "failed to start remote control server")
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := emulator.Run(ctx)

	if args.Screenshot != "" {
		fb := emulator.Frame()
		if err := emu.SaveAsPNG(&fb, args.Screenshot, cfg.Video.ScreenshotScale); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save screenshot: %s\n", err)
		}
	}

	if args.DumpState != "" {
		if err := emulator.DumpState(args.DumpState); err != nil {
			fmt.Fprintf(os.Stderr, "failed to dump state: %s\n", err)
		}
	}

	if runErr != nil {
		// Deferred calls don't run after os.Exit.
		stop()
		if args.Trace != nil {
			args.Trace.Close()
		}
		pprof.StopCPUProfile()

		var operr *hw.OpcodeError
		if errors.As(runErr, &operr) {
			dis := hw.Disasm(emulator.Machine.Mem[:], operr.PC)
			fatalf("machine halted after %d cycles: %s (%s)", emulator.Machine.Cycles, runErr, dis)
		}
		fatalf("machine halted after %d cycles: %s", emulator.Machine.Cycles, runErr)
	}
}

// disasmMain prints the linear disassembly of a rom.
func disasmMain(args Disasm) {
	img, err := rom.Open(args.RomPath)
	checkf(err, "error reading ROM")
	check(img.Disasm(os.Stdout))
}

func romInfosMain(args RomInfos) {
	img, err := rom.Open(args.RomPath)
	checkf(err, "error reading ROM")
	img.PrintInfos(os.Stdout)
}

// remoteMain sends commands to an emulator started with --port.
func remoteMain(args Remote, icfg emu.InputConfig) {
	client, err := rpc.NewClient(args.Port)
	checkf(err, "failed to connect to emulator")
	defer client.Close()

	if args.Keys != nil {
		var names []string
		if *args.Keys != "" {
			names = strings.Split(*args.Keys, ",")
		}
		keys, err := icfg.Parse(names)
		checkf(err, "invalid --keys")
		checkf(client.SetKeys(keys), "failed to set keys")
	}

	switch {
	case args.Pause:
		checkf(client.SetPause(true), "failed to pause")
	case args.Resume:
		checkf(client.SetPause(false), "failed to resume")
	}

	if args.Reset {
		checkf(client.Reset(), "failed to reset")
	}

	if args.Frame {
		fb, err := client.Frame()
		checkf(err, "failed to get frame")
		fmt.Print(fb.String())
	}

	if args.State {
		state, err := client.State()
		checkf(err, "failed to get state")
		fmt.Println(string(state.Marshal()))
	}

	if args.Stop {
		checkf(client.Stop(), "failed to stop")
	}
}
