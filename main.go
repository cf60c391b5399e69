package main

import (
	"fmt"
	"os"

	"chipper/emu"
	"chipper/emu/rpc"
)

// Set at link time.
var version = "devel"

func main() {
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case versionMode:
		fmt.Println("chipper", version)
	case romInfosMode:
		romInfosMain(args.RomInfos)
	case disasmMode:
		disasmMain(args.Disasm)
	case remoteMode:
		cfg, err := emu.LoadConfigOrDefault(args.Config)
		checkf(err, "failed to load configuration")
		remoteMain(args.Remote, cfg.Input)
	case runMode:
		cfg, err := emu.LoadConfigOrDefault(args.Config)
		checkf(err, "failed to load configuration")
		runMain(args.Run, cfg)
	}
}

var _ rpc.Emu = (*emu.Emulator)(nil)

func check(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", err)
	os.Exit(1)
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
