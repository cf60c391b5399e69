package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"chipper/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	disasmMode               // Disassemble a ROM
	romInfosMode             // Show ROM infos
	remoteMode               // Control a running emulator
	versionMode              // Show chipper version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator."`
		Disasm   Disasm   `cmd:"" help:"Disassemble ROM."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Remote   Remote   `cmd:"" help:"Control an emulator started with --port."`
		Version  Version  `cmd:"" help:"Show chipper version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM to run." required:"true" type:"existingfile"`

		Hz          *int     `name:"hz" help:"Instructions per second, overrides the configuration. 0 is unthrottled."`
		Cycles      int64    `name:"cycles" help:"Stop after executing that many instructions."`
		Seed        uint64   `name:"seed" help:"Seed of the random number generator, overrides the configuration."`
		Screen      bool     `name:"screen" help:"Render the screen as text on stdout, read held keys from stdin lines."`
		Trace       *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		TraceFormat string   `name:"trace-format" help:"CPU trace log format." enum:"text,json" default:"text"`
		Screenshot  string   `name:"screenshot" help:"Save the last frame as PNG when the emulator stops." type:"path" placeholder:"FILE.png"`
		DumpState   string   `name:"dump-state" help:"Write the machine state as JSON when the emulator stops." type:"path" placeholder:"FILE"`
		CPUProfile  string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
		Port        int      `name:"port" help:"Start the remote control server on that port."`
	}

	Disasm struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Remote struct {
		Port   int     `name:"port" help:"Port of the emulator remote control server." required:""`
		Pause  bool    `name:"pause" help:"Pause emulation." xor:"pause"`
		Resume bool    `name:"resume" help:"Resume emulation." xor:"pause"`
		Reset  bool    `name:"reset" help:"Reset the machine and reload the ROM."`
		Stop   bool    `name:"stop" help:"Stop the emulator."`
		Keys   *string `name:"keys" help:"Set held keys, by host key name (see the keymap configuration). Empty releases all keys." placeholder:"1,q,..."`
		Frame  bool    `name:"frame" help:"Print the last frame."`
		State  bool    `name:"state" help:"Print the machine state as JSON."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"cpuprofile_help": "Write CPU profile to file.",
	"log_help":        "Enable logging for specified modules.",
	"config_help":     "Configuration file (default: config.toml in the user config directory).",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("chipper"),
		kong.Description("CHIP-8 interpreter."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "disasm </path/to/rom>":
		cfg.mode = disasmMode
	case "rom-infos </path/to/rom>":
		cfg.mode = romInfosMode
	case "remote":
		cfg.mode = remoteMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }
