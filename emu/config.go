package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"chipper/emu/log"
	"chipper/hw"
)

type Config struct {
	Emulation EmulationConfig `toml:"emulation"`
	Video     VideoConfig     `toml:"video"`
	Input     InputConfig     `toml:"input"`

	TraceOut    io.Writer      `toml:"-"`
	TraceFormat hw.TraceFormat `toml:"-"`
	MaxCycles   int64          `toml:"-"` // 0 means no limit
}

type EmulationConfig struct {
	CyclesPerSecond int    `toml:"cycles_per_second"` // 0 means unthrottled
	Seed            uint64 `toml:"seed"`              // 0 means nondeterministic
}

type VideoConfig struct {
	PixelOn         string `toml:"pixel_on"`
	PixelOff        string `toml:"pixel_off"`
	ScreenshotScale int    `toml:"screenshot_scale"`
}

// InputConfig maps each of the 16 keys to a host key name.
type InputConfig struct {
	Keymap [hw.NumKeys]string `toml:"keymap"`
}

const (
	DefaultCyclesPerSecond = 600
	DefaultFileMode        = os.FileMode(0755)
	maxCyclesPerSecond     = 1_000_000
)

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		Emulation: EmulationConfig{
			CyclesPerSecond: DefaultCyclesPerSecond,
		},
		Video: VideoConfig{
			PixelOn:         "█",
			PixelOff:        " ",
			ScreenshotScale: 8,
		},
		Input: InputConfig{
			// COSMAC VIP keypad layout, on the left side of a QWERTY keyboard.
			//   1 2 3 C      1 2 3 4
			//   4 5 6 D  ->  q w e r
			//   7 8 9 E      a s d f
			//   A 0 B F      z x c v
			Keymap: [hw.NumKeys]string{
				"x", "1", "2", "3",
				"q", "w", "e", "a",
				"s", "d", "z", "c",
				"4", "r", "f", "v",
			},
		},
	}
}

// Check replaces invalid values with their defaults.
func (cfg *Config) Check() {
	def := DefaultConfig()

	if cps := cfg.Emulation.CyclesPerSecond; cps < 0 || cps > maxCyclesPerSecond {
		log.ModEmu.Warnf("Invalid cycles_per_second %d, fallback to %d", cps, def.Emulation.CyclesPerSecond)
		cfg.Emulation.CyclesPerSecond = def.Emulation.CyclesPerSecond
	}
	if cfg.Video.PixelOn == "" || cfg.Video.PixelOn == cfg.Video.PixelOff {
		log.ModEmu.Warnf("Invalid pixel_on/pixel_off %q/%q, fallback to defaults", cfg.Video.PixelOn, cfg.Video.PixelOff)
		cfg.Video.PixelOn = def.Video.PixelOn
		cfg.Video.PixelOff = def.Video.PixelOff
	}
	if cfg.Video.ScreenshotScale < 1 {
		log.ModEmu.Warnf("Invalid screenshot_scale %d, fallback to %d", cfg.Video.ScreenshotScale, def.Video.ScreenshotScale)
		cfg.Video.ScreenshotScale = def.Video.ScreenshotScale
	}
	if err := cfg.Input.validate(); err != nil {
		log.ModInput.Warnf("Invalid keymap: %s, fallback to default", err)
		cfg.Input = def.Input
	}
}

func (icfg *InputConfig) validate() error {
	seen := make(map[string]int, hw.NumKeys)
	for k, name := range icfg.Keymap {
		name = strings.ToLower(name)
		if name == "" {
			return fmt.Errorf("key %X is not mapped", k)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%q is mapped to both %X and %X", name, prev, k)
		}
		seen[name] = k
	}
	return nil
}

// Parse converts host key names into a key state vector, with the keys
// mapped by names pressed.
func (icfg *InputConfig) Parse(names []string) ([hw.NumKeys]bool, error) {
	var keys [hw.NumKeys]bool
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		k := icfg.index(name)
		if k < 0 {
			return keys, fmt.Errorf("unmapped key %q", name)
		}
		keys[k] = true
	}
	return keys, nil
}

func (icfg *InputConfig) index(name string) int {
	for k, s := range icfg.Keymap {
		if strings.ToLower(s) == name {
			return k
		}
	}
	return -1
}

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "chipper")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// ConfigPath returns the path of the configuration file in the chipper
// config directory.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfig loads and checks the configuration file at path. Keys missing
// from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, err
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.Warnf("Unknown configuration key %q in %s", key.String(), path)
	}
	cfg.Check()
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration at path. If path is empty, the
// file in the chipper config directory is used instead, or the default
// configuration if that file doesn't exist.
func LoadConfigOrDefault(path string) (Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	return loadConfigOrDefault(ConfigPath())
}

func loadConfigOrDefault(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.DebugZ("No configuration file, using defaults").String("path", path).End()
		return DefaultConfig(), nil
	}
	return cfg, err
}

// SaveConfig writes cfg to path.
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
