// Package config holds the compiler's tunable constants, loaded from a
// TOML file the way config/config.go does for the emulator: the constants
// spec.md hardcodes as macros (the constant-pool scan cap, the statement
// recursion guard, the peephole jump-chain hop cap), plus the compiler's
// default flags and source filename. No other package reads a Config: the
// compiler and the CLI use their own package-level constants and flags, so
// a config file does not change their behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the compiler's full set of tunables.
type Config struct {
	Compiler struct {
		ConstScanCap           int    `toml:"const_scan_cap"`
		MaxStatementRecursion  int    `toml:"max_statement_recursion"`
		JumpChainCap           int    `toml:"jump_chain_cap"`
		DefaultSourceFilename  string `toml:"default_source_filename"`
	} `toml:"compiler"`

	Flags struct {
		Eval     bool `toml:"eval"`
		Strict   bool `toml:"strict"`
		FuncExpr bool `toml:"func_expr"`
	} `toml:"flags"`

	Display struct {
		ColorOutput bool `toml:"color_output"`
	} `toml:"display"`
}

// DefaultConfig returns a Config matching spec.md's hardcoded constants
// (compiler.constScanCap, stmt.maxStatementRecursion, emitter.jumpChainCap)
// exactly.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compiler.ConstScanCap = 256
	cfg.Compiler.MaxStatementRecursion = 256
	cfg.Compiler.JumpChainCap = 16
	cfg.Compiler.DefaultSourceFilename = "<input>"

	cfg.Flags.Eval = false
	cfg.Flags.Strict = false
	cfg.Flags.FuncExpr = false

	cfg.Display.ColorOutput = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path, following
// the same XDG/AppData convention as the teacher's GetConfigPath.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "es5c")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "es5c")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// DefaultConfig when no file is present.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, returning defaults unmodified if
// the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path, creating its directory if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
