// Package config loads the TOML configuration file that tunes resource
// limits, lexer modes, and logging for one formulang process, the same way
// internal/tqw unmarshals a TQW world file with BurntSushi/toml in the
// teacher.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ashgrove/formulang/internal/eval"
	"github.com/ashgrove/formulang/internal/lex"
)

// LexerConfig toggles the lexer's Options (§4.1).
type LexerConfig struct {
	AllowDigitSeparators bool `toml:"allow_digit_separators"`
	UnicodeIdentifiers   bool `toml:"unicode_identifiers"`
}

func (c LexerConfig) toLexOptions() lex.Options {
	return lex.Options{AllowDigitSeparators: c.AllowDigitSeparators, UnicodeIdentifiers: c.UnicodeIdentifiers}
}

// LimitsConfig mirrors eval.Limits as TOML-addressable fields.
type LimitsConfig struct {
	MaxDepth     int `toml:"max_depth"`
	MaxNodes     int `toml:"max_nodes"`
	MaxVariables int `toml:"max_variables"`
	MaxTimeMs    int `toml:"max_time_ms"`
}

func (c LimitsConfig) toEvalLimits() eval.Limits {
	return eval.Limits{MaxDepth: c.MaxDepth, MaxNodes: c.MaxNodes, MaxVariables: c.MaxVariables, MaxTimeMs: c.MaxTimeMs}
}

// CacheConfig bounds the memoization cache (internal/cache).
type CacheConfig struct {
	Enabled  bool `toml:"enabled"`
	Capacity int  `toml:"capacity"`
}

// LogConfig selects logging verbosity (internal/logging).
type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the top-level shape of a formulang.toml file.
type Config struct {
	Format string       `toml:"format"`
	Type   string       `toml:"type"`
	Lexer  LexerConfig  `toml:"lexer"`
	Limits LimitsConfig `toml:"limits"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// Default returns the configuration a process runs with when no config file
// is supplied: every limit at its spec default, digit separators and
// unicode identifiers off, cache disabled, info-level logging.
func Default() Config {
	limits := eval.DefaultLimits()
	return Config{
		Format: "formulang-config",
		Type:   "config",
		Limits: LimitsConfig{
			MaxDepth: limits.MaxDepth, MaxNodes: limits.MaxNodes,
			MaxVariables: limits.MaxVariables, MaxTimeMs: limits.MaxTimeMs,
		},
		Cache: CacheConfig{Enabled: false, Capacity: 1000},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads and decodes a TOML config file from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LexOptions adapts the config's lexer section to lex.Options.
func (c Config) LexOptions() lex.Options { return c.Lexer.toLexOptions() }

// EvalLimits adapts the config's limits section to eval.Limits.
func (c Config) EvalLimits() eval.Limits { return c.Limits.toEvalLimits() }
