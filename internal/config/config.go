package config

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/utf8-codec/errors"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "UTF8_CONFIG"

// Modes and formats accepted by the command.
var (
	Modes      = []string{"encode", "decode", "validate", "sanitize"}
	Formats    = []string{"hex", "json", "cbor", "text"}
	LogLevels  = []string{"none", "debug", "info", "warn", "error"}
	LogFormats = []string{"console", "json"}
)

// Config is the utf8 command configuration.
type Config struct {
	// Mode is the operation to run.
	// Default: decode
	Mode string `yaml:"mode"`

	// Format selects how results are printed.
	// Default: text
	Format string `yaml:"format"`

	// Lenient lets decoded output carry surrogates and values above
	// U+10FFFF instead of replacing them.
	Lenient bool `yaml:"lenient"`

	// Names prints the Unicode name next to each decoded code point.
	Names bool `yaml:"names"`

	// ChunkSize feeds the decoder this many bytes per call. 0 decodes the
	// whole input at once.
	ChunkSize int `yaml:"chunk_size"`

	// Log configures diagnostic logging to stderr.
	Log LogConfig `yaml:"log"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of none, debug, info, warn, error.
	// Default: none
	Level string `yaml:"level"`

	// Format is console or json.
	// Default: console
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:   "decode",
		Format: "text",
		Log: LogConfig{
			Level:  "none",
			Format: "console",
		},
	}
}

// Load reads the file named by UTF8_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a configuration file on top of the defaults and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	if !slices.Contains(Modes, c.Mode) {
		return errors.InvalidConfig("mode", "unknown mode %q (want one of %v)", c.Mode, Modes)
	}
	if !slices.Contains(Formats, c.Format) {
		return errors.InvalidConfig("format", "unknown format %q (want one of %v)", c.Format, Formats)
	}
	if c.ChunkSize < 0 {
		return errors.InvalidConfig("chunk_size", "must not be negative, got %d", c.ChunkSize)
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return errors.InvalidConfig("log.level", "unknown level %q (want one of %v)", c.Log.Level, LogLevels)
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		return errors.InvalidConfig("log.format", "unknown format %q (want one of %v)", c.Log.Format, LogFormats)
	}
	return nil
}

// Logger builds a zap logger writing to stderr. Level "none" yields a
// no-op logger.
func (l LogConfig) Logger() (*zap.Logger, error) {
	if l.Level == "" || l.Level == "none" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.InvalidConfig("log.level", "%v", err)
	}

	zc := zap.NewDevelopmentConfig()
	if l.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
