package logger

import (
	"fmt"
	"strings"
)

// Supported encodings.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Default configuration values.
const (
	DefaultLevel    = "info"
	DefaultEncoding = EncodingJSON
)

// DefaultOutputPaths is the default list of paths to write log output to.
var DefaultOutputPaths = []string{"stdout"}

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error, fatal).
	Level string `mapstructure:"level"`
	// Encoding is either "json" or "console".
	Encoding string `mapstructure:"encoding"`
	// Development enables development mode (DPanic panics, caller always on).
	Development bool `mapstructure:"development"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `mapstructure:"output_paths"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
}

// Validate checks level and encoding.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("logger: invalid level %q", c.Level)
	}

	switch c.Encoding {
	case EncodingJSON, EncodingConsole:
	default:
		return fmt.Errorf("logger: invalid encoding %q", c.Encoding)
	}

	return nil
}
