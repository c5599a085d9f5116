package fetcher

import "time"

// Default configuration values.
const (
	defaultUserAgent      = "mcqer/1.0 (+https://github.com/jonesrussell/mcqer)"
	defaultRequestTimeout = 30 * time.Second
	defaultDelay          = 1 * time.Second
	defaultParallelism    = 2
	defaultMaxBodySize    = 10 * 1024 * 1024 // 10 MB
	defaultRobotsCacheTTL = 24 * time.Hour
)

// Config holds fetcher configuration.
type Config struct {
	UserAgent        string        `mapstructure:"user_agent"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	Delay            time.Duration `mapstructure:"delay"`
	RandomDelay      time.Duration `mapstructure:"random_delay"`
	Parallelism      int           `mapstructure:"parallelism"`
	MaxBodySize      int           `mapstructure:"max_body_size"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt"`
	RobotsCacheTTL   time.Duration `mapstructure:"robots_cache_ttl"`
}

// WithDefaults returns a copy of the config with default values applied for
// zero-value fields. A zero Delay is kept: it disables politeness delays.
func (c Config) WithDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.Delay < 0 {
		c.Delay = defaultDelay
	}
	if c.RandomDelay < 0 {
		c.RandomDelay = 0
	}
	if c.Parallelism <= 0 {
		c.Parallelism = defaultParallelism
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.RobotsCacheTTL <= 0 {
		c.RobotsCacheTTL = defaultRobotsCacheTTL
	}
	return c
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Delay:            defaultDelay,
		RespectRobotsTxt: true,
	}.WithDefaults()
}
