// Package config loads the mcqer configuration from viper (config file,
// environment and flags) into typed sections with defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/jonesrussell/mcqer/internal/database"
	"github.com/jonesrussell/mcqer/internal/extractor"
	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/inliner"
	"github.com/jonesrussell/mcqer/internal/logger"
	"github.com/jonesrussell/mcqer/internal/pagination"
)

// Default values.
const (
	DefaultAppName         = "mcqer"
	DefaultRootURL         = "https://www.indiabix.com"
	DefaultBaseURL         = "https://www.indiabix.com/civil-engineering"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultDelay           = 1 * time.Second
	DefaultParallelism     = 2
	DefaultPageWorkers     = 1
	DefaultMaxBodySize     = 10 * 1024 * 1024
	DefaultRobotsCacheTTL  = 24 * time.Hour
	DefaultExportOutputDir = "flashcards"
	DefaultUserAgent       = "mcqer/1.0 (+https://github.com/jonesrussell/mcqer)"
)

// DefaultCategories are the civil engineering categories of the question bank.
var DefaultCategories = []string{
	"building-materials",
	"surveying",
	"building-construction",
	"concrete-technology",
	"soil-mechanics-and-foundation-engineering",
	"advanced-surveying",
	"strength-of-materials",
	"rcc-structures-design",
	"steel-structure-design",
	"construction-management",
	"theory-of-structures",
	"structural-design-specifications",
	"estimating-and-costing",
	"tunnelling",
	"engineering-economy",
	"upsc-civil-service-exam-questions",
}

// Config is the full application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Selectors SelectorsConfig `mapstructure:"selectors"`
	Inliner   InlinerConfig   `mapstructure:"inliner"`
	Database  database.Config `mapstructure:"database"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// CrawlerConfig configures the crawl and the fetcher it uses.
type CrawlerConfig struct {
	RootURL          string        `mapstructure:"root_url"`
	BaseURL          string        `mapstructure:"base_url"`
	Categories       []string      `mapstructure:"categories"`
	SourceName       string        `mapstructure:"source_name"`
	UserAgent        string        `mapstructure:"user_agent"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	Delay            time.Duration `mapstructure:"delay"`
	RandomDelay      time.Duration `mapstructure:"random_delay"`
	Parallelism      int           `mapstructure:"parallelism"`
	PageWorkers      int           `mapstructure:"page_workers"`
	MaxBodySize      int           `mapstructure:"max_body_size"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt"`
	RobotsCacheTTL   time.Duration `mapstructure:"robots_cache_ttl"`
	// Schedule is an optional cron expression for recurring crawls.
	Schedule string `mapstructure:"schedule"`
}

// FetcherConfig returns the fetcher settings of the crawler section.
func (c CrawlerConfig) FetcherConfig() fetcher.Config {
	return fetcher.Config{
		UserAgent:        c.UserAgent,
		RequestTimeout:   c.RequestTimeout,
		Delay:            c.Delay,
		RandomDelay:      c.RandomDelay,
		Parallelism:      c.Parallelism,
		MaxBodySize:      c.MaxBodySize,
		RespectRobotsTxt: c.RespectRobotsTxt,
		RobotsCacheTTL:   c.RobotsCacheTTL,
	}
}

// SelectorsConfig holds the markup hooks of the question bank.
type SelectorsConfig struct {
	Question   extractor.Selectors  `mapstructure:"question"`
	Pagination pagination.Selectors `mapstructure:"pagination"`
}

// InlinerConfig configures image inlining.
type InlinerConfig struct {
	DetectMIME bool `mapstructure:"detect_mime"`
}

// ExportConfig configures flash-card export.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// InlinerSettings returns the inliner configuration, rooted at the crawl's
// root URL.
func (c *Config) InlinerSettings() inliner.Config {
	return inliner.Config{RootURL: c.Crawler.RootURL, DetectMIME: c.Inliner.DetectMIME}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        DefaultAppName,
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        logger.DefaultLevel,
		"encoding":     logger.DefaultEncoding,
		"development":  false,
		"output_paths": []string{"stdout"},
	})

	v.SetDefault("crawler", map[string]any{
		"root_url":           DefaultRootURL,
		"base_url":           DefaultBaseURL,
		"categories":         DefaultCategories,
		"source_name":        extractor.DefaultSourceName,
		"user_agent":         DefaultUserAgent,
		"request_timeout":    DefaultRequestTimeout.String(),
		"delay":              DefaultDelay.String(),
		"random_delay":       "0s",
		"parallelism":        DefaultParallelism,
		"page_workers":       DefaultPageWorkers,
		"max_body_size":      DefaultMaxBodySize,
		"respect_robots_txt": true,
		"robots_cache_ttl":   DefaultRobotsCacheTTL.String(),
		"schedule":           "",
	})

	v.SetDefault("selectors", map[string]any{
		"question": map[string]any{
			"container_class": extractor.DefaultContainerClass,
			"question_class":  extractor.DefaultQuestionClass,
			"options_class":   extractor.DefaultOptionsClass,
			"option_class":    extractor.DefaultOptionClass,
			"answer_class":    extractor.DefaultAnswerClass,
		},
		"pagination": map[string]any{
			"template_input_id": pagination.DefaultTemplateInputID,
			"max_input_id":      pagination.DefaultMaxInputID,
			"page_token":        pagination.DefaultPageToken,
			"page_item_class":   pagination.DefaultPageItemClass,
			"page_link_class":   pagination.DefaultPageLinkClass,
			"next_label":        pagination.DefaultNextLabel,
			"max_pages":         pagination.DefaultMaxPages,
		},
	})

	v.SetDefault("inliner", map[string]any{
		"detect_mime": false,
	})

	v.SetDefault("database", map[string]any{
		"driver":   database.DriverSQLite,
		"dsn":      "",
		"path":     database.DefaultSQLitePath,
		"host":     "localhost",
		"port":     "5432",
		"user":     "postgres",
		"password": "",
		"dbname":   "mcqer",
		"sslmode":  "disable",
	})

	v.SetDefault("export", map[string]any{
		"output_dir": DefaultExportOutputDir,
	})
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values the crawl cannot run with.
func (c *Config) Validate() error {
	logCfg := c.Logger
	logCfg.SetDefaults()
	if err := logCfg.Validate(); err != nil {
		return err
	}

	if err := c.Crawler.Validate(); err != nil {
		return err
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if c.Export.OutputDir == "" {
		return errors.New("export: output_dir is required")
	}

	return nil
}

// Validate checks the crawler section.
func (c CrawlerConfig) Validate() error {
	for name, raw := range map[string]string{"root_url": c.RootURL, "base_url": c.BaseURL} {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("crawler: %s must be an absolute url, got %q", name, raw)
		}
	}

	if len(c.Categories) == 0 {
		return errors.New("crawler: at least one category is required")
	}

	switch {
	case c.PageWorkers < 1:
		return fmt.Errorf("crawler: page_workers must be at least 1, got %d", c.PageWorkers)
	case c.Parallelism < 1:
		return fmt.Errorf("crawler: parallelism must be at least 1, got %d", c.Parallelism)
	case c.Delay < 0 || c.RandomDelay < 0:
		return errors.New("crawler: delays must not be negative")
	case c.RequestTimeout <= 0:
		return errors.New("crawler: request_timeout must be positive")
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("crawler: invalid schedule %q: %w", c.Schedule, err)
		}
	}

	return nil
}
