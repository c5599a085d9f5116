// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/mcqer/internal/config"
	"github.com/jonesrussell/mcqer/internal/logger"
)

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger logger.Logger
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// NewCommandDeps loads the config from the global viper instance and
// creates the logger it describes.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log.With(logger.String("app", cfg.App.Name)),
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}
