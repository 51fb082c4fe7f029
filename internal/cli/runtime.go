// Package cli holds setup shared by the showfmt commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"showfmt/internal/config"
	"showfmt/internal/logger"
	"showfmt/internal/normalizer"
)

// EnvFile is the optional dotenv file read at startup.
const EnvFile = ".env"

// ErrReported marks failures already printed as status lines; main only sets the exit code.
var ErrReported = errors.New("failure already reported")

// Runtime bundles the configuration and logger of one command invocation.
type Runtime struct {
	Config *config.Config
	Logger *logger.Logger
}

// Setup loads the config at configPath (or the default location), applies environment
// overrides and creates a logger writing to stderr.
func Setup(configPath string, stderr io.Writer) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(EnvFile); err != nil {
		return nil, err
	}

	log := logger.NewLoggerWithWriter(cfg.Logging.Level, stderr)
	log.Debug("Loaded configuration", "config", cfg.String())

	return &Runtime{Config: cfg, Logger: log}, nil
}

// Validate re-checks the configuration after command-line overrides.
func (r *Runtime) Validate() error {
	if err := r.Config.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	return nil
}

// Processor builds the normalization pipeline from the configuration. A nil clock
// selects the wall clock.
func (r *Runtime) Processor(clock func() time.Time) *normalizer.Processor {
	return normalizer.NewProcessor(normalizer.Options{
		Clock:          clock,
		Generator:      r.Config.Normalizer.Generator,
		DefaultCountry: r.Config.Normalizer.DefaultCountry,
		StrictDates:    r.Config.Normalizer.StrictDates,
	})
}
