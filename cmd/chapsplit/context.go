package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"chapsplit/internal/config"
	"chapsplit/internal/logging"
	"chapsplit/internal/termsize"
)

type commandContext struct {
	configFlag *string
	verbosity  logging.Verbosity

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	logger *slog.Logger
	status *termsize.Writer
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// setup loads configuration (unless the command opts out) and builds the
// logger and status writer for cmd.
func (c *commandContext) setup(cmd *cobra.Command) error {
	c.status = termsize.NewWriter(cmd.OutOrStdout())

	var cfg *config.Config
	if !shouldSkipConfig(cmd) {
		loaded, err := c.ensureConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, warnings, err := c.buildLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.logger = logger
	for _, warning := range warnings {
		logger.Warn(warning)
	}
	return nil
}

// buildLogger honours the verbosity switches when any is given and falls
// back to the configured level otherwise.
func (c *commandContext) buildLogger(cfg *config.Config, out io.Writer) (*slog.Logger, []string, error) {
	opts := logging.Options{
		Output: out,
		BeforeWrite: func(io.Writer) {
			c.status.Clear()
		},
	}
	if cfg != nil {
		opts.Format = cfg.Logging.Format
		opts.Level = cfg.Logging.Level
	}
	var warnings []string
	if c.verbosity.Count > 0 || c.verbosity.Quiet || c.verbosity.Debug {
		var level slog.Level
		level, warnings = c.verbosity.Resolve()
		opts.LevelValue = &level
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, warnings, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// configCopy returns a copy of the loaded configuration that a command may
// override with its flags.
func (c *commandContext) configCopy() (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	clone := *cfg
	clone.FFmpeg.ExtraArgs = append([]string(nil), cfg.FFmpeg.ExtraArgs...)
	return &clone, nil
}

func (c *commandContext) loggerOrNop() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
