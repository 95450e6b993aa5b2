package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"chapsplit/internal/statusline"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateProgress(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Dir == "" {
		return errors.New("output.dir must be set")
	}
	if err := statusline.NewTemplate().SetTemplate(c.Output.Template); err != nil {
		return fmt.Errorf("output.template: %w", err)
	}
	return nil
}

func (c *Config) validateProgress() error {
	switch c.Progress.Mode {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return fmt.Errorf("progress.mode must be one of auto, always, never (got %q)", c.Progress.Mode)
	}
	if c.Progress.Width < 0 {
		return errors.New("progress.width must be zero (track terminal) or positive")
	}
	if utf8.RuneCountInString(c.Progress.Fill) != 1 {
		return fmt.Errorf("progress.fill must be a single character (got %q)", c.Progress.Fill)
	}
	if utf8.RuneCountInString(c.Progress.Empty) != 1 {
		return fmt.Errorf("progress.empty must be a single character (got %q)", c.Progress.Empty)
	}
	return nil
}

// FillRune returns the configured bar fill character.
func (p Progress) FillRune() rune {
	r, _ := utf8.DecodeRuneInString(p.Fill)
	return r
}

// EmptyRune returns the configured bar empty character.
func (p Progress) EmptyRune() rune {
	r, _ := utf8.DecodeRuneInString(p.Empty)
	return r
}
