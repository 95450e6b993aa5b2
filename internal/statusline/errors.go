package statusline

import (
	"errors"
	"fmt"
)

var (
	// ErrAutoWidth is returned when SetWidth is called on an Auto cell.
	ErrAutoWidth = errors.New("width of an auto-sized cell follows its content")
	// ErrNegativeWidth is returned for widths below zero.
	ErrNegativeWidth = errors.New("negative width")
	// ErrBarTooNarrow is returned when a bar is rendered with fewer than two columns.
	ErrBarTooNarrow = errors.New("bar needs at least 2 columns")
	// ErrNoTemplate is returned when a Template is rendered before SetTemplate.
	ErrNoTemplate = errors.New("no template set")
	// ErrMissingBinding is returned when a placeholder has no bound value.
	ErrMissingBinding = errors.New("missing binding")
	// ErrBadTemplate is returned for malformed templates or values a
	// placeholder's format spec cannot render.
	ErrBadTemplate = errors.New("malformed template")
	// ErrDuplicateName is returned when two cells in a Line share a name.
	ErrDuplicateName = errors.New("duplicate cell name")
	// ErrDoesNotFit is returned when reserved columns exceed the target width.
	ErrDoesNotFit = errors.New("line does not fit")
)

// ConfigError reports a programming or configuration mistake. It is not
// worth retrying: the same call fails until the caller changes the setup.
type ConfigError struct {
	Op   string
	Cell string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Cell != "" {
		return fmt.Sprintf("statusline: %s %q: %v", e.Op, e.Cell, e.Err)
	}
	return fmt.Sprintf("statusline: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LayoutError reports that a layout pass could not place the line. It is
// recoverable: a later pass may succeed once the terminal is wider or the
// content shorter.
type LayoutError struct {
	Target   int
	Reserved int
	Err      error
}

func (e *LayoutError) Error() string {
	if errors.Is(e.Err, ErrDoesNotFit) {
		return fmt.Sprintf("statusline: %v: need %d columns, have %d", e.Err, e.Reserved, e.Target)
	}
	return fmt.Sprintf("statusline: layout: %v", e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// IsLayout reports whether err is a LayoutError.
func IsLayout(err error) bool {
	var layoutErr *LayoutError
	return errors.As(err, &layoutErr)
}

func configErr(op, cell string, err error) error {
	return &ConfigError{Op: op, Cell: cell, Err: err}
}
