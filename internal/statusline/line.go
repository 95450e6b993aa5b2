package statusline

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultWidth is the target width of a Line built without WithWidth or
// WithTerminalWidth.
const DefaultWidth = 80

// WidthFunc reports the current terminal column count.
type WidthFunc func() (int, error)

// Option configures a Line.
type Option func(*Line)

// WithSeparator sets the string inserted between adjacent cells.
func WithSeparator(separator string) Option {
	return func(l *Line) {
		l.separator = separator
	}
}

// WithColumns fixes the target width.
func WithColumns(columns int) Option {
	return func(l *Line) {
		l.columns = columns
		l.columnsFn = nil
	}
}

// WithTerminalWidth makes the Line track the terminal: fn is queried at the
// start of every layout pass.
func WithTerminalWidth(fn WidthFunc) Option {
	return func(l *Line) {
		if fn != nil {
			l.columnsFn = fn
		}
	}
}

// Line is an ordered composition of cells rendered to a target width.
//
// After a successful layout pass that includes at least one Elastic cell the
// rendered line is exactly the target width wide. Without Elastic cells the
// line is as wide as its content.
type Line struct {
	cells     []Cell
	byName    map[string]Cell
	separator string
	columns   int
	columnsFn WidthFunc
}

// New constructs an empty Line.
func New(opts ...Option) *Line {
	l := &Line{
		byName:  make(map[string]Cell),
		columns: DefaultWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Add appends cells in display order. Named cells must have unique names.
func (l *Line) Add(cells ...Cell) error {
	for _, cell := range cells {
		if cell == nil {
			return configErr("add cell", "", errors.New("nil cell"))
		}
		if name := cell.Name(); name != "" {
			if _, exists := l.byName[name]; exists {
				return configErr("add cell", name, ErrDuplicateName)
			}
			l.byName[name] = cell
		}
		l.cells = append(l.cells, cell)
	}
	return nil
}

// Cell returns the cell registered under name.
func (l *Line) Cell(name string) (Cell, bool) {
	cell, ok := l.byName[name]
	return cell, ok
}

// Lookup returns the named cell when it has type T.
func Lookup[T Cell](l *Line, name string) (T, bool) {
	var zero T
	cell, ok := l.Cell(name)
	if !ok {
		return zero, false
	}
	typed, ok := cell.(T)
	return typed, ok
}

// Cells returns the cells in display order.
func (l *Line) Cells() []Cell {
	return append([]Cell(nil), l.cells...)
}

// Separator returns the separator placed between cells.
func (l *Line) Separator() string { return l.separator }

// TargetWidth resolves the width the next layout pass aims for.
func (l *Line) TargetWidth() (int, error) {
	if l.columnsFn == nil {
		return l.columns, nil
	}
	columns, err := l.columnsFn()
	if err != nil {
		return 0, &LayoutError{Err: fmt.Errorf("query terminal width: %w", err)}
	}
	return columns, nil
}

// Layout runs one width-resolution pass and returns the width of each cell in
// display order. Only Elastic cells are modified. Each Elastic cell but the
// last receives floor(available/k); the last one absorbs the remainder.
//
// An empty Line always fits: the target width is not even queried.
func (l *Line) Layout() ([]int, error) {
	if len(l.cells) == 0 {
		return nil, nil
	}
	target, err := l.TargetWidth()
	if err != nil {
		return nil, err
	}

	reserved := runeLen(l.separator) * (len(l.cells) - 1)
	var elastic []Cell
	for _, cell := range l.cells {
		if cell.Sizing() == Elastic {
			elastic = append(elastic, cell)
			continue
		}
		if r, ok := cell.(resolver); ok && cell.Sizing() == Auto {
			width, err := r.prepare()
			if err != nil {
				l.release()
				return nil, err
			}
			reserved += width
			continue
		}
		reserved += cell.Width()
	}

	available := target - reserved
	if available < 0 {
		l.release()
		return nil, &LayoutError{Target: target, Reserved: reserved, Err: ErrDoesNotFit}
	}

	if k := len(elastic); k > 0 {
		share := available / k
		for i, cell := range elastic {
			width := share
			if i == k-1 {
				width = available - share*(k-1)
			}
			if err := cell.SetWidth(width); err != nil {
				l.release()
				return nil, err
			}
		}
	}

	widths := make([]int, len(l.cells))
	for i, cell := range l.cells {
		widths[i] = cell.Width()
	}
	return widths, nil
}

func (l *Line) release() {
	for _, cell := range l.cells {
		if r, ok := cell.(resolver); ok {
			r.release()
		}
	}
}

// Render lays the line out and joins the rendered cells with the separator.
// A LayoutError leaves nothing rendered; the caller decides whether to skip
// the tick or stop drawing.
func (l *Line) Render() (string, error) {
	if _, err := l.Layout(); err != nil {
		return "", err
	}
	if len(l.cells) == 0 {
		return "", nil
	}
	parts := make([]string, len(l.cells))
	for i, cell := range l.cells {
		rendered, err := cell.Render()
		if err != nil {
			l.release()
			return "", err
		}
		parts[i] = rendered
	}
	return strings.Join(parts, l.separator), nil
}
