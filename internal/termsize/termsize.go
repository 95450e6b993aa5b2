// Package termsize answers terminal questions for the status line: whether
// a stream is a terminal, how wide it is, and how to redraw a single line
// in place.
package termsize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"chapsplit/internal/statusline"
)

// DefaultColumns is used when neither the terminal nor $COLUMNS report a width.
const DefaultColumns = statusline.DefaultWidth

// ErrNotTerminal is returned by Columns for streams without a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Columns returns the width of the terminal behind file.
func Columns(file *os.File) (int, error) {
	if file == nil || !term.IsTerminal(int(file.Fd())) {
		return 0, ErrNotTerminal
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0, fmt.Errorf("terminal size: %w", err)
	}
	if width <= 0 {
		return 0, fmt.Errorf("terminal size: reported width %d", width)
	}
	return width, nil
}

// WidthOf returns a statusline.WidthFunc that queries file on every call and
// falls back to $COLUMNS, then DefaultColumns. It never fails.
func WidthOf(file *os.File) statusline.WidthFunc {
	return func() (int, error) {
		if width, err := Columns(file); err == nil {
			return width, nil
		}
		return envColumns(), nil
	}
}

func envColumns() int {
	if value := strings.TrimSpace(os.Getenv("COLUMNS")); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return DefaultColumns
}

const clearLine = "\r\x1b[K"

// Writer redraws one status line in place. It is safe for concurrent use,
// so a log handler can clear the line from another goroutine.
type Writer struct {
	mu   sync.Mutex
	out  io.Writer
	live bool
}

// NewWriter returns a Writer drawing on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Update draws line and returns the cursor to column zero.
func (w *Writer) Update(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, line+"\r"); err != nil {
		return err
	}
	w.live = true
	return nil
}

// Finish draws line and moves to the next row, leaving it on screen.
func (w *Writer) Finish(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.live = false
	_, err := io.WriteString(w.out, line+"\n")
	return err
}

// Clear erases a live line. It does nothing when no line is drawn.
func (w *Writer) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.live {
		return
	}
	_, _ = io.WriteString(w.out, clearLine)
	w.live = false
}

// Live reports whether a line is currently drawn.
func (w *Writer) Live() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.live
}
