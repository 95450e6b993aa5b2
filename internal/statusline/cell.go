package statusline

import (
	"strings"
	"unicode/utf8"
)

// Sizing selects how a cell's width is resolved.
type Sizing int

const (
	// Auto cells are exactly as wide as their rendered content.
	Auto Sizing = iota
	// Fixed cells keep an explicitly assigned width.
	Fixed
	// Elastic cells receive a share of the space left over by a Line.
	Elastic
)

func (s Sizing) String() string {
	switch s {
	case Auto:
		return "auto"
	case Fixed:
		return "fixed"
	case Elastic:
		return "elastic"
	default:
		return "unknown"
	}
}

// Align controls how text is padded or truncated to its width.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Cell is one addressable segment of a Line.
type Cell interface {
	Name() string
	Sizing() Sizing
	Width() int
	// SetWidth assigns the width of a Fixed or Elastic cell. Auto cells
	// reject it with ErrAutoWidth.
	SetWidth(width int) error
	// Render returns the cell content padded or truncated to Width runes.
	Render() (string, error)
}

// resolver is implemented by cells whose Auto width depends on a resolution
// step that can fail. Line uses it so those failures surface from Layout.
// prepare resolves once for the current pass and returns the resulting
// width; the following Render reuses that resolution. release drops it when
// the pass fails.
type resolver interface {
	prepare() (int, error)
	release()
}

// CellOption configures a cell at construction time.
type CellOption func(*cellSettings)

type cellSettings struct {
	name      string
	sizing    Sizing
	sizingSet bool
	width     int
	align     Align
	fill      rune
	empty     rune
}

// WithName sets the identifier used to look the cell up in a Line.
func WithName(name string) CellOption {
	return func(s *cellSettings) {
		s.name = strings.TrimSpace(name)
	}
}

// WithSizing overrides the cell's default sizing policy.
func WithSizing(sizing Sizing) CellOption {
	return func(s *cellSettings) {
		s.sizing = sizing
		s.sizingSet = true
	}
}

// WithWidth makes the cell Fixed at the given width.
func WithWidth(width int) CellOption {
	return func(s *cellSettings) {
		s.sizing = Fixed
		s.sizingSet = true
		s.width = width
	}
}

// WithAlign sets text alignment. Bars ignore it.
func WithAlign(align Align) CellOption {
	return func(s *cellSettings) {
		s.align = align
	}
}

// WithRunes sets the fill and empty characters of a Bar.
func WithRunes(fill, empty rune) CellOption {
	return func(s *cellSettings) {
		s.fill = fill
		s.empty = empty
	}
}

func buildSettings(defaultSizing Sizing, opts []CellOption) cellSettings {
	settings := cellSettings{sizing: defaultSizing, fill: '#', empty: '-'}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	if settings.width < 0 {
		settings.width = 0
	}
	return settings
}

type base struct {
	name   string
	sizing Sizing
	width  int
}

func (b *base) Name() string   { return b.name }
func (b *base) Sizing() Sizing { return b.sizing }

func (b *base) setWidth(width int) error {
	if b.sizing == Auto {
		return configErr("set width", b.name, ErrAutoWidth)
	}
	if width < 0 {
		return configErr("set width", b.name, ErrNegativeWidth)
	}
	b.width = width
	return nil
}

// Text is a plain label.
type Text struct {
	base
	align Align
	value string
}

// NewText constructs an Auto-sized label unless options say otherwise.
func NewText(value string, opts ...CellOption) *Text {
	settings := buildSettings(Auto, opts)
	t := &Text{
		base:  base{name: settings.name, sizing: settings.sizing, width: settings.width},
		align: settings.align,
	}
	t.SetValue(value)
	return t
}

// SetValue replaces the label; Auto cells resize immediately.
func (t *Text) SetValue(value string) {
	t.value = value
	if t.sizing == Auto {
		t.width = runeLen(value)
	}
}

// Value returns the current label.
func (t *Text) Value() string { return t.value }

func (t *Text) Width() int { return t.width }

func (t *Text) SetWidth(width int) error { return t.setWidth(width) }

func (t *Text) Render() (string, error) {
	return fit(t.value, t.width, t.align), nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// fit pads or truncates s to exactly width runes. Right-aligned text keeps
// its rightmost runes when truncated.
func fit(s string, width int, align Align) string {
	if width <= 0 {
		return ""
	}
	n := runeLen(s)
	if n == width {
		return s
	}
	if n > width {
		runes := []rune(s)
		if align == AlignRight {
			return string(runes[n-width:])
		}
		return string(runes[:width])
	}
	pad := strings.Repeat(" ", width-n)
	if align == AlignRight {
		return pad + s
	}
	return s + pad
}
