package statusline

import (
	"math"
	"strings"
)

// Bar renders a bracketed progress indicator such as "[###-----]".
type Bar struct {
	base
	fraction float64
	fill     rune
	empty    rune
}

// NewBar constructs an Elastic bar at 0%. Auto sizing has no meaning for a
// bar and is treated as Elastic.
func NewBar(opts ...CellOption) *Bar {
	settings := buildSettings(Elastic, opts)
	if settings.sizing == Auto {
		settings.sizing = Elastic
	}
	return &Bar{
		base:  base{name: settings.name, sizing: settings.sizing, width: settings.width},
		fill:  settings.fill,
		empty: settings.empty,
	}
}

// SetFraction stores f clamped to [0,1]. Producers overshoot by rounding, so
// out-of-range values are not an error. NaN is treated as 0.
func (b *Bar) SetFraction(f float64) {
	switch {
	case math.IsNaN(f) || f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	b.fraction = f
}

// Fraction returns the stored, clamped fraction.
func (b *Bar) Fraction() float64 { return b.fraction }

func (b *Bar) Width() int { return b.width }

// SetWidth accepts any non-negative width; a bar narrower than two columns
// fails at render time.
func (b *Bar) SetWidth(width int) error { return b.setWidth(width) }

// Filled returns how many inner columns the current fraction fills.
func (b *Bar) Filled() int {
	inner := b.width - 2
	if inner <= 0 {
		return 0
	}
	filled := int(math.Floor(b.fraction * float64(inner)))
	if filled > inner {
		filled = inner
	}
	if filled < 0 {
		filled = 0
	}
	return filled
}

func (b *Bar) Render() (string, error) {
	if b.width < 2 {
		return "", configErr("render bar", b.name, ErrBarTooNarrow)
	}
	inner := b.width - 2
	filled := b.Filled()

	var sb strings.Builder
	sb.Grow(b.width + 2)
	sb.WriteByte('[')
	for i := 0; i < filled; i++ {
		sb.WriteRune(b.fill)
	}
	for i := filled; i < inner; i++ {
		sb.WriteRune(b.empty)
	}
	sb.WriteByte(']')
	return sb.String(), nil
}
