package statusline_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"chapsplit/internal/statusline"
)

func TestBarRenderCounts(t *testing.T) {
	fractions := []float64{0, 0.01, 0.125, 0.33, 0.5, 0.66, 0.999, 1}
	for width := 2; width <= 64; width++ {
		for _, f := range fractions {
			bar := statusline.NewBar(statusline.WithWidth(width))
			bar.SetFraction(f)
			rendered, err := bar.Render()
			if err != nil {
				t.Fatalf("width=%d f=%v: unexpected error %v", width, f, err)
			}
			if len(rendered) != width {
				t.Fatalf("width=%d f=%v: rendered length %d (%q)", width, f, len(rendered), rendered)
			}
			if rendered[0] != '[' || rendered[width-1] != ']' {
				t.Fatalf("width=%d f=%v: missing brackets in %q", width, f, rendered)
			}
			wantFill := int(math.Floor(f * float64(width-2)))
			inner := rendered[1 : width-1]
			if got := strings.Count(inner, "#"); got != wantFill {
				t.Fatalf("width=%d f=%v: fill %d, want %d", width, f, got, wantFill)
			}
			if got := strings.Count(inner, "-"); got != width-2-wantFill {
				t.Fatalf("width=%d f=%v: empty %d, want %d", width, f, got, width-2-wantFill)
			}
		}
	}
}

func TestBarScenario(t *testing.T) {
	bar := statusline.NewBar(statusline.WithWidth(10))
	bar.SetFraction(0.33)
	rendered, err := bar.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rendered != "[##------]" {
		t.Fatalf("unexpected render %q", rendered)
	}
}

func TestBarBoundaries(t *testing.T) {
	bar := statusline.NewBar(statusline.WithWidth(6))
	bar.SetFraction(0)
	if got, _ := bar.Render(); got != "[----]" {
		t.Fatalf("expected empty bar, got %q", got)
	}
	bar.SetFraction(1)
	if got, _ := bar.Render(); got != "[####]" {
		t.Fatalf("expected full bar, got %q", got)
	}
	bar = statusline.NewBar(statusline.WithWidth(2))
	bar.SetFraction(1)
	if got, _ := bar.Render(); got != "[]" {
		t.Fatalf("expected bare brackets, got %q", got)
	}
}

func TestBarClampsFraction(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0},
		{1.7, 1},
		{0.4, 0.4},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tc := range cases {
		clamped := statusline.NewBar(statusline.WithWidth(12))
		clamped.SetFraction(tc.in)
		reference := statusline.NewBar(statusline.WithWidth(12))
		reference.SetFraction(tc.want)
		if clamped.Fraction() != tc.want {
			t.Fatalf("SetFraction(%v) stored %v, want %v", tc.in, clamped.Fraction(), tc.want)
		}
		got, _ := clamped.Render()
		want, _ := reference.Render()
		if got != want {
			t.Fatalf("SetFraction(%v) rendered %q, want %q", tc.in, got, want)
		}
	}
}

func TestBarTooNarrow(t *testing.T) {
	for _, width := range []int{0, 1} {
		bar := statusline.NewBar(statusline.WithName("tiny"), statusline.WithWidth(width))
		_, err := bar.Render()
		if !errors.Is(err, statusline.ErrBarTooNarrow) {
			t.Fatalf("width=%d: expected ErrBarTooNarrow, got %v", width, err)
		}
		var cfgErr *statusline.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("width=%d: expected ConfigError, got %T", width, err)
		}
	}
}

func TestBarCustomRunes(t *testing.T) {
	bar := statusline.NewBar(statusline.WithWidth(6), statusline.WithRunes('█', '░'))
	bar.SetFraction(0.5)
	got, err := bar.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "[██░░]" {
		t.Fatalf("unexpected render %q", got)
	}
	if utf8.RuneCountInString(got) != 6 {
		t.Fatalf("expected 6 runes, got %d", utf8.RuneCountInString(got))
	}
}

func TestBarAutoSizingBecomesElastic(t *testing.T) {
	bar := statusline.NewBar(statusline.WithSizing(statusline.Auto))
	if bar.Sizing() != statusline.Elastic {
		t.Fatalf("expected elastic sizing, got %s", bar.Sizing())
	}
}

func TestTextAutoWidthTracksValue(t *testing.T) {
	text := statusline.NewText("abc")
	if text.Width() != 3 {
		t.Fatalf("expected width 3, got %d", text.Width())
	}
	text.SetValue("abcdefg")
	if text.Width() != 7 {
		t.Fatalf("expected width 7, got %d", text.Width())
	}
	text.SetValue("héllo")
	if text.Width() != 5 {
		t.Fatalf("expected rune width 5, got %d", text.Width())
	}
}

func TestTextAutoRejectsSetWidth(t *testing.T) {
	text := statusline.NewText("abc", statusline.WithName("label"))
	err := text.SetWidth(10)
	if !errors.Is(err, statusline.ErrAutoWidth) {
		t.Fatalf("expected ErrAutoWidth, got %v", err)
	}
	if text.Width() != 3 {
		t.Fatalf("width changed after rejected SetWidth: %d", text.Width())
	}
}

func TestTextFixedWidthIgnoresContent(t *testing.T) {
	text := statusline.NewText("abc", statusline.WithWidth(6))
	text.SetValue("abcdefghij")
	if text.Width() != 6 {
		t.Fatalf("expected fixed width 6, got %d", text.Width())
	}
	if got, _ := text.Render(); got != "abcdef" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if err := text.SetWidth(-1); !errors.Is(err, statusline.ErrNegativeWidth) {
		t.Fatalf("expected ErrNegativeWidth, got %v", err)
	}
	if err := text.SetWidth(8); err != nil {
		t.Fatalf("SetWidth returned error: %v", err)
	}
	if got, _ := text.Render(); got != "abcdefgh" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestTextAlignment(t *testing.T) {
	cases := []struct {
		name  string
		value string
		width int
		align statusline.Align
		want  string
	}{
		{"left pad", "ab", 5, statusline.AlignLeft, "ab   "},
		{"right pad", "ab", 5, statusline.AlignRight, "   ab"},
		{"left truncate", "abcdef", 4, statusline.AlignLeft, "abcd"},
		{"right truncate", "abcdef", 4, statusline.AlignRight, "cdef"},
		{"exact", "abcd", 4, statusline.AlignRight, "abcd"},
		{"zero width", "abcd", 0, statusline.AlignLeft, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := statusline.NewText(tc.value, statusline.WithWidth(tc.width), statusline.WithAlign(tc.align))
			got, err := text.Render()
			if err != nil {
				t.Fatalf("Render returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSizingString(t *testing.T) {
	if statusline.Auto.String() != "auto" || statusline.Fixed.String() != "fixed" || statusline.Elastic.String() != "elastic" {
		t.Fatal("unexpected sizing names")
	}
}
