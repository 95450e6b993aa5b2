package splitter

import (
	"fmt"
	"math"
	"strconv"

	"chapsplit/internal/statusline"
)

// Status cell names.
const (
	cellChapters        = "chapters"
	cellChapterProgress = "chapters_progress"
	cellPercent         = "chapters_percent"
	cellCurrent         = "current_progress"
)

// StatusOptions configures the status line appearance.
type StatusOptions struct {
	Separator string
	// Columns fixes the line width; zero uses Width.
	Columns int
	Width   statusline.WidthFunc
	Fill    rune
	Empty   rune
}

// StatusLine is the split progress line.
type StatusLine struct {
	line     *statusline.Line
	chapters *statusline.Template
	overall  *statusline.Bar
	percent  *statusline.Template
	current  *statusline.Bar
}

// NewStatusLine builds the line for total chapters. withCurrent adds the
// per-chapter bar.
func NewStatusLine(total int, withCurrent bool, opts StatusOptions) (*StatusLine, error) {
	var lineOpts []statusline.Option
	if opts.Separator != "" {
		lineOpts = append(lineOpts, statusline.WithSeparator(opts.Separator))
	}
	switch {
	case opts.Columns > 0:
		lineOpts = append(lineOpts, statusline.WithColumns(opts.Columns))
	case opts.Width != nil:
		lineOpts = append(lineOpts, statusline.WithTerminalWidth(opts.Width))
	}
	var barOpts []statusline.CellOption
	if opts.Fill != 0 && opts.Empty != 0 {
		barOpts = append(barOpts, statusline.WithRunes(opts.Fill, opts.Empty))
	}

	s := &StatusLine{line: statusline.New(lineOpts...)}

	s.chapters = statusline.NewTemplate(statusline.WithName(cellChapters))
	digits := len(strconv.Itoa(total))
	if err := s.chapters.SetTemplate(fmt.Sprintf("Chapter {chap:%dd}/%d", digits, total)); err != nil {
		return nil, err
	}
	s.chapters.Bind("chap", 0)

	s.overall = statusline.NewBar(append([]statusline.CellOption{statusline.WithName(cellChapterProgress)}, barOpts...)...)

	s.percent = statusline.NewTemplate(statusline.WithName(cellPercent))
	percentFormat := "({value:3d}%)"
	if withCurrent {
		percentFormat = "({value:3d}%): Progress"
	}
	if err := s.percent.SetTemplate(percentFormat); err != nil {
		return nil, err
	}
	s.percent.Bind("value", 0)

	cells := []statusline.Cell{s.chapters, s.overall, s.percent}
	if withCurrent {
		s.current = statusline.NewBar(append([]statusline.CellOption{statusline.WithName(cellCurrent)}, barOpts...)...)
		cells = append(cells, s.current)
	}
	if err := s.line.Add(cells...); err != nil {
		return nil, err
	}
	return s, nil
}

// StartChapter marks chapter cur of tot as started.
func (s *StatusLine) StartChapter(cur, tot int) {
	s.chapters.Bind("chap", cur)
	done := 0.0
	if tot > 0 {
		done = float64(cur-1) / float64(tot)
	}
	s.overall.SetFraction(done)
	s.percent.Bind("value", int(math.Ceil(done*100)))
	if s.current != nil {
		s.current.SetFraction(0)
	}
}

// SetCurrent updates the current chapter's progress.
func (s *StatusLine) SetCurrent(fraction float64) {
	if s.current != nil {
		s.current.SetFraction(fraction)
	}
}

// Complete marks every chapter done.
func (s *StatusLine) Complete() {
	s.overall.SetFraction(1)
	s.percent.Bind("value", 100)
	if s.current != nil {
		s.current.SetFraction(1)
	}
}

// Render lays out and renders the line.
func (s *StatusLine) Render() (string, error) {
	return s.line.Render()
}
