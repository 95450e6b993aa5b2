package splitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"chapsplit/internal/chapters"
	"chapsplit/internal/config"
	"chapsplit/internal/ffmpeg"
	"chapsplit/internal/journal"
	"chapsplit/internal/logging"
	"chapsplit/internal/outtmpl"
	"chapsplit/internal/statusline"
	"chapsplit/internal/termsize"
)

// Cutter cuts one chapter. *ffmpeg.Client implements it.
type Cutter interface {
	Cut(ctx context.Context, job ffmpeg.Job, onProgress func(ffmpeg.Progress)) error
}

// Request describes one split.
type Request struct {
	Input string
	// Selection holds 1-based chapter indices; empty selects all.
	Selection chapters.Selection
	// Resume skips chapters the journal records as written.
	Resume bool
	DryRun bool
}

// Output is one written chapter file.
type Output struct {
	Chapter chapters.Chapter
	Path    string
	Bytes   int64
	Skipped bool
}

// Result summarises a split.
type Result struct {
	SessionID string
	Chapters  int
	Outputs   []Output
	Bytes     int64
	Elapsed   time.Duration
	DryRun    bool
}

// Written counts outputs produced by this run.
func (r Result) Written() int {
	n := 0
	for _, o := range r.Outputs {
		if !o.Skipped {
			n++
		}
	}
	return n
}

// Skipped counts outputs left from an earlier run.
func (r Result) Skipped() int {
	return len(r.Outputs) - r.Written()
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithProber replaces the ffprobe-backed prober.
func WithProber(p Prober) Option {
	return func(s *Splitter) {
		if p != nil {
			s.prober = p
		}
	}
}

// WithJournal records completed chapters in store.
func WithJournal(store *journal.Store) Option {
	return func(s *Splitter) {
		s.journal = store
	}
}

// WithStatus draws the status line on w. width is queried for the line
// width unless the configuration fixes one.
func WithStatus(w *termsize.Writer, width statusline.WidthFunc) Option {
	return func(s *Splitter) {
		s.status = w
		s.width = width
	}
}

// Splitter runs splits.
type Splitter struct {
	cfg     *config.Config
	logger  *slog.Logger
	cutter  Cutter
	prober  Prober
	journal *journal.Store
	status  *termsize.Writer
	width   statusline.WidthFunc
}

// New constructs a Splitter.
func New(cfg *config.Config, cutter Cutter, logger *slog.Logger, opts ...Option) (*Splitter, error) {
	if cfg == nil {
		return nil, errors.New("splitter: config required")
	}
	if cutter == nil {
		return nil, errors.New("splitter: cutter required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Splitter{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "chaps"),
		cutter: cutter,
		prober: NewProber(cfg),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run splits req.Input.
func (s *Splitter) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	result := Result{SessionID: uuid.NewString(), DryRun: req.DryRun}
	logger := s.logger.With(logging.String(logging.FieldSessionID, result.SessionID))

	namer, err := outtmpl.New(s.cfg.Output.Template, s.cfg.Output.RestrictFilenames)
	if err != nil {
		return result, err
	}

	logger.Info("getting infos from file", logging.String(logging.FieldInput, req.Input))
	probe, all, err := LoadChapters(ctx, s.prober, req.Input)
	if err != nil {
		return result, fmt.Errorf("read chapters: %w", err)
	}
	working, err := chapters.Select(all, req.Selection)
	if err != nil {
		return result, err
	}
	result.Chapters = len(working)
	found := []logging.Attr{logging.Int(logging.FieldChapterCount, len(all))}
	if len(req.Selection) > 0 {
		found = append(found, logging.String("selection", req.Selection.String()), logging.Int("selected", len(working)))
	}
	logger.LogAttrs(ctx, logging.LevelVerbose, "found chapters", found...)

	var (
		in   journal.Input
		done map[int]journal.Entry
	)
	if !req.DryRun {
		if err := os.MkdirAll(s.cfg.Output.Dir, 0o755); err != nil {
			return result, fmt.Errorf("create output directory: %w", err)
		}
		lock, err := lockDir(s.cfg.Output.Dir)
		if err != nil {
			return result, err
		}
		defer func() { _ = lock.Unlock() }()

		if s.journal != nil {
			if in, err = journal.InputOf(req.Input); err != nil {
				return result, err
			}
			if req.Resume {
				if done, err = s.journal.Completed(ctx, in); err != nil {
					return result, err
				}
			} else if removed, err := s.journal.Forget(ctx, in); err != nil {
				logger.Warn("journal cleanup failed", logging.Error(err))
			} else if removed > 0 {
				logging.Trace(logger, "cleared earlier journal entries", logging.Int64("entries", removed))
			}
		}
	}

	var line *StatusLine
	if s.status != nil && !req.DryRun {
		line, err = NewStatusLine(len(working), !s.cfg.FFmpeg.CodecCopy, StatusOptions{
			Separator: s.cfg.Progress.Separator,
			Columns:   s.cfg.Progress.Width,
			Width:     s.width,
			Fill:      s.cfg.Progress.FillRune(),
			Empty:     s.cfg.Progress.EmptyRune(),
		})
		if err != nil {
			return result, fmt.Errorf("status line: %w", err)
		}
	}

	var sampler *logging.ProgressSampler
	if line == nil {
		sampler = logging.NewProgressSampler(25)
	}

	src := outtmpl.Source{Path: req.Input, Count: len(all), Tags: probe.Format.Tags}
	for i, ch := range working {
		if err := ctx.Err(); err != nil {
			s.clearStatus()
			return result, err
		}
		name, err := namer.Name(src, ch)
		if err != nil {
			s.clearStatus()
			return result, err
		}
		outPath := filepath.Join(s.cfg.Output.Dir, name)
		chLogger := logger.With(logging.Int(logging.FieldChapter, ch.Index), logging.String(logging.FieldOutput, outPath))

		if skip, size := s.alreadyDone(done, ch.Index, outPath); skip {
			logging.VeryVerbose(chLogger, "chapter already written, skipping", logging.String("title", ch.Title))
			result.Outputs = append(result.Outputs, Output{Chapter: ch, Path: outPath, Bytes: size, Skipped: true})
			continue
		}
		if !s.cfg.Output.Overwrite && !req.DryRun {
			if _, err := os.Stat(outPath); err == nil {
				s.clearStatus()
				return result, fmt.Errorf("chapter %d: %s already exists (enable output.overwrite to replace it)", ch.Index, outPath)
			}
		}

		chLogger.Info(fmt.Sprintf("Extracting chapter %q...", ch.Title))
		if line != nil {
			line.StartChapter(i+1, len(working))
			s.draw(chLogger, line)
		}

		job := ffmpeg.Job{
			Input:     req.Input,
			Output:    outPath,
			Start:     ch.Start,
			End:       ch.End,
			CodecCopy: s.cfg.FFmpeg.CodecCopy,
			ExtraArgs: s.cfg.FFmpeg.ExtraArgs,
		}
		err = s.cutter.Cut(ctx, job, func(p ffmpeg.Progress) {
			if line == nil {
				if sampler.ShouldLog(ch.Index, p.Fraction*100) {
					logging.VeryVerbose(chLogger, "chapter progress", logging.Int("percent", int(p.Fraction*100)))
				}
				return
			}
			line.SetCurrent(p.Fraction)
			s.draw(chLogger, line)
		})
		if err != nil {
			s.clearStatus()
			return result, fmt.Errorf("chapter %d (%s): %w", ch.Index, ch.Title, err)
		}

		out := Output{Chapter: ch, Path: outPath}
		if !req.DryRun {
			if info, statErr := os.Stat(outPath); statErr == nil {
				out.Bytes = info.Size()
			}
			result.Bytes += out.Bytes
			if s.journal != nil {
				if err := s.journal.Record(ctx, in, journal.Entry{
					Chapter:   ch.Index,
					Output:    outPath,
					Bytes:     out.Bytes,
					SessionID: result.SessionID,
				}); err != nil {
					chLogger.Warn("journal update failed; resume will redo this chapter", logging.Error(err))
				}
			}
			logging.VeryVerbose(chLogger, "chapter written", logging.String("size", humanize.Bytes(uint64(out.Bytes))))
		}
		result.Outputs = append(result.Outputs, out)
	}

	if line != nil {
		line.Complete()
		if rendered, err := line.Render(); err == nil {
			_ = s.status.Finish(rendered)
		} else {
			s.clearStatus()
		}
	}
	result.Elapsed = time.Since(started)
	return result, nil
}

// alreadyDone reports whether the journal lists chapter as written and its
// output is still on disk at the recorded size.
func (s *Splitter) alreadyDone(done map[int]journal.Entry, chapter int, outPath string) (bool, int64) {
	entry, ok := done[chapter]
	if !ok || entry.Output != outPath {
		return false, 0
	}
	info, err := os.Stat(outPath)
	if err != nil || info.Size() != entry.Bytes {
		return false, 0
	}
	return true, info.Size()
}

func (s *Splitter) draw(logger *slog.Logger, line *StatusLine) {
	rendered, err := line.Render()
	if err != nil {
		if statusline.IsLayout(err) || errors.Is(err, statusline.ErrBarTooNarrow) {
			logging.Trace(logger, "status line skipped", logging.Error(err))
		} else {
			logger.Debug("status line render failed", logging.Error(err))
		}
		return
	}
	_ = s.status.Update(rendered)
}

func (s *Splitter) clearStatus() {
	if s.status != nil {
		s.status.Clear()
	}
}
