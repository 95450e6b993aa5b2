package splitter_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gofrs/flock"

	"chapsplit/internal/chapters"
	"chapsplit/internal/config"
	"chapsplit/internal/ffmpeg"
	"chapsplit/internal/logging"
	"chapsplit/internal/media/ffprobe"
	"chapsplit/internal/splitter"
	"chapsplit/internal/termsize"
	"chapsplit/internal/testsupport"
)

type fakeCutter struct {
	jobs  []ffmpeg.Job
	err   error
	steps []float64
}

func (f *fakeCutter) Cut(ctx context.Context, job ffmpeg.Job, onProgress func(ffmpeg.Progress)) error {
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return f.err
	}
	for _, step := range f.steps {
		onProgress(ffmpeg.Progress{Fraction: step})
	}
	if err := os.WriteFile(job.Output, bytes.Repeat([]byte("a"), int(job.Duration())), 0o644); err != nil {
		return err
	}
	onProgress(ffmpeg.Progress{Fraction: 1, Done: true})
	return nil
}

func fixture(t *testing.T) (string, splitter.Prober) {
	t.Helper()
	input := filepath.Join(t.TempDir(), "book.m4b")
	testsupport.WriteFile(t, input, 512)
	doc := testsupport.ProbeJSON(t, map[string]string{"artist": "Jane Doe"},
		testsupport.ProbeChapter{Title: "Intro", Start: 0, End: 10},
		testsupport.ProbeChapter{Title: "Part: One", Start: 10, End: 40},
		testsupport.ProbeChapter{Title: "Outro", Start: 40, End: 45},
	)
	prober := splitter.ProbeFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		if path != input {
			t.Fatalf("unexpected probe path %q", path)
		}
		return ffprobe.Parse(doc)
	})
	return input, prober
}

func newSplitter(t *testing.T, cfg *config.Config, cutter splitter.Cutter, opts ...splitter.Option) *splitter.Splitter {
	t.Helper()
	s, err := splitter.New(cfg, cutter, nil, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestRunWritesEveryChapter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	cutter := &fakeCutter{}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober))

	result, err := s.Run(context.Background(), splitter.Request{Input: input})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Written() != 3 || result.Skipped() != 0 || result.Chapters != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Bytes != 10+30+5 {
		t.Fatalf("unexpected byte total %d", result.Bytes)
	}
	wantNames := []string{"01 - Intro.m4b", "02 - Part- One.m4b", "03 - Outro.m4b"}
	for i, name := range wantNames {
		if filepath.Base(result.Outputs[i].Path) != name {
			t.Fatalf("output %d: got %q, want %q", i, filepath.Base(result.Outputs[i].Path), name)
		}
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Fatalf("expected %s on disk: %v", name, err)
		}
	}
	if cutter.jobs[1].Start != 10 || cutter.jobs[1].End != 40 || cutter.jobs[1].CodecCopy {
		t.Fatalf("unexpected job %+v", cutter.jobs[1])
	}
	if result.SessionID == "" {
		t.Fatal("expected session id")
	}
}

func TestRunDrawsStatusLine(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithProgress(config.ProgressAlways, 60))
	input, prober := fixture(t)
	var buf bytes.Buffer
	cutter := &fakeCutter{steps: []float64{0.25, 0.5}}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober), splitter.WithStatus(termsize.NewWriter(&buf), nil))

	if _, err := s.Run(context.Background(), splitter.Request{Input: input}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "Chapter 3/3 [#############] (100%): Progress [#############]\n") {
		t.Fatalf("unexpected final line in %q", out)
	}
	frames := strings.Split(strings.TrimSuffix(out, "\n"), "\r")
	if len(frames) < 3*4 {
		t.Fatalf("expected a frame per chapter start and progress tick, got %d", len(frames))
	}
	for _, frame := range frames {
		if utf8.RuneCountInString(frame) != 60 {
			t.Fatalf("frame %q is %d runes", frame, utf8.RuneCountInString(frame))
		}
	}
	if !strings.Contains(out, "Chapter 2/3 [####---------] ( 34%): Progress [###----------]") {
		t.Fatalf("expected a mid-run frame for chapter 2, got %q", out)
	}
}

func TestRunCodecCopyOmitsCurrentBar(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCodecCopy(true), testsupport.WithProgress(config.ProgressAlways, 40))
	input, prober := fixture(t)
	var buf bytes.Buffer
	cutter := &fakeCutter{}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober), splitter.WithStatus(termsize.NewWriter(&buf), nil))

	if _, err := s.Run(context.Background(), splitter.Request{Input: input}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.Contains(buf.String(), "Progress") {
		t.Fatalf("did not expect a current-chapter bar: %q", buf.String())
	}
	if !cutter.jobs[0].CodecCopy {
		t.Fatal("expected stream copy jobs")
	}
}

func TestRunSkipsFramesThatDoNotFit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithProgress(config.ProgressAlways, 20))
	input, prober := fixture(t)
	var buf bytes.Buffer
	s := newSplitter(t, cfg, &fakeCutter{steps: []float64{0.5}}, splitter.WithProber(prober), splitter.WithStatus(termsize.NewWriter(&buf), nil))

	result, err := s.Run(context.Background(), splitter.Request{Input: input})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Written() != 3 {
		t.Fatalf("expected the split to complete, got %+v", result)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no frames on a 20 column line, got %q", buf.String())
	}
}

func TestRunSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	cutter := &fakeCutter{}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober))

	result, err := s.Run(context.Background(), splitter.Request{Input: input, Selection: chapters.Only(3)})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(cutter.jobs) != 1 || filepath.Base(result.Outputs[0].Path) != "03 - Outro.m4b" {
		t.Fatalf("expected only chapter 3, got %+v", result.Outputs)
	}

	if _, err := s.Run(context.Background(), splitter.Request{Input: input, Selection: chapters.Only(9)}); err == nil {
		t.Fatal("expected error for unknown chapter")
	}
}

func TestRunResumeSkipsJournaledChapters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	store := testsupport.MustOpenJournal(t, cfg.Journal.Path)

	first := &fakeCutter{}
	s := newSplitter(t, cfg, first, splitter.WithProber(prober), splitter.WithJournal(store))
	if _, err := s.Run(context.Background(), splitter.Request{Input: input}); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}

	truncated := filepath.Join(cfg.Output.Dir, "02 - Part- One.m4b")
	if err := os.WriteFile(truncated, []byte("x"), 0o644); err != nil {
		t.Fatalf("truncate output: %v", err)
	}

	second := &fakeCutter{}
	s = newSplitter(t, cfg, second, splitter.WithProber(prober), splitter.WithJournal(store))
	result, err := s.Run(context.Background(), splitter.Request{Input: input, Resume: true})
	if err != nil {
		t.Fatalf("resume Run returned error: %v", err)
	}
	if len(second.jobs) != 1 || second.jobs[0].Output != truncated {
		t.Fatalf("expected only the truncated chapter to be recut, got %+v", second.jobs)
	}
	if result.Skipped() != 2 || result.Written() != 1 {
		t.Fatalf("unexpected resume result: skipped=%d written=%d", result.Skipped(), result.Written())
	}

	third := &fakeCutter{}
	s = newSplitter(t, cfg, third, splitter.WithProber(prober), splitter.WithJournal(store))
	if _, err := s.Run(context.Background(), splitter.Request{Input: input}); err != nil {
		t.Fatalf("non-resume Run returned error: %v", err)
	}
	if len(third.jobs) != 3 {
		t.Fatalf("expected a full recut without resume, got %d jobs", len(third.jobs))
	}
}

func TestRunRefusesLockedDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(cfg.Output.Dir, splitter.LockFileName))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("hold lock: %v %v", ok, err)
	}
	defer held.Unlock()

	s := newSplitter(t, cfg, &fakeCutter{}, splitter.WithProber(prober))
	if _, err := s.Run(context.Background(), splitter.Request{Input: input}); !errors.Is(err, splitter.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunRespectsOverwrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Output.Overwrite = false
	input, prober := fixture(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Output.Dir, "01 - Intro.m4b"), 3)

	cutter := &fakeCutter{}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober))
	_, err := s.Run(context.Background(), splitter.Request{Input: input})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected existing-file error, got %v", err)
	}
	if len(cutter.jobs) != 0 {
		t.Fatal("expected no cuts")
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	cutter := &dryCutter{}
	s := newSplitter(t, cfg, cutter, splitter.WithProber(prober))

	result, err := s.Run(context.Background(), splitter.Request{Input: input, DryRun: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if cutter.calls != 3 || !result.DryRun || result.Bytes != 0 {
		t.Fatalf("unexpected dry run result %+v (calls=%d)", result, cutter.calls)
	}
	if _, err := os.Stat(cfg.Output.Dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run created the output directory: %v", err)
	}
}

type dryCutter struct{ calls int }

func (d *dryCutter) Cut(context.Context, ffmpeg.Job, func(ffmpeg.Progress)) error {
	d.calls++
	return nil
}

func TestRunReportsCutFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithProgress(config.ProgressAlways, 60))
	input, prober := fixture(t)
	var buf bytes.Buffer
	w := termsize.NewWriter(&buf)
	s := newSplitter(t, cfg, &fakeCutter{err: errors.New("exit status 1: Invalid data")}, splitter.WithProber(prober), splitter.WithStatus(w, nil))

	_, err := s.Run(context.Background(), splitter.Request{Input: input})
	if err == nil || !strings.Contains(err.Error(), "chapter 1 (Intro)") {
		t.Fatalf("expected chapter context in error, got %v", err)
	}
	if w.Live() {
		t.Fatal("expected status line to be cleared after failure")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSplitter(t, cfg, &fakeCutter{}, splitter.WithProber(prober))
	if _, err := s.Run(ctx, splitter.Request{Input: input}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunReportsProgressAtDefaultVerbosity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input, prober := fixture(t)
	level, _ := logging.Verbosity{}.Resolve()
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{LevelValue: &level, Output: &logs})
	if err != nil {
		t.Fatalf("logging.New returned error: %v", err)
	}
	s, err := splitter.New(cfg, &fakeCutter{}, logger, splitter.WithProber(prober))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := s.Run(context.Background(), splitter.Request{Input: input, Selection: chapters.Only(1, 2)}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	out := logs.String()
	for _, want := range []string{"getting infos from file", "found chapters", "1-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in default log output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "chapter written") {
		t.Fatalf("per-chapter detail should need -vv, got:\n%s", out)
	}
}
